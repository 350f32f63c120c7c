package httpx

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/valyala/fasthttp"
)

// AcceptEncoding lists every encoding DecodeChain understands.
const AcceptEncoding = "br, gzip, zstd, deflate"

// DecodeChain undoes the Content-Encoding of an upstream response, last
// applied encoding first. It reports whether the body was changed.
func DecodeChain(resp *fasthttp.Response, body []byte) ([]byte, bool, error) {
	ce := string(resp.Header.Peek(fasthttp.HeaderContentEncoding))
	if ce == "" {
		return body, false, nil
	}
	encodings := strings.Split(ce, ",")
	changed := false
	for i := len(encodings) - 1; i >= 0; i-- {
		enc := strings.ToLower(strings.TrimSpace(encodings[i]))
		var (
			out []byte
			err error
		)
		switch enc {
		case "", "identity":
			continue
		case "br":
			out, err = io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		case "gzip":
			out, err = readAndClose(gzip.NewReader(bytes.NewReader(body)))
		case "zstd":
			out, err = decodeZstd(body)
		case "deflate":
			out, err = readAndClose(zlib.NewReader(bytes.NewReader(body)))
			if err != nil {
				// some servers send raw deflate without the zlib wrapper
				out, err = readAndClose(flate.NewReader(bytes.NewReader(body)), nil)
			}
		default:
			return nil, false, fmt.Errorf("unsupported content-encoding: %q", enc)
		}
		if err != nil {
			return nil, false, fmt.Errorf("decode %s: %w", enc, err)
		}
		body = out
		changed = true
	}
	return body, changed, nil
}

func readAndClose(r io.ReadCloser, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	out, err := io.ReadAll(r)
	if cerr := r.Close(); err == nil {
		err = cerr
	}
	return out, err
}

func decodeZstd(body []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(body, nil)
}
