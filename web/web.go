package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// FS returns the question page and its assets rooted at the static
// directory.
func FS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
