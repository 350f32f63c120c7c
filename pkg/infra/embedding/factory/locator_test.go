package factory

import (
	"testing"
	"time"

	"github.com/rdd6584/blogqa/pkg/domain/embedding"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func TestServiceLocator_GetService(t *testing.T) {
	locator := NewServiceLocator(logrus.New(), &fasthttp.Client{}, &BreakerConfig{MaxFailures: 3, OpenTimeout: time.Second})

	for _, provider := range []string{OpenAIProvider, GeminiProvider, ""} {
		svc, err := locator.GetService(provider)
		require.NoError(t, err, provider)
		assert.NotNil(t, svc, provider)
	}

	_, err := locator.GetService("cohere")
	assert.ErrorIs(t, err, embedding.ErrUnsupportedProvider)
}
