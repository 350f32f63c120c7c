package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderLocator_Get(t *testing.T) {
	locator := NewProviderLocator()

	for _, name := range []string{ProviderOpenAI, ProviderGemini, ProviderAnthropic, ProviderBedrock, ProviderAzure} {
		c, err := locator.Get(name)
		require.NoError(t, err, name)
		assert.NotNil(t, c, name)
	}

	first, err := locator.Get("OpenAI")
	require.NoError(t, err)
	second, err := locator.Get(ProviderOpenAI)
	require.NoError(t, err)
	assert.Same(t, first, second)

	google, err := locator.Get(ProviderGoogle)
	require.NoError(t, err)
	gem, err := locator.Get(ProviderGemini)
	require.NoError(t, err)
	assert.Same(t, google, gem)
}

func TestProviderLocator_Unsupported(t *testing.T) {
	_, err := NewProviderLocator().Get("cohere")
	assert.ErrorContains(t, err, "unsupported provider: cohere")
}
