package main

import (
	"io/fs"
	"os"
	"testing"

	"github.com/rdd6584/blogqa/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequesterConfig(t *testing.T) {
	cfg := &config.Config{Providers: config.ProvidersConfig{
		Default:     "openai",
		MaxTokens:   512,
		Temperature: 0,
		OpenAI:      config.ProviderConfig{APIKey: "sk-test", Model: "gpt-4o-mini"},
		Azure:       config.AzureConfig{
			Endpoint:   "https://example.openai.azure.com",
			APIVersion: "2024-02-15-preview",
			APIKey:     "az-key",
			Deployment: "chat",
		},
		Bedrock: config.BedrockConfig{Model: "anthropic.claude", Region: "us-east-1"},
	}}

	rc := requesterConfig(cfg)
	assert.Equal(t, "gpt-4o-mini", rc.Model)
	assert.Equal(t, "sk-test", rc.Credentials.ApiKey)
	assert.Equal(t, 512, rc.MaxTokens)

	cfg.Providers.Default = "azure"
	rc = requesterConfig(cfg)
	assert.Equal(t, "chat", rc.Model)
	require.NotNil(t, rc.Credentials.Azure)
	assert.Equal(t, "https://example.openai.azure.com", rc.Credentials.Azure.Endpoint)
	assert.Equal(t, "az-key", rc.Credentials.ApiKey)

	cfg.Providers.Default = "bedrock"
	rc = requesterConfig(cfg)
	assert.Equal(t, "anthropic.claude", rc.Model)
	require.NotNil(t, rc.Credentials.Aws)
	assert.Equal(t, "us-east-1", rc.Credentials.Aws.Region)
}

func TestEmbeddingConfig(t *testing.T) {
	cfg := &config.Config{Embedding: config.EmbeddingConfig{
		Provider: "openai",
		Model:    "text-embedding-3-large",
		APIKey:   "sk-test",
	}}

	ec := embeddingConfig(cfg)
	assert.Equal(t, "text-embedding-3-large", ec.Model)
	assert.Equal(t, "sk-test", ec.Credentials.ApiKey)
}

func TestGetMode(t *testing.T) {
	args := os.Args
	t.Cleanup(func() { os.Args = args })

	os.Args = []string{"blogqa"}
	assert.Equal(t, modeServer, getMode())

	os.Args = []string{"blogqa", "build"}
	assert.Equal(t, modeBuild, getMode())
}

func TestWebRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/index.html", []byte("local"), 0o600))

	root := webRoot(&config.Config{Server: config.ServerConfig{StaticDir: dir}})
	data, err := fs.ReadFile(root, "index.html")
	require.NoError(t, err)
	assert.Equal(t, "local", string(data))

	_, err = fs.ReadFile(webRoot(&config.Config{}), "index.html")
	assert.NoError(t, err)
}
