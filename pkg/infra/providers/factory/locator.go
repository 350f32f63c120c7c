package factory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rdd6584/blogqa/pkg/infra/providers"
	"github.com/rdd6584/blogqa/pkg/infra/providers/anthropic"
	"github.com/rdd6584/blogqa/pkg/infra/providers/azure"
	"github.com/rdd6584/blogqa/pkg/infra/providers/bedrock"
	"github.com/rdd6584/blogqa/pkg/infra/providers/gemini"
	"github.com/rdd6584/blogqa/pkg/infra/providers/openai"
)

const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderGoogle    = "google"
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
	ProviderAzure     = "azure"
)

//go:generate mockery --name=ProviderLocator --dir=. --output=./mocks --filename=provider_locator_mock.go --case=underscore --with-expecter

type ProviderLocator interface {
	Get(provider string) (providers.Client, error)
}

type providerLocator struct {
	mu      sync.Mutex
	clients map[string]providers.Client
}

func NewProviderLocator() ProviderLocator {
	return &providerLocator{
		clients: make(map[string]providers.Client),
	}
}

// Get returns the client registered for provider, building it on first use.
func (f *providerLocator) Get(provider string) (providers.Client, error) {
	name := strings.ToLower(strings.TrimSpace(provider))
	if name == ProviderGoogle {
		name = ProviderGemini
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.clients[name]; ok {
		return c, nil
	}

	var c providers.Client
	switch name {
	case ProviderOpenAI:
		c = openai.NewOpenaiClient()
	case ProviderGemini:
		c = gemini.NewGeminiClient()
	case ProviderAnthropic:
		c = anthropic.NewAnthropicClient()
	case ProviderBedrock:
		c = bedrock.NewBedrockClient()
	case ProviderAzure:
		c = azure.NewAzureClient()
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	f.clients[name] = c
	return c, nil
}
