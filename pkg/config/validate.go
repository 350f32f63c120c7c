package config

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Validate fails fast on settings the service cannot start with, most
// notably a missing key for the selected embedding or completion provider.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Server.Port > 0, "server.port must be positive")
	check(!c.Metrics.Enabled || c.Server.MetricsPort > 0, "server.metrics_port must be positive when metrics are enabled")
	check(!c.Metrics.Enabled || c.Server.MetricsPort != c.Server.Port, "server.metrics_port must differ from server.port")

	check(c.RAG.EmbeddingsFile != "", "rag.embeddings_file is required")
	check(c.RAG.Threshold >= -1 && c.RAG.Threshold <= 1, "rag.threshold must be within [-1, 1]")
	check(c.RAG.TopK > 0, "rag.top_k must be positive")
	check(c.RAG.TokenBudget > 0, "rag.token_budget must be positive")

	switch c.Embedding.Provider {
	case "openai", "gemini":
		check(c.Embedding.APIKey != "", "missing API key for embedding provider %s (set %s)", c.Embedding.Provider, embeddingKeyEnv(c.Embedding.Provider))
	default:
		errs = append(errs, fmt.Errorf("unsupported embedding provider %q", c.Embedding.Provider))
	}

	p := c.Providers
	check(p.MaxTokens > 0, "providers.max_tokens must be positive")
	switch p.Default {
	case "openai":
		check(p.OpenAI.APIKey != "", "missing API key for provider openai (set OPENAI_KEY)")
	case "anthropic":
		check(p.Anthropic.APIKey != "", "missing API key for provider anthropic (set ANTHROPIC_API_KEY)")
	case "gemini":
		check(p.Gemini.APIKey != "", "missing API key for provider gemini (set GEMINI_API_KEY)")
	case "bedrock":
		check(p.Bedrock.Region != "", "providers.bedrock.region is required")
	case "azure":
		check(p.Azure.Endpoint != "", "providers.azure.endpoint is required")
		check(p.Azure.Deployment != "", "providers.azure.deployment is required")
		check(p.Azure.UseIdentity || p.Azure.APIKey != "", "missing API key for provider azure (set AZURE_OPENAI_API_KEY)")
	default:
		errs = append(errs, fmt.Errorf("unsupported completion provider %q", p.Default))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ValidateBuilder checks only what the offline embedding build needs.
func (c *Config) ValidateBuilder() error {
	var errs []error
	if c.Builder.ContentDir == "" {
		errs = append(errs, errors.New("builder.content_dir is required"))
	}
	if c.RAG.EmbeddingsFile == "" {
		errs = append(errs, errors.New("rag.embeddings_file is required"))
	}
	if c.Embedding.APIKey == "" {
		errs = append(errs, fmt.Errorf("missing API key for embedding provider %s (set %s)", c.Embedding.Provider, embeddingKeyEnv(c.Embedding.Provider)))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// embeddingKeyEnv names the environment variable that supplies the key for
// an embedding provider.
func embeddingKeyEnv(provider string) string {
	if provider == "gemini" {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_KEY"
}
