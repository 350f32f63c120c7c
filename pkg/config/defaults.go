package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultPort          = 3000
	DefaultMetricsPort   = 9090
	DefaultEmbeddingFile = "embeddings.json"
	DefaultContentDir    = "app/posts/contents"
)

func setDefaultValues(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.metrics_port", DefaultMetricsPort)
	v.SetDefault("server.body_limit", 64*1024)
	v.SetDefault("server.static_dir", "")

	v.SetDefault("metrics.enabled", true)

	v.SetDefault("rag.embeddings_file", DefaultEmbeddingFile)
	v.SetDefault("rag.threshold", 0.2)
	v.SetDefault("rag.top_k", 5)
	v.SetDefault("rag.token_budget", 5000)
	v.SetDefault("rag.encoding", "r50k_base")
	v.SetDefault("rag.include_sources", false)

	v.SetDefault("embedding.provider", "openai")
	v.SetDefault("embedding.model", "text-embedding-3-large")
	v.SetDefault("embedding.base_url", "")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.timeout", 30*time.Second)
	v.SetDefault("embedding.breaker.max_failures", 5)
	v.SetDefault("embedding.breaker.open_timeout", 30*time.Second)
	v.SetDefault("embedding.cache.enabled", false)
	v.SetDefault("embedding.cache.ttl", 24*time.Hour)

	v.SetDefault("providers.default", "openai")
	v.SetDefault("providers.max_tokens", 512)
	v.SetDefault("providers.temperature", 0.0)
	v.SetDefault("providers.fallback_phrase", "")
	v.SetDefault("providers.openai.model", "gpt-4o-mini")
	v.SetDefault("providers.openai.base_url", "")
	v.SetDefault("providers.anthropic.model", "claude-3-5-haiku-latest")
	v.SetDefault("providers.anthropic.base_url", "")
	v.SetDefault("providers.gemini.model", "gemini-2.0-flash")
	v.SetDefault("providers.gemini.base_url", "")
	v.SetDefault("providers.bedrock.model", "anthropic.claude-3-haiku-20240307-v1:0")
	v.SetDefault("providers.bedrock.access_key", "")
	v.SetDefault("providers.bedrock.secret_key", "")
	v.SetDefault("providers.bedrock.session_token", "")
	v.SetDefault("providers.azure.endpoint", "")
	v.SetDefault("providers.azure.api_version", "2024-02-15-preview")
	v.SetDefault("providers.azure.deployment", "")
	v.SetDefault("providers.azure.use_identity", false)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.tls", false)

	v.SetDefault("builder.content_dir", DefaultContentDir)
	v.SetDefault("builder.extensions", []string{".mdx", ".md"})
	v.SetDefault("builder.workers", 1)
}
