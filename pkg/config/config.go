package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	RAG       RAGConfig       `mapstructure:"rag"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Builder   BuilderConfig   `mapstructure:"builder"`

	// File is the config file that was read, empty when running on
	// defaults and environment only.
	File string `mapstructure:"-"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
	BodyLimit   int    `mapstructure:"body_limit"`
	StaticDir   string `mapstructure:"static_dir"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type RAGConfig struct {
	EmbeddingsFile string  `mapstructure:"embeddings_file"`
	Threshold      float64 `mapstructure:"threshold"`
	TopK           int     `mapstructure:"top_k"`
	TokenBudget    int     `mapstructure:"token_budget"`
	Encoding       string  `mapstructure:"encoding"`
	IncludeSources bool    `mapstructure:"include_sources"`
}

type EmbeddingConfig struct {
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Breaker  BreakerConfig `mapstructure:"breaker"`
	Cache    CacheConfig   `mapstructure:"cache"`
}

type BreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type ProvidersConfig struct {
	Default        string         `mapstructure:"default"`
	MaxTokens      int            `mapstructure:"max_tokens"`
	Temperature    float64        `mapstructure:"temperature"`
	FallbackPhrase string         `mapstructure:"fallback_phrase"`
	OpenAI         ProviderConfig `mapstructure:"openai"`
	Anthropic      ProviderConfig `mapstructure:"anthropic"`
	Gemini         ProviderConfig `mapstructure:"gemini"`
	Bedrock        BedrockConfig  `mapstructure:"bedrock"`
	Azure          AzureConfig    `mapstructure:"azure"`
}

type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type BedrockConfig struct {
	Model        string `mapstructure:"model"`
	Region       string `mapstructure:"region"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	SessionToken string `mapstructure:"session_token"`
}

type AzureConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	APIVersion  string `mapstructure:"api_version"`
	APIKey      string `mapstructure:"api_key"`
	Deployment  string `mapstructure:"deployment"`
	UseIdentity bool   `mapstructure:"use_identity"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

type BuilderConfig struct {
	ContentDir string   `mapstructure:"content_dir"`
	Extensions []string `mapstructure:"extensions"`
	Workers    int      `mapstructure:"workers"`
}

// Load reads config.yaml from configPath, ./config or the working
// directory. A missing file is not an error: defaults and environment
// variables are enough to run.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaultValues(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	cfg, err := loadConfigFile(v, configPath, "config")
	if err != nil {
		return nil, err
	}
	cfg.Embedding.APIKey = embeddingKey(cfg)

	return cfg, nil
}

func loadConfigFile(v *viper.Viper, configPath, fileName string) (*Config, error) {
	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}
	cfg.File = v.ConfigFileUsed()
	return &cfg, nil
}

func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"providers.openai.api_key":    {"PROVIDERS_OPENAI_API_KEY", "OPENAI_KEY", "OPENAI_API_KEY"},
		"providers.anthropic.api_key": {"PROVIDERS_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"},
		"providers.gemini.api_key":    {"PROVIDERS_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"providers.azure.api_key":     {"PROVIDERS_AZURE_API_KEY", "AZURE_OPENAI_API_KEY"},
		"providers.bedrock.region":    {"PROVIDERS_BEDROCK_REGION", "AWS_REGION"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// embeddingKey falls back to the matching provider key so a single
// OPENAI_KEY serves both embeddings and completions.
func embeddingKey(cfg *Config) string {
	if cfg.Embedding.APIKey != "" {
		return cfg.Embedding.APIKey
	}
	switch cfg.Embedding.Provider {
	case "gemini":
		return cfg.Providers.Gemini.APIKey
	default:
		return cfg.Providers.OpenAI.APIKey
	}
}
