package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rdd6584/blogqa/pkg/app/ask"
	"github.com/rdd6584/blogqa/pkg/app/contextbuilder"
	"github.com/rdd6584/blogqa/pkg/app/indexer"
	"github.com/rdd6584/blogqa/pkg/app/retrieval"
	"github.com/rdd6584/blogqa/pkg/cache"
	"github.com/rdd6584/blogqa/pkg/config"
	"github.com/rdd6584/blogqa/pkg/domain/embedding"
	handlers "github.com/rdd6584/blogqa/pkg/handlers/http"
	infraDocument "github.com/rdd6584/blogqa/pkg/infra/document"
	embeddingCache "github.com/rdd6584/blogqa/pkg/infra/embedding/cache"
	embeddingFactory "github.com/rdd6584/blogqa/pkg/infra/embedding/factory"
	infraLogger "github.com/rdd6584/blogqa/pkg/infra/logger"
	"github.com/rdd6584/blogqa/pkg/infra/providers"
	providerFactory "github.com/rdd6584/blogqa/pkg/infra/providers/factory"
	"github.com/rdd6584/blogqa/pkg/infra/repository"
	"github.com/rdd6584/blogqa/pkg/infra/tokenizer"
	"github.com/rdd6584/blogqa/pkg/middleware"
	"github.com/rdd6584/blogqa/pkg/server"
	"github.com/rdd6584/blogqa/pkg/server/router"
	"github.com/rdd6584/blogqa/pkg/version"
	"github.com/rdd6584/blogqa/web"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

const (
	modeServer = "server"
	modeBuild  = "build"

	shutdownTimeout = 10 * time.Second
)

func main() {
	mode := getMode()
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger, closeLogs, err := infraLogger.NewLogger(infraLogger.Options{
		Name:    mode,
		Dir:     os.Getenv("LOG_DIR"),
		Level:   os.Getenv("LOG_LEVEL"),
		Console: true,
	})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	if err := run(mode, logger); err != nil {
		logger.WithError(err).Error("blogqa stopped with an error")
		closeLogs()
		os.Exit(1)
	}
	closeLogs()
}

func run(mode string, logger *logrus.Logger) error {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"mode":        mode,
		"version":     version.String(),
		"config_file": cfg.File,
	}).Info("starting blogqa")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch mode {
	case modeServer:
		return runServer(ctx, cfg, logger)
	case modeBuild:
		return runBuild(ctx, cfg, logger)
	default:
		return fmt.Errorf("unknown mode %q (expected %s or %s)", mode, modeServer, modeBuild)
	}
}

func runServer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	creator, err := newEmbeddingCreator(cfg, logger)
	if err != nil {
		return err
	}
	if cfg.Embedding.Cache.Enabled {
		redisCache := cache.NewCache(cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TLS:      cfg.Redis.TLS,
		})
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			logger.WithError(err).Warn("embedding cache unavailable, continuing without it")
		} else {
			creator = embeddingCache.NewCachedCreator(creator, redisCache, cfg.Embedding.Cache.TTL, logger)
		}
	}

	tok, err := tokenizer.NewBPETokenizer(cfg.RAG.Encoding)
	if err != nil {
		return err
	}

	client, err := providerFactory.NewProviderLocator().Get(cfg.Providers.Default)
	if err != nil {
		return err
	}

	service := ask.NewService(
		creator,
		embeddingConfig(cfg),
		repository.NewFileEmbeddingRepository(cfg.RAG.EmbeddingsFile, logger),
		retrieval.NewRanker(logger, cfg.RAG.Threshold, cfg.RAG.TopK),
		contextbuilder.NewAssembler(logger, tok, cfg.RAG.TokenBudget),
		ask.NewRequester(client, requesterConfig(cfg), logger),
		logger,
	)

	middlewareTransport := &middleware.Transport{
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(logger),
		RequestIDMiddleware:    middleware.NewRequestIDMiddleware(),
		MetricsMiddleware:      middleware.NewMetricsMiddleware(logger),
	}
	handlerTransport := handlers.HandlerTransport{
		AskHandler:        handlers.NewAskHandler(logger, service, cfg.RAG.IncludeSources),
		GetVersionHandler: handlers.NewGetVersionHandler(logger),
	}

	srv := server.NewAPIServer(server.APIServerDI{
		Config:  cfg,
		Logger:  logger,
		Routers: []router.ServerRouter{
			router.NewAPIRouter(middlewareTransport, handlerTransport),
			router.NewWebRouter(webRoot(cfg)),
		},
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	logger.Info("server gracefully stopped")
	return nil
}

func runBuild(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	if err := cfg.ValidateBuilder(); err != nil {
		return err
	}

	creator, err := newEmbeddingCreator(cfg, logger)
	if err != nil {
		return err
	}

	builder := indexer.NewBuilder(
		infraDocument.NewFSLoader(cfg.Builder.ContentDir, cfg.Builder.Extensions, logger),
		creator,
		repository.NewFileEmbeddingRepository(cfg.RAG.EmbeddingsFile, logger),
		embeddingConfig(cfg),
		cfg.Builder.Workers,
		logger,
	)
	count, err := builder.Build(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("build interrupted, embedding file left unchanged")
		}
		return fmt.Errorf("embedding build failed: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"documents": count,
		"file":      cfg.RAG.EmbeddingsFile,
	}).Info("embedding file written")
	return nil
}

func newEmbeddingCreator(cfg *config.Config, logger *logrus.Logger) (embedding.Creator, error) {
	httpClient := &fasthttp.Client{
		Name:                "blogqa",
		MaxConnsPerHost:     64,
		MaxIdleConnDuration: 90 * time.Second,
	}
	locator := embeddingFactory.NewServiceLocator(logger, httpClient, &embeddingFactory.BreakerConfig{
		MaxFailures: cfg.Embedding.Breaker.MaxFailures,
		OpenTimeout: cfg.Embedding.Breaker.OpenTimeout,
	}).WithTimeout(cfg.Embedding.Timeout)
	return locator.GetService(cfg.Embedding.Provider)
}

func embeddingConfig(cfg *config.Config) *embedding.Config {
	return &embedding.Config{
		Provider: cfg.Embedding.Provider,
		Model:    cfg.Embedding.Model,
		BaseURL:  cfg.Embedding.BaseURL,
		Credentials: embedding.Credentials{
			ApiKey: cfg.Embedding.APIKey,
		},
	}
}

// requesterConfig picks model and credentials for the configured completion
// provider. Azure addresses models by deployment name.
func requesterConfig(cfg *config.Config) ask.RequesterConfig {
	p := cfg.Providers
	rc := ask.RequesterConfig{
		MaxTokens:      p.MaxTokens,
		Temperature:    p.Temperature,
		FallbackPhrase: p.FallbackPhrase,
	}
	switch p.Default {
	case "anthropic":
		rc.Model, rc.BaseURL = p.Anthropic.Model, p.Anthropic.BaseURL
		rc.Credentials = providers.Credentials{ApiKey: p.Anthropic.APIKey}
	case "gemini":
		rc.Model, rc.BaseURL = p.Gemini.Model, p.Gemini.BaseURL
		rc.Credentials = providers.Credentials{ApiKey: p.Gemini.APIKey}
	case "bedrock":
		rc.Model = p.Bedrock.Model
		rc.Credentials = providers.Credentials{Aws: &providers.AwsCredentials{
			AccessKey:    p.Bedrock.AccessKey,
			SecretKey:    p.Bedrock.SecretKey,
			SessionToken: p.Bedrock.SessionToken,
			Region:       p.Bedrock.Region,
		}}
	case "azure":
		rc.Model = p.Azure.Deployment
		rc.Credentials = providers.Credentials{
			ApiKey: p.Azure.APIKey,
			Azure:  &providers.AzureCredentials{
				Endpoint:    p.Azure.Endpoint,
				ApiVersion:  p.Azure.APIVersion,
				UseIdentity: p.Azure.UseIdentity,
			},
		}
	default:
		rc.Model, rc.BaseURL = p.OpenAI.Model, p.OpenAI.BaseURL
		rc.Credentials = providers.Credentials{ApiKey: p.OpenAI.APIKey}
	}
	return rc
}

func webRoot(cfg *config.Config) fs.FS {
	if cfg.Server.StaticDir != "" {
		return os.DirFS(cfg.Server.StaticDir)
	}
	return web.FS()
}

func getMode() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return modeServer
}
