package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"petal-studio/server/internal/config"
	"petal-studio/server/internal/domain/images"
	"petal-studio/server/internal/domain/library"
	"petal-studio/server/internal/domain/templates"
	"petal-studio/server/internal/infrastructure/auth"
	"petal-studio/server/internal/infrastructure/gemini"
	"petal-studio/server/internal/infrastructure/logger"
	"petal-studio/server/internal/infrastructure/openai"
	"petal-studio/server/internal/infrastructure/storage"
	"petal-studio/server/internal/interfaces/httpserver"
)

// @title Petal API
// @version 1.0
// @description Image generation proxy for Petal Studio
// @BasePath /
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.New("petal-api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := templates.NewRegistry(cfg.TemplatesPath, cfg.TemplatesCacheTTL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("load flower templates")
	}

	storageClient, err := storage.NewS3Storage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	imageClient := openai.NewClient(openai.ClientConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.OpenAITimeout,
	}, log)

	rewriter := gemini.NewClient(gemini.ClientConfig{
		APIKey:    cfg.GeminiAPIKey,
		BaseURL:   cfg.GeminiBaseURL,
		TextModel: cfg.GeminiTextModel,
		Timeout:   cfg.GeminiTimeout,
	}, log)

	imagesService := images.NewService(imageClient, rewriter, registry, log)
	libraryService := library.NewService(cfg, storageClient, log)

	httpServer := httpserver.New(cfg, log, imagesService, libraryService, registry, storageClient, authValidator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
