//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
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

var imagesSet = wire.NewSet(
	provideImageClient,
	wire.Bind(new(images.ImageClient), new(*openai.Client)),
	provideRewriter,
	wire.Bind(new(images.PromptRewriter), new(*gemini.Client)),
	provideRegistry,
	wire.Bind(new(images.TemplateResolver), new(*templates.Registry)),
	images.NewService,
)

var librarySet = wire.NewSet(
	storage.NewS3Storage,
	wire.Bind(new(library.Storage), new(*storage.S3Storage)),
	wire.Bind(new(httpserver.HealthChecker), new(*storage.S3Storage)),
	library.NewService,
)

// BuildApplication assembles the petal API with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		provideLogger,
		auth.NewValidator,
		imagesSet,
		librarySet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func provideLogger(cfg *config.Config) zerolog.Logger {
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	return logger.New("petal-api")
}

func provideRegistry(cfg *config.Config, log zerolog.Logger) (*templates.Registry, error) {
	return templates.NewRegistry(cfg.TemplatesPath, cfg.TemplatesCacheTTL, log)
}

func provideImageClient(cfg *config.Config, log zerolog.Logger) *openai.Client {
	return openai.NewClient(openai.ClientConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.OpenAITimeout,
	}, log)
}

func provideRewriter(cfg *config.Config, log zerolog.Logger) *gemini.Client {
	return gemini.NewClient(gemini.ClientConfig{
		APIKey:    cfg.GeminiAPIKey,
		BaseURL:   cfg.GeminiBaseURL,
		TextModel: cfg.GeminiTextModel,
		Timeout:   cfg.GeminiTimeout,
	}, log)
}
