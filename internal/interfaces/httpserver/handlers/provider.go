package handlers

import (
	"github.com/rs/zerolog"

	"petal-studio/server/internal/config"
	"petal-studio/server/internal/domain/images"
	"petal-studio/server/internal/domain/library"
	"petal-studio/server/internal/domain/templates"
)

// Provider wires HTTP handlers.
type Provider struct {
	Images    *ImagesHandler
	Library   *LibraryHandler
	Templates *TemplatesHandler
}

func NewProvider(
	cfg *config.Config,
	imagesService *images.Service,
	libraryService *library.Service,
	registry *templates.Registry,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Images:    NewImagesHandler(cfg, imagesService, log),
		Library:   NewLibraryHandler(libraryService, log),
		Templates: NewTemplatesHandler(registry, log),
	}
}
