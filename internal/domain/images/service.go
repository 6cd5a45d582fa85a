package images

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"petal-studio/server/internal/domain/batch"
	"petal-studio/server/internal/infrastructure/metrics"
	"petal-studio/server/internal/utils/platformerrors"
)

// FlowerRequest is a template-driven generation request: the prompt comes
// from a named flower template with the caller's variables substituted in.
type FlowerRequest struct {
	TemplateID        string
	Variables         map[string]string
	Model             Model
	Size              string
	N                 int
	Quality           string
	Style             string
	ResponseFormat    string
	OutputFormat      string
	OutputCompression *int
	Background        string
	Moderation        string
	User              string
}

// BatchFlowerRequest fans one template out over independent items with a
// shared generation configuration.
type BatchFlowerRequest struct {
	TemplateID string
	Items      []batch.Item
	Config     FlowerRequest
}

// Service orchestrates validation, resolution, upstream dispatch and
// response normalization for all image operations.
type Service struct {
	client    ImageClient
	rewriter  PromptRewriter
	templates TemplateResolver
	log       zerolog.Logger
}

func NewService(client ImageClient, rewriter PromptRewriter, templates TemplateResolver, log zerolog.Logger) *Service {
	return &Service{
		client:    client,
		rewriter:  rewriter,
		templates: templates,
		log:       log.With().Str("component", "images-service").Logger(),
	}
}

// Generate runs a plain text-to-image request.
func (s *Service) Generate(ctx context.Context, req GenerationRequest) ([]string, error) {
	if req.Model == ModelGemini {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"the gemini model is only available on the flower endpoints", nil)
	}

	start := time.Now()
	payload, err := ResolveGeneration(req)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, err.Error(), err)
	}

	upstream, err := s.client.Generate(ctx, payload)
	if err != nil {
		metrics.RecordOperation("generate", payload.Model, "error", time.Since(start).Seconds())
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, err.Error(), err)
	}

	urls, err := NormalizeImages(upstream)
	if err != nil {
		metrics.RecordOperation("generate", payload.Model, "error", time.Since(start).Seconds())
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, err.Error(), err)
	}

	metrics.RecordOperation("generate", payload.Model, "success", time.Since(start).Seconds())
	s.log.Info().Str("model", payload.Model).Int("count", len(urls)).Msg("generation completed")
	return urls, nil
}

// FlowerGenerate resolves a flower template into a prompt and generates
// images for it. Returns the image list and the substituted prompt.
//
// Choosing the gemini model never hits that vendor's image endpoint: the
// prompt is rewritten by its text model and generation always falls back to
// gpt-image-1.
func (s *Service) FlowerGenerate(ctx context.Context, req FlowerRequest) ([]string, string, error) {
	prompt, err := s.templates.Resolve(req.TemplateID, req.Variables)
	if err != nil {
		return nil, "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, err.Error(), err)
	}

	effectivePrompt := prompt
	model := req.Model
	if model == ModelGemini {
		if s.rewriter == nil || !s.rewriter.Configured() {
			return nil, prompt, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConfiguration,
				"GEMINI_API_KEY is not configured; the gemini model is unavailable", nil)
		}
		rewritten, err := s.rewriter.Rewrite(ctx, prompt)
		if err != nil {
			return nil, prompt, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, err.Error(), err)
		}
		s.log.Info().Str("template", req.TemplateID).Msg("prompt rewritten by secondary vendor")
		effectivePrompt = rewritten
		model = ModelGPTImage
	}

	urls, err := s.Generate(ctx, GenerationRequest{
		Prompt:            effectivePrompt,
		Model:             model,
		Size:              req.Size,
		N:                 req.N,
		Quality:           req.Quality,
		Style:             req.Style,
		ResponseFormat:    req.ResponseFormat,
		OutputFormat:      req.OutputFormat,
		OutputCompression: req.OutputCompression,
		Background:        req.Background,
		Moderation:        req.Moderation,
		User:              req.User,
	})
	if err != nil {
		return nil, prompt, err
	}
	return urls, prompt, nil
}

// BatchFlowerGenerate runs every item concurrently. Item failures are
// isolated: the returned slice always has one result per item, in
// submission order.
func (s *Service) BatchFlowerGenerate(ctx context.Context, req BatchFlowerRequest) []batch.Result {
	return batch.Run(ctx, req.Items, func(ctx context.Context, item batch.Item) (string, []string, error) {
		itemReq := req.Config
		itemReq.TemplateID = req.TemplateID
		itemReq.Variables = item.Variables

		urls, prompt, err := s.FlowerGenerate(ctx, itemReq)
		return prompt, urls, err
	})
}

// Edit runs an image edit request against the selected model.
func (s *Service) Edit(ctx context.Context, req EditRequest) ([]string, error) {
	start := time.Now()
	payload, err := ResolveEdit(req)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, err.Error(), err)
	}

	upstream, err := s.client.Edit(ctx, payload)
	if err != nil {
		metrics.RecordOperation("edit", payload.Model, "error", time.Since(start).Seconds())
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, err.Error(), err)
	}

	urls, err := NormalizeImages(upstream)
	if err != nil {
		metrics.RecordOperation("edit", payload.Model, "error", time.Since(start).Seconds())
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, err.Error(), err)
	}

	metrics.RecordOperation("edit", payload.Model, "success", time.Since(start).Seconds())
	s.log.Info().Str("model", payload.Model).Int("sources", len(payload.Images)).Int("count", len(urls)).Msg("edit completed")
	return urls, nil
}

// Variations produces variations of a single source image.
func (s *Service) Variations(ctx context.Context, req VariationRequest) ([]string, error) {
	start := time.Now()
	payload, err := ResolveVariation(req)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, err.Error(), err)
	}

	upstream, err := s.client.Variations(ctx, payload)
	if err != nil {
		metrics.RecordOperation("variations", payload.Model, "error", time.Since(start).Seconds())
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, err.Error(), err)
	}

	urls, err := NormalizeImages(upstream)
	if err != nil {
		metrics.RecordOperation("variations", payload.Model, "error", time.Since(start).Seconds())
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, err.Error(), err)
	}

	metrics.RecordOperation("variations", payload.Model, "success", time.Since(start).Seconds())
	return urls, nil
}
