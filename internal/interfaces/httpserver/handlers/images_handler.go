// Package handlers contains the gin HTTP handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"petal-studio/server/internal/config"
	"petal-studio/server/internal/domain/images"
	"petal-studio/server/internal/interfaces/httpserver/requests"
	"petal-studio/server/internal/interfaces/httpserver/responses"
)

// ImagesHandler exposes the generation, edit and variation endpoints.
type ImagesHandler struct {
	cfg     *config.Config
	service *images.Service
	log     zerolog.Logger
}

func NewImagesHandler(cfg *config.Config, service *images.Service, log zerolog.Logger) *ImagesHandler {
	return &ImagesHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "images-handler").Logger(),
	}
}

// Generate godoc
// @Summary      Generate images from a prompt
// @Description  Validates per-model parameters, forwards to the upstream image API and returns a uniform list of image strings.
// @Tags         images
// @Accept       json
// @Produce      json
// @Param        request  body      requests.GenerateRequest  true  "Generation request"
// @Success      200      {object}  responses.ImagesResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /api/generate [post]
func (h *ImagesHandler) Generate(c *gin.Context) {
	var req requests.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleValidationError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		responses.HandleValidationError(c, err)
		return
	}

	urls, err := h.service.Generate(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.log.Error().Err(err).Str("model", req.Model).Msg("generation failed")
		responses.HandleError(c, err, "image generation failed")
		return
	}

	c.JSON(http.StatusOK, responses.BuildImagesResponse(urls))
}

// FlowerGenerate godoc
// @Summary      Generate images from a flower template
// @Description  Resolves a named template with the caller's variables, optionally rewrites the prompt via the secondary text vendor, and generates images.
// @Tags         flowers
// @Accept       json
// @Produce      json
// @Param        request  body      requests.FlowerGenerateRequest  true  "Flower generation request"
// @Success      200      {object}  responses.FlowerResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /api/flower-generate [post]
func (h *ImagesHandler) FlowerGenerate(c *gin.Context) {
	var req requests.FlowerGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleValidationError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		responses.HandleValidationError(c, err)
		return
	}

	urls, prompt, err := h.service.FlowerGenerate(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.log.Error().Err(err).Str("template", req.TemplateID).Msg("flower generation failed")
		responses.HandleError(c, err, "flower generation failed")
		return
	}

	c.JSON(http.StatusOK, responses.BuildFlowerResponse(urls, prompt))
}

// BatchFlowerGenerate godoc
// @Summary      Generate a batch of flower images
// @Description  Fans one template out over independent items concurrently. Item failures are isolated; the response always carries one result per item, in submission order.
// @Tags         flowers
// @Accept       json
// @Produce      json
// @Param        request  body      requests.BatchFlowerGenerateRequest  true  "Batch request"
// @Success      200      {object}  responses.BatchResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /api/batch-flower-generate [post]
func (h *ImagesHandler) BatchFlowerGenerate(c *gin.Context) {
	var req requests.BatchFlowerGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleValidationError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		responses.HandleValidationError(c, err)
		return
	}

	results := h.service.BatchFlowerGenerate(c.Request.Context(), req.ToDomain())
	c.JSON(http.StatusOK, responses.BuildBatchResponse(results))
}

// Edit godoc
// @Summary      Edit uploaded images
// @Description  Accepts a multipart form with a repeated images field (up to 16 files), an optional mask, and per-model edit parameters.
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Param        prompt  formData  string  true   "Edit prompt"
// @Param        model   formData  string  true   "Model"
// @Param        size    formData  string  true   "Output size"
// @Param        n       formData  int     true   "Image count"
// @Param        images  formData  file    true   "Source images (repeatable)"
// @Param        mask    formData  file    false  "PNG mask with alpha channel"
// @Success      200     {object}  responses.ImagesResponse
// @Failure      400     {object}  responses.ErrorResponse
// @Failure      500     {object}  responses.ErrorResponse
// @Router       /api/edit [post]
func (h *ImagesHandler) Edit(c *gin.Context) {
	req, err := requests.ParseEditRequest(c, h.cfg.MaxUploadBytes)
	if err != nil {
		responses.HandleValidationError(c, err)
		return
	}

	urls, err := h.service.Edit(c.Request.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Str("model", string(req.Model)).Msg("edit failed")
		responses.HandleError(c, err, "image edit failed")
		return
	}

	c.JSON(http.StatusOK, responses.BuildImagesResponse(urls))
}

// Variations godoc
// @Summary      Create variations of an image
// @Description  Accepts a single source image plus count and size; there is no prompt and no model choice on this endpoint.
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file    true  "Source image"
// @Param        n      formData  int     true  "Variation count"
// @Param        size   formData  string  true  "Output size"
// @Success      200    {object}  responses.ImagesResponse
// @Failure      400    {object}  responses.ErrorResponse
// @Failure      500    {object}  responses.ErrorResponse
// @Router       /api/variations [post]
func (h *ImagesHandler) Variations(c *gin.Context) {
	req, err := requests.ParseVariationRequest(c, h.cfg.MaxUploadBytes)
	if err != nil {
		responses.HandleValidationError(c, err)
		return
	}

	urls, err := h.service.Variations(c.Request.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Msg("variations failed")
		responses.HandleError(c, err, "image variations failed")
		return
	}

	c.JSON(http.StatusOK, responses.BuildImagesResponse(urls))
}
