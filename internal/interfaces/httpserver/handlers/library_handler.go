package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"petal-studio/server/internal/domain/library"
	"petal-studio/server/internal/interfaces/httpserver/requests"
	"petal-studio/server/internal/interfaces/httpserver/responses"
)

// LibraryHandler exposes the saved-image endpoints.
type LibraryHandler struct {
	service *library.Service
	log     zerolog.Logger
}

func NewLibraryHandler(service *library.Service, log zerolog.Logger) *LibraryHandler {
	return &LibraryHandler{
		service: service,
		log:     log.With().Str("component", "library-handler").Logger(),
	}
}

// Save godoc
// @Summary      Save an image to the library
// @Description  Accepts a data URL or remote URL, uploads the bytes to the configured storage and returns the stored object's metadata.
// @Tags         library
// @Accept       json
// @Produce      json
// @Param        request  body      requests.SaveImageRequest  true  "Save request"
// @Success      200      {object}  responses.SaveImageResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /api/library/save [post]
func (h *LibraryHandler) Save(c *gin.Context) {
	var req requests.SaveImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleValidationError(c, err)
		return
	}

	saved, err := h.service.Save(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.log.Error().Err(err).Msg("library save failed")
		responses.HandleError(c, err, "failed to save image")
		return
	}

	c.JSON(http.StatusOK, responses.BuildSaveImageResponse(saved))
}

// Presign godoc
// @Summary      Get a download URL for a saved image
// @Description  Returns a short-lived signed URL for a stored image by id.
// @Tags         library
// @Produce      json
// @Param        id   path      string  true  "Image ID (img_xxx)"
// @Success      200  {object}  responses.PresignResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /api/library/{id}/presign [get]
func (h *LibraryHandler) Presign(c *gin.Context) {
	id := c.Param("id")

	url, err := h.service.Presign(c.Request.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("presign failed")
		responses.HandleError(c, err, "failed to presign image")
		return
	}

	c.JSON(http.StatusOK, responses.BuildPresignResponse(id, url))
}
