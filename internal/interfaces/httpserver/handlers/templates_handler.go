package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"petal-studio/server/internal/domain/templates"
	"petal-studio/server/internal/interfaces/httpserver/responses"
)

// TemplatesHandler exposes the flower template catalog.
type TemplatesHandler struct {
	registry *templates.Registry
	log      zerolog.Logger
}

func NewTemplatesHandler(registry *templates.Registry, log zerolog.Logger) *TemplatesHandler {
	return &TemplatesHandler{
		registry: registry,
		log:      log.With().Str("component", "templates-handler").Logger(),
	}
}

// List godoc
// @Summary      List flower templates
// @Description  Returns the available templates with their prompt placeholders.
// @Tags         flowers
// @Produce      json
// @Success      200  {object}  responses.TemplatesResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /api/templates [get]
func (h *TemplatesHandler) List(c *gin.Context) {
	list, err := h.registry.List()
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load templates")
		responses.HandleError(c, err, "failed to load templates")
		return
	}

	c.JSON(http.StatusOK, responses.BuildTemplatesResponse(list))
}
