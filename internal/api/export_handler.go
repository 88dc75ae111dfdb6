package api

import (
	"net/http"
	"time"

	"github.com/cityguide-blog-api/internal/models"
	"github.com/cityguide-blog-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /api/admin/export/articles?format=...
// Streams every article directly to the response
func (h *ExportHandler) StreamExport(c *gin.Context) {
	format := c.DefaultQuery("format", "ndjson")
	if !models.ExportFormats[format] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: ndjson, json"})
		return
	}

	contentType := "application/x-ndjson"
	if format == "json" {
		contentType = "application/json"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "attachment; filename=articles."+format)
	c.Status(http.StatusOK)

	start := time.Now()
	count, err := h.services.Export.StreamArticles(c.Request.Context(), c.Writer, format)
	if err != nil {
		// Can't return error JSON after streaming has started
		h.log.Error().Err(err).Int("exported", count).Str("format", format).Msg("Export failed")
		return
	}

	h.log.Info().
		Int("exported", count).
		Str("format", format).
		Dur("duration", time.Since(start)).
		Msg("Articles exported")
}
