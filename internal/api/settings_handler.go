package api

import (
	"net/http"

	"github.com/cityguide-blog-api/internal/models"
	"github.com/cityguide-blog-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SettingsHandler handles analytics configuration endpoints
type SettingsHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(services *service.Services, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		services: services,
		log:      log.With().Str("handler", "settings").Logger(),
	}
}

// GetAnalytics handles GET /api/admin/analytics-config
func (h *SettingsHandler) GetAnalytics(c *gin.Context) {
	cfg, err := h.services.Settings.GetAnalytics(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// UpdateAnalytics handles POST /api/admin/analytics-config.
// Only the ids present in the body are changed.
func (h *SettingsHandler) UpdateAnalytics(c *gin.Context) {
	var req models.AnalyticsConfigUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cfg, err := h.services.Settings.UpdateAnalytics(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info().Str("admin", adminName(c)).Msg("Analytics configuration updated")
	c.JSON(http.StatusOK, cfg)
}

// PublicAnalytics handles GET /api/analytics-public
func (h *SettingsHandler) PublicAnalytics(c *gin.Context) {
	cfg, err := h.services.Settings.PublicAnalytics(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}
