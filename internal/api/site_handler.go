package api

import (
	"net/http"

	"github.com/cityguide-blog-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SiteHandler serves the SEO documents
type SiteHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewSiteHandler creates a new SiteHandler
func NewSiteHandler(services *service.Services, log zerolog.Logger) *SiteHandler {
	return &SiteHandler{
		services: services,
		log:      log.With().Str("handler", "site").Logger(),
	}
}

// Sitemap handles GET /api/sitemap.xml
func (h *SiteHandler) Sitemap(c *gin.Context) {
	body, err := h.services.Site.Sitemap(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build sitemap")
		c.String(http.StatusInternalServerError, "sitemap unavailable")
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

// Robots handles GET /api/robots.txt
func (h *SiteHandler) Robots(c *gin.Context) {
	c.String(http.StatusOK, h.services.Site.RobotsTxt())
}
