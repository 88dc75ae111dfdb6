package api

import (
	"net/http"
	"strconv"

	"github.com/cityguide-blog-api/internal/models"
	"github.com/cityguide-blog-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// maxListLimit caps the ?limit= query on public listings
const maxListLimit = 100

// ArticleHandler handles article read, patch and delete endpoints
type ArticleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// ListPublished handles GET /api/articles?category=&subcategory=&featured=true&limit=
func (h *ArticleHandler) ListPublished(c *gin.Context) {
	filter := models.ArticleFilter{
		Category:     c.Query("category"),
		Subcategory:  c.Query("subcategory"),
		FeaturedOnly: c.Query("featured") == "true",
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxListLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		filter.Limit = limit
	}

	articles, err := h.services.Article.ListPublished(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// GetBySlug handles GET /api/articles/:slug
func (h *ArticleHandler) GetBySlug(c *gin.Context) {
	article, err := h.services.Article.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// ListAll handles GET /api/admin/articles
func (h *ArticleHandler) ListAll(c *gin.Context) {
	articles, err := h.services.Article.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// Get handles GET /api/admin/articles/:id, including unpublished articles
func (h *ArticleHandler) Get(c *gin.Context) {
	article, err := h.services.Article.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Update handles PUT /api/admin/articles/:id with a JSON partial update
func (h *ArticleHandler) Update(c *gin.Context) {
	var req models.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	article, err := h.services.Article.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /api/admin/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.services.Article.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Article deleted successfully"})
}

// DeleteAll handles DELETE /api/admin/articles
func (h *ArticleHandler) DeleteAll(c *gin.Context) {
	n, err := h.services.Article.DeleteAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Warn().Int64("count", n).Str("admin", adminName(c)).Msg("All articles cleared")
	c.JSON(http.StatusOK, gin.H{
		"message":       "All articles deleted",
		"deleted_count": n,
	})
}

// Stats handles GET /api/stats
func (h *ArticleHandler) Stats(c *gin.Context) {
	stats, err := h.services.Article.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_articles":     stats.Total,
		"published_articles": stats.Published,
		"featured_articles":  stats.Featured,
	})
}

func adminName(c *gin.Context) string {
	if user := currentAdmin(c); user != nil {
		return user.Username
	}
	return ""
}
