package api

import (
	"errors"
	"net/http"

	"github.com/cityguide-blog-api/internal/content"
	"github.com/cityguide-blog-api/internal/service"
	"github.com/cityguide-blog-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// statusFor maps a service error to its HTTP status
func statusFor(err error) int {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest
	case errors.Is(err, content.ErrUnsupportedFormat),
		errors.Is(err, content.ErrInvalidEncoding),
		errors.Is(err, content.ErrRenderFailed):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrArticleNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSlugConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrRegistrationForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrAdminExists),
		errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrPasswordUnchanged),
		errors.Is(err, service.ErrUnsupportedExportFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON error body. Internal errors are logged
// and never leak their message.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	status := statusFor(err)

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		c.JSON(status, gin.H{
			"error":   "validation failed",
			"details": verrs,
		})
		return
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
