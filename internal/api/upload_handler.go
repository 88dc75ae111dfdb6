package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/cityguide-blog-api/internal/config"
	"github.com/cityguide-blog-api/internal/models"
	"github.com/cityguide-blog-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// errFileTooLarge is returned when a file part exceeds the upload limit
var errFileTooLarge = errors.New("file too large")

// UploadHandler handles multipart article creation
type UploadHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "upload").Logger(),
	}
}

// Create handles POST /api/admin/articles.
// Accepts form fields plus an optional featured image in "file".
func (h *UploadHandler) Create(c *gin.Context) {
	h.limitBody(c)

	var req models.CreateArticleRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}

	data, header, err := h.readFile(c, "file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		h.respondFileError(c, err)
		return
	case len(data) > 0:
		req.Image = &models.ImageUpload{
			Data:        data,
			ContentType: header.Header.Get("Content-Type"),
		}
	}

	article, err := h.services.Article.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, article)
}

// UploadFile handles POST /api/admin/articles/upload-file (and upload-markdown).
// The article body comes from a .md or .html file.
func (h *UploadHandler) UploadFile(c *gin.Context) {
	h.limitBody(c)

	var req models.UploadArticleRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}

	data, header, err := h.readFile(c, "file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		h.respondFileError(c, err)
		return
	}
	if header != nil {
		req.Filename = header.Filename
		req.Data = data

		h.log.Info().
			Str("filename", header.Filename).
			Int64("size_bytes", header.Size).
			Str("admin", adminName(c)).
			Msg("Article file received")
	}

	article, err := h.services.Article.CreateFromFile(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, article)
}

// limitBody caps the request body a little above the per-file limit to leave
// room for multipart framing and form fields
func (h *UploadHandler) limitBody(c *gin.Context) {
	if limit := h.cfg.Content.MaxUploadSize; limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+1<<20)
	}
}

// readFile returns the named file part, or http.ErrMissingFile
func (h *UploadHandler) readFile(c *gin.Context, field string) ([]byte, *multipart.FileHeader, error) {
	header, err := c.FormFile(field)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, nil, errFileTooLarge
		}
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, http.ErrMissingFile
		}
		return nil, nil, err
	}

	// Validate file size
	if limit := h.cfg.Content.MaxUploadSize; limit > 0 && header.Size > limit {
		return nil, header, errFileTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, header, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, header, fmt.Errorf("read upload: %w", err)
	}
	return data, header, nil
}

func (h *UploadHandler) respondFileError(c *gin.Context, err error) {
	if errors.Is(err, errFileTooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("file too large, max size is %d MB", h.cfg.Content.MaxUploadSize/(1024*1024)),
		})
		return
	}
	h.log.Error().Err(err).Msg("Failed to read uploaded file")
	c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
}
