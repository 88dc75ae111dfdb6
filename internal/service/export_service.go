package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/cityguide-blog-api/internal/models"
	"github.com/cityguide-blog-api/internal/repository"
	"github.com/rs/zerolog"
)

const exportFlushEvery = 100

// exportService is the concrete implementation of ExportService
type exportService struct {
	repo repository.ArticleRepository
	log  zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repo repository.ArticleRepository, log zerolog.Logger) *exportService {
	return &exportService{
		repo: repo,
		log:  log.With().Str("service", "export").Logger(),
	}
}

// StreamArticles writes every article to w as NDJSON or a JSON array and
// returns how many were written.
func (s *exportService) StreamArticles(ctx context.Context, w io.Writer, format string) (int, error) {
	if !models.ExportFormats[format] {
		return 0, ErrUnsupportedExportFormat
	}

	s.log.Info().Str("format", format).Msg("Starting articles export")

	flusher, _ := w.(http.Flusher)
	count := 0
	var err error

	if format == "json" {
		if _, err := io.WriteString(w, "["); err != nil {
			return 0, err
		}
	}

	err = s.repo.StreamAll(ctx, func(article *models.Article) error {
		data, err := json.Marshal(article)
		if err != nil {
			return err
		}

		switch {
		case format == "ndjson":
			data = append(data, '\n')
		case count > 0:
			data = append([]byte{','}, data...)
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		count++

		if count%exportFlushEvery == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})

	if format == "json" && err == nil {
		_, err = io.WriteString(w, "]")
	}

	if err != nil {
		s.log.Error().Err(err).Int("count", count).Msg("Articles export failed")
		return count, err
	}

	s.log.Info().Int("count", count).Msg("Articles export completed")
	return count, nil
}
