package service_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cityguide-blog-api/internal/config"
	"github.com/cityguide-blog-api/internal/mocks"
	"github.com/cityguide-blog-api/internal/models"
	"github.com/cityguide-blog-api/internal/repository"
	"github.com/cityguide-blog-api/internal/service"
	"github.com/rs/zerolog"
)

func newExportService(t *testing.T, n int) service.ExportService {
	t.Helper()
	repo := mocks.NewMockArticleRepository()
	for i := 0; i < n; i++ {
		err := repo.Create(context.Background(), &models.Article{
			ID:        fmt.Sprintf("id-%03d", i),
			Slug:      fmt.Sprintf("article-%03d", i),
			Title:     fmt.Sprintf("Article %d", i),
			CreatedAt: fixedNow.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("seed article %d: %v", i, err)
		}
	}
	repos := &repository.Repositories{
		Article:  repo,
		Admin:    mocks.NewMockAdminRepository(),
		Contact:  mocks.NewMockContactRepository(),
		Settings: mocks.NewMockSettingsRepository(),
	}
	return service.NewServices(repos, &config.Config{}, nil, zerolog.Nop()).Export
}

func TestExportService_NDJSON(t *testing.T) {
	svc := newExportService(t, 150)

	var buf bytes.Buffer
	count, err := svc.StreamArticles(context.Background(), &buf, "ndjson")
	if err != nil {
		t.Fatalf("StreamArticles failed: %v", err)
	}
	if count != 150 {
		t.Errorf("Expected 150 exported, got %d", count)
	}

	scanner := bufio.NewScanner(&buf)
	lines := 0
	for scanner.Scan() {
		var a models.Article
		if err := json.Unmarshal(scanner.Bytes(), &a); err != nil {
			t.Fatalf("line %d: %v", lines, err)
		}
		if lines == 0 && a.Slug != "article-000" {
			t.Errorf("Expected oldest article first, got %s", a.Slug)
		}
		lines++
	}
	if lines != 150 {
		t.Errorf("Expected 150 lines, got %d", lines)
	}
}

func TestExportService_JSON(t *testing.T) {
	svc := newExportService(t, 3)

	var buf bytes.Buffer
	count, err := svc.StreamArticles(context.Background(), &buf, "json")
	if err != nil {
		t.Fatalf("StreamArticles failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 exported, got %d", count)
	}

	var articles []models.Article
	if err := json.Unmarshal(buf.Bytes(), &articles); err != nil {
		t.Fatalf("Invalid JSON array: %v", err)
	}
	if len(articles) != 3 {
		t.Errorf("Expected 3 articles, got %d", len(articles))
	}
}

func TestExportService_EmptyJSON(t *testing.T) {
	svc := newExportService(t, 0)

	var buf bytes.Buffer
	if _, err := svc.StreamArticles(context.Background(), &buf, "json"); err != nil {
		t.Fatalf("StreamArticles failed: %v", err)
	}
	if buf.String() != "[]" {
		t.Errorf("Expected [], got %q", buf.String())
	}
}

func TestExportService_UnsupportedFormat(t *testing.T) {
	svc := newExportService(t, 1)

	var buf bytes.Buffer
	_, err := svc.StreamArticles(context.Background(), &buf, "csv")
	if !errors.Is(err, service.ErrUnsupportedExportFormat) {
		t.Errorf("Expected ErrUnsupportedExportFormat, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected nothing written, got %d bytes", buf.Len())
	}
}
