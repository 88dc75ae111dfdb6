package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/cityguide-blog-api/internal/database"
	"github.com/cityguide-blog-api/internal/models"
	"github.com/cityguide-blog-api/internal/repository"
)

var articleCols = []string{
	"id", "title", "slug", "content", "excerpt", "category", "subcategory", "read_time",
	"word_count", "featured_image", "featured", "published", "author", "publish_date",
	"created_at", "updated_at",
}

func newMockDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return database.Wrap(db, zerolog.Nop()), mock
}

func articleRow(a *models.Article, publishDate time.Time) *sqlmock.Rows {
	var image interface{}
	if a.FeaturedImage != nil {
		image = *a.FeaturedImage
	}
	return sqlmock.NewRows(articleCols).AddRow(
		a.ID, a.Title, a.Slug, a.Content, a.Excerpt, a.Category, a.Subcategory, a.ReadTime,
		a.WordCount, image, a.Featured, a.Published, a.Author, publishDate,
		a.CreatedAt, a.UpdatedAt,
	)
}

func sampleArticle() *models.Article {
	now := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	image := "https://cdn.example.com/metro.jpg"
	return &models.Article{
		ID: "6f1c1d2e-8d4b-4c51-9a57-1d1f8c2b1a10", Title: "Namma Metro Guide",
		Slug: "namma-metro-guide", Content: "<p>Purple line</p>", Excerpt: "Purple line...",
		Category: "transport", Subcategory: "metro", ReadTime: "1 min read", WordCount: 2,
		FeaturedImage: &image, Featured: true, Published: true, Author: models.DefaultAuthor,
		PublishDate: "2024-05-01", CreatedAt: now, UpdatedAt: now,
	}
}

func TestArticleRepo_GetBySlug(t *testing.T) {
	db, mock := newMockDB(t)
	want := sampleArticle()

	mock.ExpectQuery(regexp.QuoteMeta("FROM articles WHERE slug = $1")).
		WithArgs("namma-metro-guide").
		WillReturnRows(articleRow(want, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))

	got, err := repository.NewArticleRepo(db).GetBySlug(context.Background(), "namma-metro-guide")
	if err != nil {
		t.Fatalf("GetBySlug err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM articles WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(articleCols))

	got, err := repository.NewArticleRepo(db).GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetByID err=%v", err)
	}
	if got != nil {
		t.Fatalf("expected nil article, got %+v", got)
	}
}

func TestArticleRepo_GetByID_NullImage(t *testing.T) {
	db, mock := newMockDB(t)
	want := sampleArticle()
	want.FeaturedImage = nil

	mock.ExpectQuery("FROM articles").
		WillReturnRows(articleRow(want, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))

	got, err := repository.NewArticleRepo(db).GetByID(context.Background(), want.ID)
	if err != nil {
		t.Fatalf("GetByID err=%v", err)
	}
	if got.FeaturedImage != nil {
		t.Errorf("expected nil featured image, got %q", *got.FeaturedImage)
	}
}

func TestArticleRepo_Create(t *testing.T) {
	db, mock := newMockDB(t)
	a := sampleArticle()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO articles")).
		WithArgs(a.ID, a.Title, a.Slug, a.Content, a.Excerpt, a.Category, a.Subcategory,
			a.ReadTime, a.WordCount, *a.FeaturedImage, a.Featured, a.Published, a.Author,
			a.PublishDate, a.CreatedAt, a.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repository.NewArticleRepo(db).Create(context.Background(), a); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_Create_DuplicateSlug(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("INSERT INTO articles").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "articles_slug_key"})

	err := repository.NewArticleRepo(db).Create(context.Background(), sampleArticle())
	if !errors.Is(err, repository.ErrDuplicateSlug) {
		t.Fatalf("expected ErrDuplicateSlug, got %v", err)
	}
}

func TestArticleRepo_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE articles SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repository.NewArticleRepo(db).Update(context.Background(), sampleArticle())
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestArticleRepo_Update_DuplicateSlug(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE articles SET")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "articles_slug_key"})

	err := repository.NewArticleRepo(db).Update(context.Background(), sampleArticle())
	if !errors.Is(err, repository.ErrDuplicateSlug) {
		t.Fatalf("expected ErrDuplicateSlug, got %v", err)
	}
}

func TestArticleRepo_SlugExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewArticleRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1)")).
		WithArgs("metro-guide").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE slug = $1 AND id <> $2")).
		WithArgs("metro-guide", "self-id").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.SlugExists(context.Background(), "metro-guide", "")
	if err != nil || !exists {
		t.Fatalf("SlugExists = %v, %v", exists, err)
	}
	exists, err = repo.SlugExists(context.Background(), "metro-guide", "self-id")
	if err != nil || exists {
		t.Fatalf("SlugExists excluding self = %v, %v", exists, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_List_Filters(t *testing.T) {
	db, mock := newMockDB(t)
	a := sampleArticle()

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM articles WHERE published = TRUE AND category = $1 AND featured = TRUE ORDER BY created_at DESC LIMIT $2")).
		WithArgs("transport", 10).
		WillReturnRows(articleRow(a, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))

	got, err := repository.NewArticleRepo(db).List(context.Background(),
		models.ArticleFilter{Category: "transport", FeaturedOnly: true, Limit: 10}, true)
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if len(got) != 1 || got[0].Slug != a.Slug {
		t.Fatalf("unexpected result: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_List_EmptyIsNotNil(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM articles ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows(articleCols))

	got, err := repository.NewArticleRepo(db).List(context.Background(), models.ArticleFilter{}, false)
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestArticleRepo_DeleteAndDeleteAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewArticleRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM articles WHERE id = $1")).
		WithArgs("a1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM articles WHERE id = $1")).
		WithArgs("a2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM articles")).
		WillReturnResult(sqlmock.NewResult(0, 7))

	if ok, err := repo.Delete(context.Background(), "a1"); err != nil || !ok {
		t.Errorf("Delete(a1) = %v, %v", ok, err)
	}
	if ok, err := repo.Delete(context.Background(), "a2"); err != nil || ok {
		t.Errorf("Delete(a2) = %v, %v", ok, err)
	}
	n, err := repo.DeleteAll(context.Background())
	if err != nil || n != 7 {
		t.Errorf("DeleteAll = %d, %v", n, err)
	}
}

func TestArticleRepo_Stats(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"total", "published", "featured"}).AddRow(12, 9, 3))

	got, err := repository.NewArticleRepo(db).Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats err=%v", err)
	}
	want := &models.ArticleStats{Total: 12, Published: 9, Featured: 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestArticleRepo_ListPublishedRefs(t *testing.T) {
	db, mock := newMockDB(t)
	updated := time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT slug, category, subcategory, updated_at")).
		WillReturnRows(sqlmock.NewRows([]string{"slug", "category", "subcategory", "updated_at"}).
			AddRow("namma-metro-guide", "transport", "metro", updated))

	got, err := repository.NewArticleRepo(db).ListPublishedRefs(context.Background())
	if err != nil {
		t.Fatalf("ListPublishedRefs err=%v", err)
	}
	want := []models.ArticleRef{{Slug: "namma-metro-guide", Category: "transport", Subcategory: "metro", UpdatedAt: updated}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
