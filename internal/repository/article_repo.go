package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cityguide-blog-api/internal/database"
	"github.com/cityguide-blog-api/internal/models"
)

const articleColumns = `id, title, slug, content, excerpt, category, subcategory, read_time,
		word_count, featured_image, featured, published, author, publish_date, created_at, updated_at`

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

// Create inserts a new article; the unique slug index guards against races
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.db.ExecContext(ctx, query,
		article.ID, article.Title, article.Slug, article.Content, article.Excerpt,
		article.Category, article.Subcategory, article.ReadTime, article.WordCount,
		nullStringPtr(article.FeaturedImage), article.Featured, article.Published,
		article.Author, article.PublishDate, article.CreatedAt, article.UpdatedAt,
	)
	return mapArticleError(err)
}

// Update overwrites every mutable column of an existing article
func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	query := `
		UPDATE articles SET
			title = $2, slug = $3, content = $4, excerpt = $5, category = $6,
			subcategory = $7, read_time = $8, word_count = $9, featured_image = $10,
			featured = $11, published = $12, updated_at = $13
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		article.ID, article.Title, article.Slug, article.Content, article.Excerpt,
		article.Category, article.Subcategory, article.ReadTime, article.WordCount,
		nullStringPtr(article.FeaturedImage), article.Featured, article.Published,
		article.UpdatedAt,
	)
	if err != nil {
		return mapArticleError(err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+articleColumns+" FROM articles WHERE id = $1", id)
	return scanArticleRow(row)
}

// GetBySlug retrieves an article by slug
func (r *articleRepo) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+articleColumns+" FROM articles WHERE slug = $1", slug)
	return scanArticleRow(row)
}

// SlugExists checks whether another article already uses slug
func (r *articleRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var exists bool
	var err error
	if excludeID == "" {
		err = r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1)", slug).Scan(&exists)
	} else {
		err = r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1 AND id <> $2)", slug, excludeID).Scan(&exists)
	}
	return exists, err
}

// List returns articles newest first
func (r *articleRepo) List(ctx context.Context, filter models.ArticleFilter, publishedOnly bool) ([]*models.Article, error) {
	var conds []string
	var args []interface{}

	if publishedOnly {
		conds = append(conds, "published = TRUE")
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Subcategory != "" {
		args = append(args, filter.Subcategory)
		conds = append(conds, fmt.Sprintf("subcategory = $%d", len(args)))
	}
	if filter.FeaturedOnly {
		conds = append(conds, "featured = TRUE")
	}

	query := "SELECT " + articleColumns + " FROM articles"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]*models.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// ListPublishedRefs returns slug, category and last change of published articles
func (r *articleRepo) ListPublishedRefs(ctx context.Context) ([]models.ArticleRef, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT slug, category, subcategory, updated_at
		FROM articles WHERE published = TRUE ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []models.ArticleRef
	for rows.Next() {
		var ref models.ArticleRef
		if err := rows.Scan(&ref.Slug, &ref.Category, &ref.Subcategory, &ref.UpdatedAt); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// Delete removes one article, reporting whether it existed
func (r *articleRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

// DeleteAll removes every article and returns how many were deleted
func (r *articleRepo) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM articles")
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Stats counts all, published and featured articles
func (r *articleRepo) Stats(ctx context.Context) (*models.ArticleStats, error) {
	var stats models.ArticleStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE published),
			COUNT(*) FILTER (WHERE featured)
		FROM articles
	`).Scan(&stats.Total, &stats.Published, &stats.Featured)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// StreamAll streams every article in creation order
func (r *articleRepo) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	rows, err := r.db.QueryContext(ctx, "SELECT "+articleColumns+" FROM articles ORDER BY created_at")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return err
		}
		if err := callback(article); err != nil {
			return err
		}
	}
	return rows.Err()
}

func scanArticleRow(row rowScanner) (*models.Article, error) {
	article, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return article, err
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var article models.Article
	var featuredImage sql.NullString
	var publishDate time.Time

	err := row.Scan(
		&article.ID, &article.Title, &article.Slug, &article.Content, &article.Excerpt,
		&article.Category, &article.Subcategory, &article.ReadTime, &article.WordCount,
		&featuredImage, &article.Featured, &article.Published, &article.Author,
		&publishDate, &article.CreatedAt, &article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if featuredImage.Valid {
		article.FeaturedImage = &featuredImage.String
	}
	article.PublishDate = publishDate.Format(models.PublishDateLayout)
	return &article, nil
}

func mapArticleError(err error) error {
	if err == nil {
		return nil
	}
	if constraint, ok := uniqueConstraint(err); ok && constraint != "articles_pkey" {
		return fmt.Errorf("%w: %v", ErrDuplicateSlug, err)
	}
	return err
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
