package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cityguide-blog-api/internal/config"
	"github.com/cityguide-blog-api/internal/content"
	"github.com/cityguide-blog-api/internal/media"
	"github.com/cityguide-blog-api/internal/metrics"
	"github.com/cityguide-blog-api/internal/models"
	"github.com/cityguide-blog-api/internal/repository"
	"github.com/cityguide-blog-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Creation sources reported to metrics and logs
const (
	sourceForm         = "form"
	sourceMarkdownFile = "markdown_file"
	sourceHTMLFile     = "html_file"
)

// renderer converts article sources to HTML
type renderer interface {
	Render(src content.Source) (content.Rendered, error)
}

// articleService is the concrete implementation of ArticleService.
// It is the only writer of derived article fields.
type articleService struct {
	repo        repository.ArticleRepository
	converter   renderer
	images      *media.Encoder
	excerptLen  int
	maxAttempts int
	now         func() time.Time
	log         zerolog.Logger
}

// newArticleService creates a new ArticleService
func newArticleService(repo repository.ArticleRepository, cfg config.ContentConfig, log zerolog.Logger) *articleService {
	attempts := cfg.SlugMaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &articleService{
		repo:        repo,
		converter:   content.NewConverter(),
		images:      media.NewEncoder(cfg.MaxImageWidth),
		excerptLen:  cfg.ExcerptLength,
		maxAttempts: attempts,
		now:         time.Now,
		log:         log.With().Str("service", "article").Logger(),
	}
}

// draft is everything needed to assemble a new article
type draft struct {
	title       string
	source      content.Source
	category    string
	subcategory string
	featured    bool
	published   bool
	image       *models.ImageUpload
	origin      string
}

// Create builds an article from structured input. Content is Markdown.
func (s *articleService) Create(ctx context.Context, req *models.CreateArticleRequest) (*models.Article, error) {
	if err := validation.AsError(validation.ValidateCreateArticle(req)); err != nil {
		return nil, err
	}

	return s.create(ctx, draft{
		title:       req.Title,
		source:      content.MarkdownSource(req.Content),
		category:    req.Category,
		subcategory: req.Subcategory,
		featured:    req.Featured,
		published:   req.IsPublished(),
		image:       req.Image,
		origin:      sourceForm,
	})
}

// CreateFromFile builds an article from an uploaded .md or .html file.
// Form values win over front matter; published defaults to true.
func (s *articleService) CreateFromFile(ctx context.Context, req *models.UploadArticleRequest) (*models.Article, error) {
	if err := validation.AsError(validation.ValidateUploadArticle(req)); err != nil {
		return nil, err
	}

	upload, err := content.ParseUpload(req.Filename, req.Data)
	if err != nil {
		return nil, err
	}

	d := draft{
		title:       upload.Title,
		source:      upload.Source,
		category:    firstNonEmpty(req.Category, upload.Meta.Category),
		subcategory: firstNonEmpty(req.Subcategory, upload.Meta.Subcategory),
		featured:    firstBool(false, req.Featured, upload.Meta.Featured),
		published:   firstBool(true, req.Published, upload.Meta.Published),
		origin:      sourceMarkdownFile,
	}
	if upload.Source.IsHTML() {
		d.origin = sourceHTMLFile
	}
	if d.category == "" {
		return nil, validation.Errors{{Field: "category", Message: "category is required"}}
	}

	return s.create(ctx, d)
}

func (s *articleService) create(ctx context.Context, d draft) (*models.Article, error) {
	title := content.Clean(d.title)
	if title == "" {
		return nil, validation.Errors{{Field: "title", Message: "title must contain text"}}
	}

	rendered, err := s.render(d.source)
	if err != nil {
		return nil, err
	}

	featuredImage := rendered.FeaturedImage
	if d.image != nil {
		uri, err := s.images.DataURI(d.image.Data, d.image.ContentType)
		if err != nil {
			return nil, fmt.Errorf("encode featured image: %w", err)
		}
		if uri != "" {
			featuredImage = uri
		}
	}

	stats := d.source.StatsText()
	wordCount, readTime := content.EstimateReadTime(stats)
	now := s.now().UTC()

	article := &models.Article{
		ID:            uuid.New().String(),
		Title:         title,
		Content:       rendered.HTML,
		Excerpt:       content.Extract(stats, s.excerptLen),
		Category:      d.category,
		Subcategory:   d.subcategory,
		ReadTime:      readTime,
		WordCount:     wordCount,
		FeaturedImage: optionalString(featuredImage),
		Featured:      d.featured,
		Published:     d.published,
		Author:        models.DefaultAuthor,
		PublishDate:   now.Format(models.PublishDateLayout),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	base := content.GenerateSlug(title)
	if err := s.storeWithUniqueSlug(ctx, article, base, "create", s.repo.Create); err != nil {
		return nil, err
	}

	metrics.RecordArticleCreated(d.origin)
	s.log.Info().
		Str("article_id", article.ID).
		Str("slug", article.Slug).
		Str("source", d.origin).
		Int("word_count", article.WordCount).
		Msg("Article created")

	return article, nil
}

// Update applies a sparse patch. A title change regenerates the slug, a
// content change re-renders and recomputes excerpt, word count and read time
// from the new raw content.
func (s *articleService) Update(ctx context.Context, id string, req *models.UpdateArticleRequest) (*models.Article, error) {
	if err := validation.AsError(validation.ValidateUpdateArticle(req)); err != nil {
		return nil, err
	}
	if !validation.IsValidID(id) {
		return nil, ErrArticleNotFound
	}

	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}

	base := ""
	if req.Title != nil {
		title := content.Clean(*req.Title)
		if title == "" {
			return nil, validation.Errors{{Field: "title", Message: "title must contain text"}}
		}
		// Titles that reduce to the same keywords keep their URL.
		if content.GenerateSlug(title) != content.GenerateSlug(article.Title) {
			base = content.GenerateSlug(title)
		}
		article.Title = title
	}

	if req.Content != nil {
		src := content.MarkdownSource(*req.Content)
		rendered, err := s.render(src)
		if err != nil {
			return nil, err
		}
		article.Content = rendered.HTML
		article.Excerpt = content.Extract(src.StatsText(), s.excerptLen)
		article.WordCount, article.ReadTime = content.EstimateReadTime(src.StatsText())
		if !article.HasInlineImage() {
			article.FeaturedImage = optionalString(rendered.FeaturedImage)
		}
	}

	if req.Category != nil {
		article.Category = *req.Category
	}
	if req.Subcategory != nil {
		article.Subcategory = *req.Subcategory
	}
	if req.Featured != nil {
		article.Featured = *req.Featured
	}
	if req.Published != nil {
		article.Published = *req.Published
	}
	article.UpdatedAt = s.now().UTC()

	if base == "" {
		err = s.repo.Update(ctx, article)
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, ErrSlugConflict
		}
	} else {
		err = s.storeWithUniqueSlug(ctx, article, base, "update", s.repo.Update)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, err
	}

	metrics.RecordArticleUpdated()
	s.log.Info().Str("article_id", article.ID).Str("slug", article.Slug).Msg("Article updated")

	return article, nil
}

// storeWithUniqueSlug persists article under base or, if taken, under
// base-<unix seconds>, then base-<unix seconds>-<n>. The unique index is the
// source of truth; the existence check only saves a failed write.
func (s *articleService) storeWithUniqueSlug(
	ctx context.Context,
	article *models.Article,
	base, operation string,
	persist func(context.Context, *models.Article) error,
) error {
	start := 0
	taken, err := s.repo.SlugExists(ctx, base, article.ID)
	if err != nil {
		return fmt.Errorf("check slug: %w", err)
	}
	if taken {
		metrics.RecordSlugCollision(operation, "check")
		start = 1
	}

	stamp := s.now().Unix()
	for i := 0; i < s.maxAttempts; i++ {
		article.Slug = slugCandidate(base, stamp, start+i)
		err := persist(ctx, article)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateSlug) {
			return err
		}
		metrics.RecordSlugCollision(operation, "insert")
		s.log.Warn().Str("slug", article.Slug).Str("operation", operation).Msg("Slug taken, retrying with suffix")
	}

	s.log.Error().Str("base_slug", base).Int("attempts", s.maxAttempts).Msg("Slug allocation exhausted")
	return ErrSlugConflict
}

func slugCandidate(base string, stamp int64, attempt int) string {
	switch attempt {
	case 0:
		return base
	case 1:
		return fmt.Sprintf("%s-%d", base, stamp)
	default:
		return fmt.Sprintf("%s-%d-%d", base, stamp, attempt)
	}
}

func (s *articleService) render(src content.Source) (content.Rendered, error) {
	rendered, err := s.converter.Render(src)
	if err != nil {
		metrics.RecordRenderFailure()
		s.log.Warn().Err(err).Str("format", src.Format.String()).Msg("Content could not be rendered")
		return content.Rendered{}, err
	}
	return rendered, nil
}

// Delete removes one article
func (s *articleService) Delete(ctx context.Context, id string) error {
	if !validation.IsValidID(id) {
		return ErrArticleNotFound
	}
	existed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if !existed {
		return ErrArticleNotFound
	}
	metrics.RecordArticlesDeleted(1)
	s.log.Info().Str("article_id", id).Msg("Article deleted")
	return nil
}

// DeleteAll removes every article
func (s *articleService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete articles: %w", err)
	}
	metrics.RecordArticlesDeleted(n)
	s.log.Warn().Int64("count", n).Msg("All articles deleted")
	return n, nil
}

// GetByID returns any article, published or not
func (s *articleService) GetByID(ctx context.Context, id string) (*models.Article, error) {
	if !validation.IsValidID(id) {
		return nil, ErrArticleNotFound
	}
	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

// GetPublishedBySlug hides unpublished articles behind ErrArticleNotFound
func (s *articleService) GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error) {
	article, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil || !article.Published {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

func (s *articleService) ListPublished(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	return s.repo.List(ctx, filter, true)
}

func (s *articleService) ListAll(ctx context.Context) ([]*models.Article, error) {
	return s.repo.List(ctx, models.ArticleFilter{}, false)
}

func (s *articleService) Stats(ctx context.Context) (*models.ArticleStats, error) {
	return s.repo.Stats(ctx)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstBool(def bool, values ...*bool) bool {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return def
}
