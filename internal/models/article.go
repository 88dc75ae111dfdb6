package models

import (
	"time"
)

// DefaultAuthor is recorded on articles created through the admin API.
const DefaultAuthor = "Admin"

// PublishDateLayout is the date-only layout of publish_date.
const PublishDateLayout = "2006-01-02"

// Article represents a normalized blog article
type Article struct {
	ID            string    `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Slug          string    `json:"slug" db:"slug"`
	Content       string    `json:"content" db:"content"` // rendered HTML
	Excerpt       string    `json:"excerpt" db:"excerpt"`
	Category      string    `json:"category" db:"category"`
	Subcategory   string    `json:"subcategory" db:"subcategory"`
	ReadTime      string    `json:"read_time" db:"read_time"`
	WordCount     int       `json:"word_count" db:"word_count"`
	FeaturedImage *string   `json:"featured_image" db:"featured_image"`
	Featured      bool      `json:"featured" db:"featured"`
	Published     bool      `json:"published" db:"published"`
	Author        string    `json:"author" db:"author"`
	PublishDate   string    `json:"publish_date" db:"publish_date"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// HasInlineImage reports whether the featured image is an embedded data URI.
func (a *Article) HasInlineImage() bool {
	return a.FeaturedImage != nil && len(*a.FeaturedImage) > 5 && (*a.FeaturedImage)[:5] == "data:"
}

// ImageUpload is an explicitly uploaded featured image
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// CreateArticleRequest is the structured create input (multipart form)
type CreateArticleRequest struct {
	Title       string       `form:"title" json:"title"`
	Content     string       `form:"content" json:"content"`
	Category    string       `form:"category" json:"category"`
	Subcategory string       `form:"subcategory" json:"subcategory"`
	Featured    bool         `form:"featured" json:"featured"`
	Published   *bool        `form:"published" json:"published"`
	Image       *ImageUpload `form:"-" json:"-"`
}

// IsPublished defaults to true when the flag was not sent
func (r *CreateArticleRequest) IsPublished() bool {
	return r.Published == nil || *r.Published
}

// UploadArticleRequest creates an article from an uploaded .md or .html file
type UploadArticleRequest struct {
	Filename    string `form:"-" json:"-"`
	Data        []byte `form:"-" json:"-"`
	Category    string `form:"category"`
	Subcategory string `form:"subcategory"`
	Featured    *bool  `form:"featured"`
	Published   *bool  `form:"published"`
}

// UpdateArticleRequest is a sparse patch; nil fields are left untouched
type UpdateArticleRequest struct {
	Title       *string `json:"title,omitempty"`
	Content     *string `json:"content,omitempty"`
	Category    *string `json:"category,omitempty"`
	Subcategory *string `json:"subcategory,omitempty"`
	Featured    *bool   `json:"featured,omitempty"`
	Published   *bool   `json:"published,omitempty"`
}

// ArticleFilter narrows public listings
type ArticleFilter struct {
	Category     string
	Subcategory  string
	FeaturedOnly bool
	Limit        int
}

// ArticleStats summarizes the article table
type ArticleStats struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Featured  int `json:"featured"`
}

// ExportFormats defines allowed article export formats
var ExportFormats = map[string]bool{
	"ndjson": true,
	"json":   true,
}

// ArticleRef is the slice of a published article needed for sitemaps
type ArticleRef struct {
	Slug        string    `json:"slug"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	UpdatedAt   time.Time `json:"updated_at"`
}
