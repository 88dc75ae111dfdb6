package repository

import (
	"context"
	"errors"

	"github.com/cityguide-blog-api/internal/database"
	"github.com/cityguide-blog-api/internal/models"
	"github.com/lib/pq"
)

var (
	// ErrDuplicateSlug is returned when an insert or update hits the unique slug index
	ErrDuplicateSlug = errors.New("repository: slug already exists")
	// ErrDuplicateAdmin is returned when a username or email is already registered
	ErrDuplicateAdmin = errors.New("repository: admin username or email already exists")
	// ErrNotFound is returned when an update targets a missing row
	ErrNotFound = errors.New("repository: record not found")
)

// ArticleRepository defines the interface for article data operations.
// Lookups return (nil, nil) when nothing matches.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	List(ctx context.Context, filter models.ArticleFilter, publishedOnly bool) ([]*models.Article, error)
	ListPublishedRefs(ctx context.Context) ([]models.ArticleRef, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (*models.ArticleStats, error)
	StreamAll(ctx context.Context, callback func(*models.Article) error) error
}

// AdminRepository defines the interface for admin account operations
type AdminRepository interface {
	Create(ctx context.Context, user *models.AdminUser) error
	GetByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// ContactRepository defines the interface for contact-form submissions
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	List(ctx context.Context, limit int) ([]*models.ContactMessage, error)
}

// SettingsRepository stores key/value site settings
type SettingsRepository interface {
	GetMany(ctx context.Context, keys []string) (map[string]string, error)
	SetMany(ctx context.Context, values map[string]string) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article  ArticleRepository
	Admin    AdminRepository
	Contact  ContactRepository
	Settings SettingsRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article:  NewArticleRepo(db),
		Admin:    NewAdminRepo(db),
		Contact:  NewContactRepo(db),
		Settings: NewSettingsRepo(db),
	}
}

const uniqueViolation = "23505"

// uniqueConstraint reports whether err is a unique violation and names the
// violated constraint.
func uniqueConstraint(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}
