package service

import (
	"context"
	"io"

	"github.com/cityguide-blog-api/internal/config"
	"github.com/cityguide-blog-api/internal/models"
	"github.com/cityguide-blog-api/internal/notify"
	"github.com/cityguide-blog-api/internal/repository"
	"github.com/rs/zerolog"
)

// ArticleService builds, stores and serves normalized articles
type ArticleService interface {
	Create(ctx context.Context, req *models.CreateArticleRequest) (*models.Article, error)
	CreateFromFile(ctx context.Context, req *models.UploadArticleRequest) (*models.Article, error)
	Update(ctx context.Context, id string, req *models.UpdateArticleRequest) (*models.Article, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error)
	ListPublished(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error)
	ListAll(ctx context.Context) ([]*models.Article, error)
	Stats(ctx context.Context) (*models.ArticleStats, error)
}

// AuthService manages admin accounts and bearer tokens
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error)
	Authenticate(ctx context.Context, token string) (*models.AdminUser, error)
	ChangePassword(ctx context.Context, user *models.AdminUser, req *models.ChangePasswordRequest) error
}

// ContactService stores contact-form submissions
type ContactService interface {
	Submit(ctx context.Context, req *models.ContactRequest) (*models.ContactMessage, error)
	List(ctx context.Context, limit int) ([]*models.ContactMessage, error)
}

// SettingsService manages the analytics configuration
type SettingsService interface {
	GetAnalytics(ctx context.Context) (*models.AnalyticsConfig, error)
	UpdateAnalytics(ctx context.Context, req *models.AnalyticsConfigUpdate) (*models.AnalyticsConfig, error)
	PublicAnalytics(ctx context.Context) (*models.PublicAnalyticsConfig, error)
}

// SiteService renders the crawler-facing documents
type SiteService interface {
	Sitemap(ctx context.Context) ([]byte, error)
	RobotsTxt() string
}

// ExportService streams every article for backup
type ExportService interface {
	StreamArticles(ctx context.Context, w io.Writer, format string) (int, error)
}

// Services holds all service interfaces
type Services struct {
	Article  ArticleService
	Auth     AuthService
	Contact  ContactService
	Settings SettingsService
	Site     SiteService
	Export   ExportService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, notifier notify.Notifier, log zerolog.Logger) *Services {
	if notifier == nil {
		notifier = notify.NoopNotifier{}
	}

	return &Services{
		Article:  newArticleService(repos.Article, cfg.Content, log),
		Auth:     newAuthService(repos.Admin, cfg.Auth, log),
		Contact:  newContactService(repos.Contact, notifier, log),
		Settings: newSettingsService(repos.Settings, log),
		Site:     newSiteService(repos.Article, cfg.Site, log),
		Export:   newExportService(repos.Article, log),
	}
}
