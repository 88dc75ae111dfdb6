package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/cityguide-blog-api/internal/models"
	"github.com/cityguide-blog-api/internal/notify"
	"github.com/cityguide-blog-api/internal/service"
)

// Verify interface compliance
var (
	_ service.ArticleService  = (*MockArticleService)(nil)
	_ service.AuthService     = (*MockAuthService)(nil)
	_ service.ContactService  = (*MockContactService)(nil)
	_ service.SettingsService = (*MockSettingsService)(nil)
	_ service.SiteService     = (*MockSiteService)(nil)
	_ service.ExportService   = (*MockExportService)(nil)
	_ notify.Notifier         = (*MockNotifier)(nil)
)

// MockArticleService is a mock implementation of ArticleService
type MockArticleService struct {
	CreateFunc         func(ctx context.Context, req *models.CreateArticleRequest) (*models.Article, error)
	CreateFromFileFunc func(ctx context.Context, req *models.UploadArticleRequest) (*models.Article, error)
	UpdateFunc         func(ctx context.Context, id string, req *models.UpdateArticleRequest) (*models.Article, error)
	DeleteFunc         func(ctx context.Context, id string) error
	DeleteAllFunc      func(ctx context.Context) (int64, error)
	GetByIDFunc        func(ctx context.Context, id string) (*models.Article, error)
	GetBySlugFunc      func(ctx context.Context, slug string) (*models.Article, error)
	ListPublishedFunc  func(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error)
	ListAllFunc        func(ctx context.Context) ([]*models.Article, error)
	StatsFunc          func(ctx context.Context) (*models.ArticleStats, error)

	LastCreate  *models.CreateArticleRequest
	LastUpload  *models.UploadArticleRequest
	LastUpdate  *models.UpdateArticleRequest
	LastFilter  models.ArticleFilter
	DeletedIDs  []string
	DeleteAllOK bool
}

func NewMockArticleService() *MockArticleService {
	return &MockArticleService{}
}

func (m *MockArticleService) Create(ctx context.Context, req *models.CreateArticleRequest) (*models.Article, error) {
	m.LastCreate = req
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return &models.Article{ID: "article-1", Title: req.Title, Category: req.Category}, nil
}

func (m *MockArticleService) CreateFromFile(ctx context.Context, req *models.UploadArticleRequest) (*models.Article, error) {
	m.LastUpload = req
	if m.CreateFromFileFunc != nil {
		return m.CreateFromFileFunc(ctx, req)
	}
	return &models.Article{ID: "article-1", Category: req.Category}, nil
}

func (m *MockArticleService) Update(ctx context.Context, id string, req *models.UpdateArticleRequest) (*models.Article, error) {
	m.LastUpdate = req
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, req)
	}
	return &models.Article{ID: id}, nil
}

func (m *MockArticleService) Delete(ctx context.Context, id string) error {
	m.DeletedIDs = append(m.DeletedIDs, id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockArticleService) DeleteAll(ctx context.Context) (int64, error) {
	m.DeleteAllOK = true
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx)
	}
	return 0, nil
}

func (m *MockArticleService) GetByID(ctx context.Context, id string) (*models.Article, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, service.ErrArticleNotFound
}

func (m *MockArticleService) GetPublishedBySlug(ctx context.Context, slug string) (*models.Article, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	return nil, service.ErrArticleNotFound
}

func (m *MockArticleService) ListPublished(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	m.LastFilter = filter
	if m.ListPublishedFunc != nil {
		return m.ListPublishedFunc(ctx, filter)
	}
	return []*models.Article{}, nil
}

func (m *MockArticleService) ListAll(ctx context.Context) ([]*models.Article, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return []*models.Article{}, nil
}

func (m *MockArticleService) Stats(ctx context.Context) (*models.ArticleStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &models.ArticleStats{}, nil
}

// MockAuthService is a mock implementation of AuthService.
// Authenticate accepts the tokens listed in Tokens.
type MockAuthService struct {
	Tokens             map[string]*models.AdminUser
	RegisterFunc       func(ctx context.Context, req *models.RegisterRequest) (*models.TokenResponse, error)
	LoginFunc          func(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error)
	ChangePasswordFunc func(ctx context.Context, user *models.AdminUser, req *models.ChangePasswordRequest) error
	LoginCalls         int
}

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{
		Tokens: make(map[string]*models.AdminUser),
	}
}

func (m *MockAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return &models.TokenResponse{
		AccessToken: "token",
		TokenType:   "bearer",
		UserInfo:    models.UserInfo{Username: req.Username, Email: req.Email},
	}, nil
}

func (m *MockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	m.LoginCalls++
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return nil, service.ErrInvalidCredentials
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*models.AdminUser, error) {
	if user, ok := m.Tokens[token]; ok {
		return user, nil
	}
	return nil, service.ErrInvalidToken
}

func (m *MockAuthService) ChangePassword(ctx context.Context, user *models.AdminUser, req *models.ChangePasswordRequest) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, user, req)
	}
	return nil
}

// MockContactService is a mock implementation of ContactService
type MockContactService struct {
	SubmitFunc func(ctx context.Context, req *models.ContactRequest) (*models.ContactMessage, error)
	Messages   []*models.ContactMessage
}

func NewMockContactService() *MockContactService {
	return &MockContactService{}
}

func (m *MockContactService) Submit(ctx context.Context, req *models.ContactRequest) (*models.ContactMessage, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, req)
	}
	msg := &models.ContactMessage{ID: "contact-1", Name: req.Name, Email: req.Email, Subject: req.Subject, Message: req.Message, Status: models.ContactStatusNew}
	m.Messages = append(m.Messages, msg)
	return msg, nil
}

func (m *MockContactService) List(ctx context.Context, limit int) ([]*models.ContactMessage, error) {
	return m.Messages, nil
}

// MockSettingsService is a mock implementation of SettingsService
type MockSettingsService struct {
	Config     models.AnalyticsConfig
	UpdateFunc func(ctx context.Context, req *models.AnalyticsConfigUpdate) (*models.AnalyticsConfig, error)
}

func NewMockSettingsService() *MockSettingsService {
	return &MockSettingsService{}
}

func (m *MockSettingsService) GetAnalytics(ctx context.Context) (*models.AnalyticsConfig, error) {
	cfg := m.Config
	return &cfg, nil
}

func (m *MockSettingsService) UpdateAnalytics(ctx context.Context, req *models.AnalyticsConfigUpdate) (*models.AnalyticsConfig, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, req)
	}
	if req.GoogleAnalyticsID != nil {
		m.Config.GoogleAnalyticsID = *req.GoogleAnalyticsID
	}
	if req.GoogleSearchConsoleID != nil {
		m.Config.GoogleSearchConsoleID = *req.GoogleSearchConsoleID
	}
	if req.GoogleAdsID != nil {
		m.Config.GoogleAdsID = *req.GoogleAdsID
	}
	if req.GoogleTagManagerID != nil {
		m.Config.GoogleTagManagerID = *req.GoogleTagManagerID
	}
	return m.GetAnalytics(ctx)
}

func (m *MockSettingsService) PublicAnalytics(ctx context.Context) (*models.PublicAnalyticsConfig, error) {
	return &models.PublicAnalyticsConfig{
		GoogleAnalyticsID:  m.Config.GoogleAnalyticsID,
		GoogleTagManagerID: m.Config.GoogleTagManagerID,
	}, nil
}

// MockSiteService is a mock implementation of SiteService
type MockSiteService struct {
	SitemapXML []byte
	Robots     string
}

func NewMockSiteService() *MockSiteService {
	return &MockSiteService{
		SitemapXML: []byte(`<?xml version="1.0" encoding="UTF-8"?>` + "\n<urlset></urlset>"),
		Robots:     "User-agent: *\nAllow: /\n",
	}
}

func (m *MockSiteService) Sitemap(ctx context.Context) ([]byte, error) {
	return m.SitemapXML, nil
}

func (m *MockSiteService) RobotsTxt() string {
	return m.Robots
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamArticlesFunc func(ctx context.Context, w io.Writer, format string) (int, error)
}

func NewMockExportService() *MockExportService {
	return &MockExportService{}
}

func (m *MockExportService) StreamArticles(ctx context.Context, w io.Writer, format string) (int, error) {
	if m.StreamArticlesFunc != nil {
		return m.StreamArticlesFunc(ctx, w, format)
	}
	return 0, nil
}

// MockNotifier records contact notifications
type MockNotifier struct {
	mu       sync.Mutex
	Err      error
	Notified []*models.ContactMessage
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) NotifyContact(ctx context.Context, msg *models.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notified = append(m.Notified, msg)
	return m.Err
}

// Count returns how many notifications were attempted
func (m *MockNotifier) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Notified)
}

// NewServices bundles fresh service mocks
func NewServices() *service.Services {
	return &service.Services{
		Article:  NewMockArticleService(),
		Auth:     NewMockAuthService(),
		Contact:  NewMockContactService(),
		Settings: NewMockSettingsService(),
		Site:     NewMockSiteService(),
		Export:   NewMockExportService(),
	}
}
