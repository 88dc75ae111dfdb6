package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cityguide-blog-api/internal/models"
	"github.com/cityguide-blog-api/internal/repository"
)

// Verify interface compliance
var (
	_ repository.ArticleRepository  = (*MockArticleRepository)(nil)
	_ repository.AdminRepository    = (*MockAdminRepository)(nil)
	_ repository.ContactRepository  = (*MockContactRepository)(nil)
	_ repository.SettingsRepository = (*MockSettingsRepository)(nil)
)

// MockArticleRepository is an in-memory ArticleRepository that enforces
// slug uniqueness like the database index does.
type MockArticleRepository struct {
	mu            sync.Mutex
	Articles      map[string]*models.Article
	SlugToArticle map[string]*models.Article
	InsertError   error
	// ForceDuplicates makes the next N writes fail with ErrDuplicateSlug
	ForceDuplicates int
	CreateCalls     int
	UpdateCalls     int
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		Articles:      make(map[string]*models.Article),
		SlugToArticle: make(map[string]*models.Article),
	}
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls++
	if m.InsertError != nil {
		return m.InsertError
	}
	if m.ForceDuplicates > 0 {
		m.ForceDuplicates--
		return repository.ErrDuplicateSlug
	}
	if _, taken := m.SlugToArticle[article.Slug]; taken {
		return repository.ErrDuplicateSlug
	}
	stored := *article
	m.Articles[article.ID] = &stored
	m.SlugToArticle[article.Slug] = &stored
	return nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls++
	old, ok := m.Articles[article.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if m.ForceDuplicates > 0 {
		m.ForceDuplicates--
		return repository.ErrDuplicateSlug
	}
	if other, taken := m.SlugToArticle[article.Slug]; taken && other.ID != article.ID {
		return repository.ErrDuplicateSlug
	}
	delete(m.SlugToArticle, old.Slug)
	stored := *article
	m.Articles[article.ID] = &stored
	m.SlugToArticle[article.Slug] = &stored
	return nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyArticle(m.Articles[id]), nil
}

func (m *MockArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyArticle(m.SlugToArticle[slug]), nil
}

func (m *MockArticleRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, exists := m.SlugToArticle[slug]
	return exists && a.ID != excludeID, nil
}

func (m *MockArticleRepository) List(ctx context.Context, filter models.ArticleFilter, publishedOnly bool) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.Article, 0)
	for _, a := range m.sorted() {
		if publishedOnly && !a.Published {
			continue
		}
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		if filter.Subcategory != "" && a.Subcategory != filter.Subcategory {
			continue
		}
		if filter.FeaturedOnly && !a.Featured {
			continue
		}
		out = append(out, copyArticle(a))
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (m *MockArticleRepository) ListPublishedRefs(ctx context.Context) ([]models.ArticleRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var refs []models.ArticleRef
	for _, a := range m.sorted() {
		if !a.Published {
			continue
		}
		refs = append(refs, models.ArticleRef{
			Slug:        a.Slug,
			Category:    a.Category,
			Subcategory: a.Subcategory,
			UpdatedAt:   a.UpdatedAt,
		})
	}
	return refs, nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.Articles[id]
	if !ok {
		return false, nil
	}
	delete(m.Articles, id)
	delete(m.SlugToArticle, a.Slug)
	return true, nil
}

func (m *MockArticleRepository) DeleteAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := int64(len(m.Articles))
	m.Articles = make(map[string]*models.Article)
	m.SlugToArticle = make(map[string]*models.Article)
	return n, nil
}

func (m *MockArticleRepository) Stats(ctx context.Context) (*models.ArticleStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var stats models.ArticleStats
	for _, a := range m.Articles {
		stats.Total++
		if a.Published {
			stats.Published++
		}
		if a.Featured {
			stats.Featured++
		}
	}
	return &stats, nil
}

func (m *MockArticleRepository) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	m.mu.Lock()
	articles := m.sorted()
	m.mu.Unlock()

	for i := len(articles) - 1; i >= 0; i-- {
		if err := callback(copyArticle(articles[i])); err != nil {
			return err
		}
	}
	return nil
}

// sorted returns articles newest first, ties broken by slug
func (m *MockArticleRepository) sorted() []*models.Article {
	out := make([]*models.Article, 0, len(m.Articles))
	for _, a := range m.Articles {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Slug < out[j].Slug
	})
	return out
}

func copyArticle(a *models.Article) *models.Article {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// MockAdminRepository is a mock implementation of AdminRepository
type MockAdminRepository struct {
	mu          sync.Mutex
	Users       map[string]*models.AdminUser
	InsertError error
}

func NewMockAdminRepository() *MockAdminRepository {
	return &MockAdminRepository{
		Users: make(map[string]*models.AdminUser),
	}
}

func (m *MockAdminRepository) Create(ctx context.Context, user *models.AdminUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.InsertError != nil {
		return m.InsertError
	}
	for _, u := range m.Users {
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicateAdmin
		}
	}
	stored := *user
	m.Users[user.ID] = &stored
	return nil
}

func (m *MockAdminRepository) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MockAdminRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	u, err := m.GetByUsername(ctx, username)
	return u != nil, err
}

func (m *MockAdminRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockAdminRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

// MockContactRepository is a mock implementation of ContactRepository
type MockContactRepository struct {
	mu          sync.Mutex
	Messages    []*models.ContactMessage
	InsertError error
}

func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{}
}

func (m *MockContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	stored := *msg
	m.Messages = append(m.Messages, &stored)
	return nil
}

func (m *MockContactRepository) List(ctx context.Context, limit int) ([]*models.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.ContactMessage, 0, len(m.Messages))
	for i := len(m.Messages) - 1; i >= 0; i-- {
		out = append(out, m.Messages[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// MockSettingsRepository is a mock implementation of SettingsRepository
type MockSettingsRepository struct {
	mu       sync.Mutex
	Values   map[string]string
	SetError error
	SetCalls int
}

func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{
		Values: make(map[string]string),
	}
}

func (m *MockSettingsRepository) GetMany(ctx context.Context, keys []string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]string)
	for _, k := range keys {
		if v, ok := m.Values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m *MockSettingsRepository) SetMany(ctx context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls++
	if m.SetError != nil {
		return m.SetError
	}
	for k, v := range values {
		m.Values[k] = v
	}
	return nil
}

// NewRepositories bundles fresh in-memory repositories
func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		Article:  NewMockArticleRepository(),
		Admin:    NewMockAdminRepository(),
		Contact:  NewMockContactRepository(),
		Settings: NewMockSettingsRepository(),
	}
}
