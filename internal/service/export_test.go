package service

import (
	"time"

	"github.com/cityguide-blog-api/internal/config"
	"github.com/cityguide-blog-api/internal/content"
	"github.com/cityguide-blog-api/internal/notify"
	"github.com/cityguide-blog-api/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Test constructors with injectable clocks and cheap hashing.

func NewArticleServiceForTest(repo repository.ArticleRepository, cfg config.ContentConfig, now func() time.Time) ArticleService {
	s := newArticleService(repo, cfg, zerolog.Nop())
	s.now = now
	return s
}

type renderFunc func(content.Source) (content.Rendered, error)

func (f renderFunc) Render(src content.Source) (content.Rendered, error) { return f(src) }

func NewArticleServiceWithRenderer(repo repository.ArticleRepository, cfg config.ContentConfig, now func() time.Time, render func(content.Source) (content.Rendered, error)) ArticleService {
	s := newArticleService(repo, cfg, zerolog.Nop())
	s.now = now
	s.converter = renderFunc(render)
	return s
}

func NewAuthServiceForTest(repo repository.AdminRepository, cfg config.AuthConfig, now func() time.Time) AuthService {
	s := newAuthService(repo, cfg, zerolog.Nop())
	s.now = now
	s.hashCost = bcrypt.MinCost
	return s
}

func NewContactServiceForTest(repo repository.ContactRepository, notifier notify.Notifier, done chan<- error) ContactService {
	s := newContactService(repo, notifier, zerolog.Nop())
	s.done = done
	return s
}
