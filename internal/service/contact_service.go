package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cityguide-blog-api/internal/metrics"
	"github.com/cityguide-blog-api/internal/models"
	"github.com/cityguide-blog-api/internal/notify"
	"github.com/cityguide-blog-api/internal/repository"
	"github.com/cityguide-blog-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const notifyTimeout = 15 * time.Second

// contactService is the concrete implementation of ContactService
type contactService struct {
	repo     repository.ContactRepository
	notifier notify.Notifier
	now      func() time.Time
	log      zerolog.Logger

	// done is signalled after each notification attempt; nil outside tests
	done chan<- error
}

// newContactService creates a new ContactService
func newContactService(repo repository.ContactRepository, notifier notify.Notifier, log zerolog.Logger) *contactService {
	return &contactService{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
		log:      log.With().Str("service", "contact").Logger(),
	}
}

// Submit stores a contact message and notifies operators in the background.
// Notification failures never reach the caller.
func (s *contactService) Submit(ctx context.Context, req *models.ContactRequest) (*models.ContactMessage, error) {
	if err := validation.AsError(validation.ValidateContact(req)); err != nil {
		return nil, err
	}

	msg := &models.ContactMessage{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Subject:   strings.TrimSpace(req.Subject),
		Message:   strings.TrimSpace(req.Message),
		Status:    models.ContactStatusNew,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("store contact message: %w", err)
	}

	s.log.Info().Str("contact_id", msg.ID).Msg("Contact message stored")

	notification := *msg
	go s.notify(&notification)

	return msg, nil
}

func (s *contactService) notify(msg *models.ContactMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	err := s.notifier.NotifyContact(ctx, msg)
	if err != nil {
		metrics.RecordContactNotification("failure")
		s.log.Warn().Err(err).Str("contact_id", msg.ID).Msg("Contact notification failed")
	} else {
		metrics.RecordContactNotification("success")
	}

	if s.done != nil {
		s.done <- err
	}
}

// List returns the newest submissions first
func (s *contactService) List(ctx context.Context, limit int) ([]*models.ContactMessage, error) {
	return s.repo.List(ctx, limit)
}
