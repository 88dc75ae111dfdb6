// Package notify delivers contact-form submissions to site operators.
package notify

import (
	"context"

	"github.com/cityguide-blog-api/internal/models"
)

// Notifier announces a new contact submission.
// Implementations must be safe for concurrent use.
type Notifier interface {
	NotifyContact(ctx context.Context, msg *models.ContactMessage) error
}

// NoopNotifier is used when no webhook is configured.
type NoopNotifier struct{}

// NotifyContact does nothing.
func (NoopNotifier) NotifyContact(context.Context, *models.ContactMessage) error {
	return nil
}
