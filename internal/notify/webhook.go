package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cityguide-blog-api/internal/models"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ErrCircuitOpen is returned while the breaker rejects deliveries
var ErrCircuitOpen = errors.New("notify: webhook circuit open")

// StatusError is returned for a non-2xx webhook response
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("notify: webhook returned %d: %s", e.StatusCode, e.Body)
}

// WebhookOptions tunes a WebhookNotifier
type WebhookOptions struct {
	URL     string
	Timeout time.Duration

	// RequestsPerSecond and Burst bound outgoing deliveries.
	RequestsPerSecond float64
	Burst             int

	// Breaker trips once FailureRatio of at least MinRequests calls fail
	// within Interval, and stays open for OpenTimeout.
	FailureRatio float64
	MinRequests  uint32
	Interval     time.Duration
	OpenTimeout  time.Duration
}

// DefaultWebhookOptions returns the production settings for url
func DefaultWebhookOptions(url string, timeout time.Duration) WebhookOptions {
	return WebhookOptions{
		URL:               url,
		Timeout:           timeout,
		RequestsPerSecond: 1,
		Burst:             3,
		FailureRatio:      0.6,
		MinRequests:       3,
		Interval:          time.Minute,
		OpenTimeout:       2 * time.Minute,
	}
}

// WebhookNotifier posts each submission as JSON to a webhook URL
type WebhookNotifier struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// NewWebhookNotifier creates a WebhookNotifier
func NewWebhookNotifier(opts WebhookOptions, log zerolog.Logger) *WebhookNotifier {
	if opts.Burst < 1 {
		opts.Burst = 1
	}
	logger := log.With().Str("component", "contact_webhook").Logger()

	settings := gobreaker.Settings{
		Name:        "contact-webhook",
		MaxRequests: 1,
		Interval:    opts.Interval,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < opts.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= opts.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	}

	return &WebhookNotifier{
		url:     opts.URL,
		client:  &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		breaker: gobreaker.NewCircuitBreaker(settings),
		log:     logger,
	}
}

type webhookPayload struct {
	Text    string                 `json:"text"`
	Contact *models.ContactMessage `json:"contact"`
}

// NotifyContact posts msg to the webhook
func (n *WebhookNotifier) NotifyContact(ctx context.Context, msg *models.ContactMessage) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	_, err := n.breaker.Execute(func() (interface{}, error) {
		return nil, n.post(ctx, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}

func (n *WebhookNotifier) post(ctx context.Context, msg *models.ContactMessage) error {
	body, err := json.Marshal(webhookPayload{
		Text:    fmt.Sprintf("New contact message from %s <%s>: %s", msg.Name, msg.Email, msg.Subject),
		Contact: msg,
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
}
