package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cityguide-blog-api/internal/models"
	"github.com/rs/zerolog"
)

func testMessage() *models.ContactMessage {
	return &models.ContactMessage{
		ID:      "c-1",
		Name:    "Asha",
		Email:   "asha@example.com",
		Subject: "Metro timings",
		Message: "Is the purple line open late on Sundays?",
		Status:  models.ContactStatusNew,
	}
}

func testOptions(url string) WebhookOptions {
	opts := DefaultWebhookOptions(url, time.Second)
	opts.RequestsPerSecond = 1000
	opts.Burst = 100
	return opts
}

func TestWebhookNotifier_PostsJSON(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected application/json, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Decode payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(testOptions(srv.URL), zerolog.Nop())
	if err := n.NotifyContact(context.Background(), testMessage()); err != nil {
		t.Fatalf("NotifyContact failed: %v", err)
	}

	if got.Contact == nil {
		t.Fatal("Expected contact in payload")
	}
	if got.Contact.ID != "c-1" {
		t.Errorf("Expected contact c-1, got %s", got.Contact.ID)
	}
	for _, want := range []string{"asha@example.com", "Metro timings"} {
		if !strings.Contains(got.Text, want) {
			t.Errorf("Expected text to mention %q, got %q", want, got.Text)
		}
	}
}

func TestWebhookNotifier_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad payload"))
	}))
	defer srv.Close()

	n := NewWebhookNotifier(testOptions(srv.URL), zerolog.Nop())
	err := n.NotifyContact(context.Background(), testMessage())

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", statusErr.StatusCode)
	}
	if statusErr.Body != "bad payload" {
		t.Errorf("Expected body 'bad payload', got %q", statusErr.Body)
	}
}

func TestWebhookNotifier_BreakerOpensAfterFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	opts := testOptions(srv.URL)
	opts.MinRequests = 3
	opts.FailureRatio = 0.5
	n := NewWebhookNotifier(opts, zerolog.Nop())

	for i := 0; i < 3; i++ {
		err := n.NotifyContact(context.Background(), testMessage())
		if err == nil || errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("Call %d: expected a delivery error, got %v", i, err)
		}
	}

	if err := n.NotifyContact(context.Background(), testMessage()); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
	if c := atomic.LoadInt32(&calls); c != 3 {
		t.Errorf("Expected 3 webhook calls, got %d", c)
	}
}

func TestWebhookNotifier_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	opts := testOptions(srv.URL)
	opts.RequestsPerSecond = 0.001
	opts.Burst = 1
	n := NewWebhookNotifier(opts, zerolog.Nop())

	if err := n.NotifyContact(context.Background(), testMessage()); err != nil {
		t.Fatalf("NotifyContact failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := n.NotifyContact(ctx, testMessage()); err == nil {
		t.Error("Expected an error once the rate limiter wait outlives the context")
	}
}

func TestNoopNotifier(t *testing.T) {
	var n Notifier = NoopNotifier{}
	if err := n.NotifyContact(context.Background(), testMessage()); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}
