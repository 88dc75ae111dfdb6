// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cityguide"

var (
	// articlesCreated counts stored articles by input shape.
	articlesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_created_total",
			Help:      "Articles created, by source (form, markdown_file, html_file)",
		},
		[]string{"source"},
	)

	articlesUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_updated_total",
			Help:      "Partial article updates applied",
		},
	)

	articlesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_deleted_total",
			Help:      "Articles removed",
		},
	)

	// slugCollisions counts slugs that needed a suffix.
	slugCollisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slug_collisions_total",
			Help:      "Generated slugs that collided with an existing article",
		},
		[]string{"operation", "stage"}, // stage: check | insert
	)

	renderFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_failures_total",
			Help:      "Markdown sources that could not be rendered",
		},
	)

	authAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Admin authentication attempts by operation and result",
		},
		[]string{"operation", "result"},
	)

	contactNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contact_notifications_total",
			Help:      "Contact notification deliveries by result",
		},
		[]string{"result"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)
)

// RecordArticleCreated records a stored article.
func RecordArticleCreated(source string) {
	articlesCreated.WithLabelValues(source).Inc()
}

// RecordArticleUpdated records an applied update.
func RecordArticleUpdated() {
	articlesUpdated.Inc()
}

// RecordArticlesDeleted records n removed articles.
func RecordArticlesDeleted(n int64) {
	if n > 0 {
		articlesDeleted.Add(float64(n))
	}
}

// RecordSlugCollision records a slug that had to be disambiguated.
func RecordSlugCollision(operation, stage string) {
	slugCollisions.WithLabelValues(operation, stage).Inc()
}

// RecordRenderFailure records a Markdown conversion failure.
func RecordRenderFailure() {
	renderFailures.Inc()
}

// RecordAuthAttempt records a login, registration or password change.
func RecordAuthAttempt(operation, result string) {
	authAttempts.WithLabelValues(operation, result).Inc()
}

// RecordContactNotification records a notifier outcome.
func RecordContactNotification(result string) {
	contactNotifications.WithLabelValues(result).Inc()
}

// RecordHTTPRequest records one served request. route is the matched
// pattern, not the raw path, to keep label cardinality bounded.
func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
