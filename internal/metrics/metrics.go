package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailhub_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trailhub_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	EventsTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailhub_events_tracked_total",
			Help: "Tracked interaction events by type",
		},
		[]string{"event_type"},
	)

	CheckIns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trailhub_checkins_total",
			Help: "Successful trail pin check-ins",
		},
	)

	CatalogCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trailhub_catalog_cache_hits_total",
			Help: "Pin list requests served from the catalog cache",
		},
	)

	CatalogCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trailhub_catalog_cache_misses_total",
			Help: "Pin list requests that went to the store",
		},
	)
)

// RecordAPIRequest records one served request. route is the registered path
// pattern, not the raw URL, to keep label cardinality bounded.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusClass(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// knownEvents bounds the event_type label. Anything a client sends outside
// this set is counted as "other".
var knownEvents = map[string]bool{
	"page_view":     true,
	"qr_scan":       true,
	"photo_upload":  true,
	"pin_click":     true,
	"pin_complete":  true,
	"vendor_rating": true,
	"post_like":     true,
	"csv_export":    true,
}

func RecordEvent(eventType string) {
	if !knownEvents[eventType] {
		eventType = "other"
	}
	EventsTracked.WithLabelValues(eventType).Inc()
}

func RecordCatalogCache(hit bool) {
	if hit {
		CatalogCacheHits.Inc()
		return
	}
	CatalogCacheMisses.Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
