package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors exported on /metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests *prometheus.HistogramVec
	listings *prometheus.CounterVec
	media    *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	requests := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	listings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "listing_mutations_total",
		Help: "Committed listing mutations by operation.",
	}, []string{"op"})
	media := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "listing_media_stored_total",
		Help: "Listing media objects written to storage by type.",
	}, []string{"type"})
	reg.MustRegister(requests, listings, media)
	return &Metrics{requests: requests, listings: listings, media: media}
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// IncListing counts a create, update or delete.
func (m *Metrics) IncListing(op string) {
	if m == nil || m.listings == nil {
		return
	}
	m.listings.WithLabelValues(op).Inc()
}

func (m *Metrics) AddMedia(kind string, n int) {
	if m == nil || m.media == nil || n <= 0 {
		return
	}
	m.media.WithLabelValues(kind).Add(float64(n))
}
