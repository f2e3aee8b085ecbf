package monitoring

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	webhookRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Webhook deliveries by pipeline outcome",
		},
		[]string{"outcome"},
	)

	webhookDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webhook_processing_seconds",
			Help:    "End-to-end webhook handling duration",
			Buckets: prometheus.DefBuckets,
		},
	)

	ticketsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Tickets minted per event",
		},
		[]string{"event_id"},
	)

	capacityAnomalies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capacity_anomalies_total",
			Help: "Paid transactions that could not be issued per event",
		},
		[]string{"event_id"},
	)

	rateLimitKeys = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "webhook_rate_limit_keys_total",
			Help: "Source IPs currently tracked by the rate limiter",
		},
	)
)

type Monitor struct {
	redis *redis.Client
}

func NewMonitor(redisClient *redis.Client) *Monitor {
	monitor := &Monitor{redis: redisClient}

	go monitor.collectMetrics()

	return monitor
}

func (m *Monitor) collectMetrics() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.collectRateLimitMetrics(context.Background())
	}
}

func (m *Monitor) collectRateLimitMetrics(ctx context.Context) {
	keys, err := m.redis.Keys(ctx, "ratelimit:webhook:*").Result()
	if err != nil {
		return
	}
	rateLimitKeys.Set(float64(len(keys)))
}

// TrackWebhook counts one handled delivery by outcome
// (processed, duplicate, forbidden, unauthorized, rejected, ...).
func (m *Monitor) TrackWebhook(outcome string) {
	webhookRequests.WithLabelValues(outcome).Inc()
}

func (m *Monitor) ObserveProcessing(d time.Duration) {
	webhookDuration.Observe(d.Seconds())
}

func (m *Monitor) TrackTicketsIssued(eventID string, count int) {
	ticketsIssued.WithLabelValues(eventID).Add(float64(count))
}

func (m *Monitor) TrackCapacityAnomaly(eventID string) {
	capacityAnomalies.WithLabelValues(eventID).Inc()
}
