package monitoring

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	ordersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total orders placed",
		},
	)

	ordersCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_completed_total",
			Help: "Total orders whose payment completed",
		},
	)

	ticketsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Total tickets materialized from completed orders",
		},
	)

	ticketScans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_scans_total",
			Help: "Total scan attempts by outcome",
		},
		[]string{"result"},
	)

	inventoryRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_rejections_total",
			Help: "Payment confirmations rejected for insufficient inventory",
		},
	)

	checkoutDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checkout_duration_seconds",
			Help:    "Duration of payment confirmation including ticket issuance",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	pendingOrders = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pending_orders_total",
			Help: "Orders currently awaiting payment",
		},
	)
)

func TrackOrderCreated() {
	ordersCreated.Inc()
}

func TrackOrderCompleted(tickets int) {
	ordersCompleted.Inc()
	ticketsIssued.Add(float64(tickets))
}

func TrackTicketScan(result string) {
	ticketScans.WithLabelValues(result).Inc()
}

func TrackInventoryRejection() {
	inventoryRejections.Inc()
}

func ObserveCheckout(duration time.Duration) {
	checkoutDuration.Observe(duration.Seconds())
}

// Monitor samples gauge-style metrics that live in redis rather than in
// process memory.
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
		ctx := context.Background()

		count, err := m.redis.SCard(ctx, "orders:pending").Result()
		if err != nil {
			continue
		}
		pendingOrders.Set(float64(count))
	}
}
