package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gallery",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gallery",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s, payments sleep
		},
		[]string{"method", "path"},
	)

	purchases = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gallery",
			Subsystem: "commerce",
			Name:      "purchases_total",
			Help:      "Committed purchases by kind (gallery or item).",
		},
		[]string{"kind"},
	)

	revenue = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gallery",
			Subsystem: "commerce",
			Name:      "revenue_total",
			Help:      "Revenue recorded by purchase kind.",
		},
		[]string{"kind"},
	)

	downloads = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gallery",
			Subsystem: "commerce",
			Name:      "downloads_total",
			Help:      "Downloads by authorized viewers.",
		},
	)

	payouts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gallery",
			Subsystem: "commerce",
			Name:      "payouts_total",
			Help:      "Completed payout requests.",
		},
	)

	payoutAmount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gallery",
			Subsystem: "commerce",
			Name:      "payout_amount_total",
			Help:      "Sum of all paid out balances.",
		},
	)

	uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gallery",
			Subsystem: "storage",
			Name:      "uploads_total",
			Help:      "Upload attempts by media type and result.",
		},
		[]string{"type", "result"},
	)

	storageUsed = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "gallery",
			Subsystem: "storage",
			Name:      "used_megabytes",
			Help:      "Storage used across all media.",
		},
	)

	storageTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "gallery",
			Subsystem: "storage",
			Name:      "quota_gigabytes",
			Help:      "Current storage ceiling.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		purchases,
		revenue,
		downloads,
		payouts,
		payoutAmount,
		uploads,
		storageUsed,
		storageTotal,
	)
}

// Handler exposes the registry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func ObservePurchase(kind string, amount float64) {
	purchases.WithLabelValues(kind).Inc()
	if amount > 0 {
		revenue.WithLabelValues(kind).Add(amount)
	}
}

func ObserveDownload() {
	downloads.Inc()
}

func ObservePayout(amount float64) {
	payouts.Inc()
	if amount > 0 {
		payoutAmount.Add(amount)
	}
}

func ObserveUpload(mediaType string, admitted bool) {
	result := "admitted"
	if !admitted {
		result = "rejected"
	}
	uploads.WithLabelValues(mediaType, result).Inc()
}

func SetStorage(usedMB, totalGB float64) {
	storageUsed.Set(usedMB)
	storageTotal.Set(totalGB)
}
