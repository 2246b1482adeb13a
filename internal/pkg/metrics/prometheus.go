package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	// Inference metrics
	inferenceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnosis_inference_total",
			Help: "Inference requests by outcome (ok, stale or an error kind)",
		},
		[]string{"outcome"},
	)

	inferenceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "diagnosis_inference_duration_seconds",
			Help:    "Round trip to the completion backend",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)

	candidatesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "diagnosis_candidates_returned",
			Help:    "Number of candidates in a normalized response",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10},
		},
	)

	// Save / staging metrics
	savesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnosis_saves_total",
			Help: "Save attempts by outcome (saved, staged, failed)",
		},
		[]string{"outcome"},
	)

	flushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pending_flushes_total",
			Help: "Pending selection flushes by outcome",
		},
		[]string{"outcome"},
	)

	historyOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "history_operations_total",
			Help: "History persistence operations",
		},
		[]string{"operation", "status"},
	)
)

// Handler exposes the default registry on a fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

// Middleware records request counts and latency by route template.
func Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		route := ctx.Route().Path

		httpRequestsTotal.WithLabelValues(ctx.Method(), route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(ctx.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// --- Business metric helpers ---

func RecordInference(outcome string, duration time.Duration) {
	inferenceTotal.WithLabelValues(outcome).Inc()
	inferenceDuration.Observe(duration.Seconds())
}

func RecordCandidates(n int) {
	candidatesReturned.Observe(float64(n))
}

func RecordSave(outcome string) {
	savesTotal.WithLabelValues(outcome).Inc()
}

func RecordFlush(outcome string) {
	flushesTotal.WithLabelValues(outcome).Inc()
}

func RecordHistoryOp(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	historyOpsTotal.WithLabelValues(operation, status).Inc()
}
