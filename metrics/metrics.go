package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnhub_http_requests_total",
			Help: "Number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "learnhub_http_request_duration_seconds",
			Help:    "Time taken to serve HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	VideoJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnhub_video_jobs_total",
			Help: "Number of finished video jobs by outcome",
		},
		[]string{"status"},
	)

	VideoJobDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "learnhub_video_job_duration_seconds",
			Help:    "Time taken to run the video pipeline",
			Buckets: []float64{1, 5, 10, 30, 60, 300},
		},
	)

	WebhookDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnhub_webhook_deliveries_total",
			Help: "Number of webhook deliveries by event and outcome",
		},
		[]string{"event", "status"},
	)

	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnhub_events_published_total",
			Help: "Number of domain events handed to the event stream",
		},
		[]string{"type", "status"},
	)
)

// Register adds every collector to the default registry. Call once from main.
func Register() {
	prometheus.MustRegister(
		HTTPRequests,
		HTTPDuration,
		VideoJobs,
		VideoJobDuration,
		WebhookDeliveries,
		EventsPublished,
	)
}
