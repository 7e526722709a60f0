package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PoolsCreated   = promauto.NewCounter(prometheus.CounterOpts{Namespace: "omnipath", Name: "pools_created_total", Help: "Total pools created"})
	PoolsConfirmed = promauto.NewCounter(prometheus.CounterOpts{Namespace: "omnipath", Name: "pools_confirmed_total", Help: "Total pools auto-confirmed"})
	CrowdReports   = promauto.NewCounter(prometheus.CounterOpts{Namespace: "omnipath", Name: "crowd_reports_total", Help: "Total crowd reports blended"})
	SOSActivations = promauto.NewCounter(prometheus.CounterOpts{Namespace: "omnipath", Name: "sos_activations_total", Help: "Total SOS cases activated"})
	WSSessions     = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "omnipath", Name: "ws_sessions", Help: "Connected realtime sessions"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "omnipath", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "omnipath",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
