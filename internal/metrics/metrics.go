package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobtrack_store_loads_total",
			Help: "Document loads by result (ok, empty, fallback)",
		},
		[]string{"result"},
	)

	StoreSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobtrack_store_saves_total",
			Help: "Document saves by result (ok, error)",
		},
		[]string{"result"},
	)

	RecordMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobtrack_record_mutations_total",
			Help: "Record mutations by kind and operation",
		},
		[]string{"kind", "op"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobtrack_http_requests_total",
			Help: "HTTP requests by route pattern and status code",
		},
		[]string{"route", "code"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobtrack_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)
