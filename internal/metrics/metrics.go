package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Métricas técnicas
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	ResponseTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_response_time_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: []float64{0.1, 0.5, 1, 2, 5},
	}, []string{"method", "path"})

	// Métricas de negocio
	ShipmentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipments_created_total",
		Help: "Total number of shipments created",
	})

	TransfersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transfers_created_total",
		Help: "Total number of money transfers created",
	})

	NotificationsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_emitted_total",
		Help: "Total number of notifications written",
	})
)
