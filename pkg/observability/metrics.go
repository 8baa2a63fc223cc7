package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// PutMetricDataAPI is the subset of the CloudWatch client used for metrics.
type PutMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics holds the Prometheus collectors of the service and, optionally,
// mirrors enrichment outcomes to CloudWatch.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	EnrichmentItems *prometheus.CounterVec
	EnrichmentQueue prometheus.Gauge

	namespace string
	cw        PutMetricDataAPI
	logger    *zap.Logger
}

// NewMetrics creates a collector set on its own registry. cw may be nil.
func NewMetrics(namespace string, cw PutMetricDataAPI, logger *zap.Logger) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "edutube",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "edutube",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		EnrichmentItems: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "edutube",
				Name:      "enrichment_items_total",
				Help:      "Chapters processed by the enrichment worker, by outcome",
			},
			[]string{"outcome"},
		),
		EnrichmentQueue: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "edutube",
				Name:      "enrichment_queue_depth",
				Help:      "Jobs waiting for the enrichment worker",
			},
		),
		namespace: namespace,
		cw:        cw,
		logger:    logger,
	}

	registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.EnrichmentItems,
		m.EnrichmentQueue,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the Prometheus exposition of this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordEnrichment counts one processed item.
func (m *Metrics) RecordEnrichment(ctx context.Context, outcome string) {
	m.EnrichmentItems.WithLabelValues(outcome).Inc()
	if m.cw == nil {
		return
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String("EnrichmentItems"),
				Dimensions: []types.Dimension{
					{Name: aws.String("Outcome"), Value: aws.String(outcome)},
				},
				Value:     aws.Float64(1),
				Unit:      types.StandardUnitCount,
				Timestamp: aws.Time(time.Now()),
			},
		},
	}
	if _, err := m.cw.PutMetricData(ctx, input); err != nil {
		m.logger.Warn("Failed to send metrics", zap.Error(err))
	}
}

// RecordQueueDepth sets the current enrichment backlog.
func (m *Metrics) RecordQueueDepth(depth int) {
	m.EnrichmentQueue.Set(float64(depth))
}
