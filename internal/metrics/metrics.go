package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/totegamma/apub-playground"
)

// Metrics holds the node's Prometheus collectors.
type Metrics struct {
	ResolveTotal    *prometheus.CounterVec
	ResolveDuration *prometheus.HistogramVec
	InboundTotal    *prometheus.CounterVec
}

// New creates and registers all collectors on registry, or on the default
// registerer when registry is nil.
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		ResolveTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "apub_resolve_total",
			Help: "Object resolutions by kind, source and outcome",
		}, []string{"kind", "source", "outcome"}),
		ResolveDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "apub_resolve_duration_seconds",
			Help:    "Time spent resolving objects",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind", "source"}),
		InboundTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "apub_inbound_total",
			Help: "Inbound federation deliveries by kind and outcome",
		}, []string{"kind", "outcome"}),
	}
}

func (m *Metrics) ObserveResolve(kind, source string, err error, elapsed time.Duration) {
	m.ResolveTotal.WithLabelValues(kind, source, Outcome(err)).Inc()
	m.ResolveDuration.WithLabelValues(kind, source).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveInbound(kind string, err error) {
	m.InboundTotal.WithLabelValues(kind, Outcome(err)).Inc()
}

// Outcome classifies err into a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apub.ErrNotFound):
		return "not_found"
	case errors.Is(err, apub.ErrFetchFailed):
		return "fetch_failed"
	case errors.Is(err, apub.ErrDecodeFailed):
		return "decode_failed"
	case errors.Is(err, apub.ErrValidationFailed):
		return "validation_failed"
	case errors.Is(err, apub.ErrInvalidAddress):
		return "invalid_address"
	default:
		return "error"
	}
}

var _ apub.Observer = (*Metrics)(nil)
