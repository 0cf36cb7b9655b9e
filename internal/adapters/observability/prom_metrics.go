package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Mathieu1704/icare-mvp/internal/ports"
)

type PromObs struct {
	log      *zap.Logger
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

func NewPromObs(log *zap.Logger) *PromObs {
	if log == nil {
		log = zap.NewNop()
	}

	requests := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "icare_chat_requests_total",
		Help: "Total chat requests received.",
	})
	extractionFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "icare_intent_extraction_failures_total",
		Help: "Model outputs that could not be coerced into an intent.",
	})
	unknownIntents := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "icare_unknown_intent_total",
		Help: "Requests answered with a clarification message.",
	})
	disconnected := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "icare_last_disconnected_count",
		Help: "Disconnected sensor count from the most recent status query.",
	})
	storeLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "icare_store_query_latency_seconds",
		Help:    "Latency of the grouped site-status query.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})
	intentLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "icare_intent_latency_seconds",
		Help:    "Latency of intent extraction, inference call included.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
	})

	prometheus.MustRegister(requests, extractionFailures, unknownIntents, disconnected, storeLatency, intentLatency)

	return &PromObs{
		log: log,
		counters: map[string]prometheus.Counter{
			"icare_chat_requests_total":              requests,
			"icare_intent_extraction_failures_total": extractionFailures,
			"icare_unknown_intent_total":             unknownIntents,
		},
		gauges: map[string]prometheus.Gauge{
			"icare_last_disconnected_count": disconnected,
		},
		histos: map[string]prometheus.Observer{
			"icare_store_query_latency_seconds": storeLatency,
			"icare_intent_latency_seconds":      intentLatency,
		},
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	p.log.Info(msg, zapFields(fields)...)
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	p.log.Error(msg, append(zapFields(fields), zap.Error(err))...)
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	p.log.Error(msg, append(zapFields(fields), zap.Error(err), zap.Bool("critical", true))...)
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func zapFields(fields []ports.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+2)
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

var _ ports.Observability = (*PromObs)(nil)
