package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/ports"
)

// Obs implements ports.Observability with a zap logger and a private
// Prometheus registry, so repeated construction in tests never collides on
// metric registration.
type Obs struct {
	log      *zap.Logger
	registry *prometheus.Registry
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

func New(log *zap.Logger) *Obs {
	if log == nil {
		log = zap.NewNop()
	}

	ingested := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_records_ingested_total",
		Help: "Raw interface-stat and syslog rows read from the record source.",
	})
	invalid := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_records_invalid_total",
		Help: "Rows rejected by quality control.",
	})
	transformed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_records_transformed_total",
		Help: "Records produced by the correlation join.",
	})
	matches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_syslog_matches_total",
		Help: "Transformed records that carry a correlated syslog event.",
	})
	devices := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pipeline_devices_summarized",
		Help: "Devices present in the last run's summary table.",
	})
	stageLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pipeline_stage_seconds",
		Help:    "Wall time per pipeline stage.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(ingested, invalid, transformed, matches, devices, stageLatency)

	return &Obs{
		log:      log,
		registry: reg,
		counters: map[string]prometheus.Counter{
			"pipeline_records_ingested_total":    ingested,
			"pipeline_records_invalid_total":     invalid,
			"pipeline_records_transformed_total": transformed,
			"pipeline_syslog_matches_total":      matches,
		},
		gauges: map[string]prometheus.Gauge{
			"pipeline_devices_summarized": devices,
		},
		histos: map[string]prometheus.Observer{
			"pipeline_stage_seconds": stageLatency,
		},
	}
}

// Registry exposes the metric registry for promhttp handlers.
func (o *Obs) Registry() *prometheus.Registry { return o.registry }

func (o *Obs) LogInfo(msg string, fields ...ports.Field) {
	o.log.Info(msg, zapFields(fields)...)
}

func (o *Obs) LogError(msg string, err error, fields ...ports.Field) {
	o.log.Error(msg, append(zapFields(fields), zap.Error(err))...)
}

func (o *Obs) IncCounter(name string, v float64) {
	if c, ok := o.counters[name]; ok {
		c.Add(v)
	}
}

func (o *Obs) ObserveLatency(name string, seconds float64) {
	if h, ok := o.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (o *Obs) SetGauge(name string, v float64) {
	if g, ok := o.gauges[name]; ok {
		g.Set(v)
	}
}

func zapFields(fields []ports.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

var _ ports.Observability = (*Obs)(nil)
