// Package netpipe is the embeddable entry point of the telemetry pipeline.
// Callers load a config, optionally override any dependency, and run one pass:
//
//	runner, err := netpipe.Load("config.yaml", netpipe.WithChartSink(mySink))
//	report, err := runner.Run(ctx)
package netpipe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/adapters/observability"
	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/adapters/report"
	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/adapters/sink"
	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/adapters/source"
	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/app/config"
	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/app/pipeline"
	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/domain"
	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/ports"
)

// ErrNilConfig is returned when a Runner is built without a configuration.
var ErrNilConfig = errors.New("netpipe: config is required")

// Config and Report are re-exported so embedders need only this package.
type (
	Config = config.Config
	Report = pipeline.Report
)

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// Option overrides one dependency of a Runner.
type Option func(*overrides)

type overrides struct {
	source ports.RecordSource
	sinks  []ports.TableSink
	charts []ports.ChartSink
	obs    ports.Observability
	logger *zap.Logger
}

// WithSource replaces the default file-based record source.
func WithSource(src ports.RecordSource) Option {
	return func(o *overrides) { o.source = src }
}

// WithTableSink adds a persistence sink alongside the defaults.
func WithTableSink(s ports.TableSink) Option {
	return func(o *overrides) {
		if s != nil {
			o.sinks = append(o.sinks, s)
		}
	}
}

// WithChartSink adds a visualization sink alongside the defaults.
func WithChartSink(c ports.ChartSink) Option {
	return func(o *overrides) {
		if c != nil {
			o.charts = append(o.charts, c)
		}
	}
}

// WithObservability plugs in a custom metrics/logging backend.
func WithObservability(obs ports.Observability) Option {
	return func(o *overrides) { o.obs = obs }
}

// WithLogger sets the zap logger used by the default observability backend.
func WithLogger(log *zap.Logger) Option {
	return func(o *overrides) { o.logger = log }
}

// ChartFunc receives the aggregated tables of one run.
type ChartFunc func(summaries []domain.DeviceSummary, transformed []domain.TransformedRecord) error

// NewCallbackChartSink adapts a plain function into a ports.ChartSink so
// embedders can receive the aggregated tables without defining a type.
func NewCallbackChartSink(name string, fn ChartFunc) ports.ChartSink {
	if name == "" {
		name = "callback"
	}
	return &callbackChart{name: name, fn: fn}
}

type callbackChart struct {
	name string
	fn   ChartFunc
}

func (c *callbackChart) Render(summaries []domain.DeviceSummary, transformed []domain.TransformedRecord) error {
	if c.fn == nil {
		return fmt.Errorf("callback chart sink %q: nil handler", c.name)
	}
	return c.fn(summaries, transformed)
}

func (c *callbackChart) Name() string { return c.name }

// Runner wires sources, sinks, and observability for repeated pipeline runs.
type Runner struct {
	cfg    *config.Config
	source ports.RecordSource
	sinks  []ports.TableSink
	charts []ports.ChartSink
	obs    ports.Observability
	db     *sql.DB
}

// Load builds a Runner from a YAML config file.
func Load(path string, opts ...Option) (*Runner, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return New(cfg, opts...)
}

// New builds a Runner with default adapters: a file source from the configured
// input paths, a CSV sink into the output directory, a Postgres sink when a
// connection string is set, and an Excel report when a report path is set.
func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	var o overrides
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	r := &Runner{cfg: cfg}

	r.obs = o.obs
	if r.obs == nil {
		r.obs = observability.New(o.logger)
	}

	r.source = o.source
	if r.source == nil {
		r.source = source.NewFileSource(cfg.Inputs.DeviceInventory, cfg.Inputs.InterfaceStats, cfg.Inputs.Syslog)
	}

	r.sinks = append(r.sinks, sink.NewCSVSink(cfg.Outputs.Dir))
	if cfg.Postgres.ConnString != "" {
		db, err := sql.Open("postgres", cfg.Postgres.ConnString)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		r.db = db
		r.sinks = append(r.sinks, sink.NewPostgresSink(db, cfg.Postgres.TablePrefix))
	}
	r.sinks = append(r.sinks, o.sinks...)

	if cfg.Outputs.Report != "" {
		r.charts = append(r.charts, report.NewExcelReport(cfg.Outputs.Report))
	}
	r.charts = append(r.charts, o.charts...)

	return r, nil
}

// Run executes one pipeline pass. When a metrics address is configured and the
// default observability backend is in use, a Prometheus endpoint is served for
// the duration of the run.
func (r *Runner) Run(ctx context.Context) (*pipeline.Report, error) {
	srv := r.startMetrics()
	if srv != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	return pipeline.Run(ctx, r.source, r.sinks, r.charts, r.obs, pipeline.Options{
		Window:  r.cfg.Correlate.Window,
		Workers: r.cfg.Correlate.Workers,
	})
}

// Close releases the database handle, if any.
func (r *Runner) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Runner) startMetrics() *http.Server {
	if r.cfg.Metrics.Addr == "" {
		return nil
	}
	obs, ok := r.obs.(*observability.Obs)
	if !ok {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(obs.Registry(), promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: r.cfg.Metrics.Addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.obs.LogError("metrics_server_failed", err)
		}
	}()
	return srv
}
