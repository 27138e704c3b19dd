// Package pipeline sequences ingestion, quality control, correlation, and
// aggregation over one set of inputs and fans the output tables out to sinks.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/app/analytics"
	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/app/correlate"
	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/app/qc"
	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/domain"
	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/ports"
)

// Options tune a single pipeline run.
type Options struct {
	Window  time.Duration
	Workers int
}

// Report is the structured result of one run. Counts replace the original
// orchestrator's progress printing; the caller logs whatever it cares about.
type Report struct {
	RunID string

	InventoryRows      int
	InterfaceStatRows  int
	SyslogRows         int
	ValidInterfaceRows int
	ValidSyslogRows    int
	InvalidRows        int
	TransformedRows    int
	MatchedRows        int
	SummaryRows        int

	StageDurations map[string]time.Duration

	Invalid     []domain.InvalidRecord
	Transformed []domain.TransformedRecord
	Summaries   []domain.DeviceSummary
}

// Run executes one full pass: ingest → QC → correlate → summarize → persist.
// Table-sink failures abort the run after being logged; chart-sink failures
// are logged and ignored since no core behavior depends on rendering.
func Run(ctx context.Context, src ports.RecordSource, sinks []ports.TableSink, charts []ports.ChartSink, obs ports.Observability, opts Options) (*Report, error) {
	rep := &Report{
		RunID:          uuid.NewString(),
		StageDurations: make(map[string]time.Duration),
	}

	// 1. Ingest
	start := time.Now()
	inventory, err := src.DeviceInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("ingest device inventory: %w", err)
	}
	ifStats, err := src.InterfaceStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("ingest interface stats: %w", err)
	}
	syslog, err := src.Syslog(ctx)
	if err != nil {
		return nil, fmt.Errorf("ingest syslog: %w", err)
	}
	rep.StageDurations["ingest"] = time.Since(start)
	rep.InventoryRows = len(inventory)
	rep.InterfaceStatRows = len(ifStats)
	rep.SyslogRows = len(syslog)
	obs.IncCounter("pipeline_records_ingested_total", float64(len(ifStats)+len(syslog)))
	obs.ObserveLatency("pipeline_stage_seconds", rep.StageDurations["ingest"].Seconds())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 2. Quality control
	start = time.Now()
	qcRes := qc.Validate(ifStats, syslog, inventory)
	rep.StageDurations["qc"] = time.Since(start)
	rep.ValidInterfaceRows = len(qcRes.ValidInterfaceStats)
	rep.ValidSyslogRows = len(qcRes.ValidSyslog)
	rep.InvalidRows = len(qcRes.Invalid)
	rep.Invalid = qcRes.Invalid
	obs.IncCounter("pipeline_records_invalid_total", float64(len(qcRes.Invalid)))
	obs.ObserveLatency("pipeline_stage_seconds", rep.StageDurations["qc"].Seconds())

	// 3. Correlation join
	start = time.Now()
	rep.Transformed = correlate.Run(qcRes.ValidInterfaceStats, qcRes.ValidSyslog, inventory, correlate.Options{
		Window:  opts.Window,
		Workers: opts.Workers,
	})
	rep.StageDurations["correlate"] = time.Since(start)
	rep.TransformedRows = len(rep.Transformed)
	for _, rec := range rep.Transformed {
		if rec.HasSyslog() {
			rep.MatchedRows++
		}
	}
	obs.IncCounter("pipeline_records_transformed_total", float64(rep.TransformedRows))
	obs.IncCounter("pipeline_syslog_matches_total", float64(rep.MatchedRows))
	obs.ObserveLatency("pipeline_stage_seconds", rep.StageDurations["correlate"].Seconds())

	// 4. Aggregation
	start = time.Now()
	rep.Summaries = analytics.Summarize(rep.Transformed, qcRes.ValidSyslog)
	rep.StageDurations["summarize"] = time.Since(start)
	rep.SummaryRows = len(rep.Summaries)
	obs.SetGauge("pipeline_devices_summarized", float64(rep.SummaryRows))
	obs.ObserveLatency("pipeline_stage_seconds", rep.StageDurations["summarize"].Seconds())

	if err := ctx.Err(); err != nil {
		return rep, err
	}

	// 5. Persist
	for _, s := range sinks {
		if err := writeTables(s, rep); err != nil {
			obs.LogError("sink_write_failed", err, ports.Field{Key: "sink", Value: s.Name()})
			return rep, fmt.Errorf("sink %s: %w", s.Name(), err)
		}
		obs.LogInfo("tables_persisted", ports.Field{Key: "sink", Value: s.Name()})
	}

	for _, c := range charts {
		if err := c.Render(rep.Summaries, rep.Transformed); err != nil {
			obs.LogError("chart_render_failed", err, ports.Field{Key: "chart", Value: c.Name()})
		}
	}

	obs.LogInfo("pipeline_complete",
		ports.Field{Key: "run_id", Value: rep.RunID},
		ports.Field{Key: "transformed", Value: rep.TransformedRows},
		ports.Field{Key: "invalid", Value: rep.InvalidRows},
		ports.Field{Key: "devices", Value: rep.SummaryRows},
	)
	return rep, nil
}

func writeTables(s ports.TableSink, rep *Report) error {
	if err := s.WriteInvalidRecords(rep.Invalid); err != nil {
		return fmt.Errorf("invalid records: %w", err)
	}
	if err := s.WriteTransformed(rep.Transformed); err != nil {
		return fmt.Errorf("transformed records: %w", err)
	}
	if err := s.WriteSummaries(rep.Summaries); err != nil {
		return fmt.Errorf("device summaries: %w", err)
	}
	return nil
}
