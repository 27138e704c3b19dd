// Package sink persists the pipeline output tables.
package sink

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/domain"
	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/ports"
)

// PostgresSink writes the invalid-record, transformed, and device-summary
// tables with multi-row inserts. Table names are <prefix>_invalid_records,
// <prefix>_transformed_records, <prefix>_device_summary.
type PostgresSink struct {
	db     *sql.DB
	prefix string
}

func NewPostgresSink(db *sql.DB, tablePrefix string) *PostgresSink {
	if tablePrefix == "" {
		tablePrefix = "nms"
	}
	return &PostgresSink{db: db, prefix: tablePrefix}
}

func (p *PostgresSink) Name() string { return "postgres" }

func (p *PostgresSink) WriteInvalidRecords(records []domain.InvalidRecord) error {
	if len(records) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(p.prefix)
	b.WriteString("_invalid_records (source, record_index, record, reason) VALUES ")

	args := make([]any, 0, len(records)*4)
	for i, r := range records {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(fmt.Sprintf("($%d,$%d,$%d,$%d)",
			len(args)+1, len(args)+2, len(args)+3, len(args)+4))
		fields, err := json.Marshal(r.Record)
		if err != nil {
			return fmt.Errorf("marshal record fields: %w", err)
		}
		args = append(args, string(r.Source), r.RecordIndex, fields, r.Reason)
	}

	_, err := p.db.Exec(b.String(), args...)
	return err
}

func (p *PostgresSink) WriteTransformed(records []domain.TransformedRecord) error {
	if len(records) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(p.prefix)
	b.WriteString("_transformed_records (ts, device, site, vendor, role, if_name, util_in, util_out, oper_status, syslog_severity, syslog_msg) VALUES ")

	args := make([]any, 0, len(records)*11)
	for i, r := range records {
		if i > 0 {
			b.WriteString(",")
		}
		base := len(args)
		placeholders := make([]string, 11)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		b.WriteString("(" + strings.Join(placeholders, ",") + ")")
		args = append(args,
			r.TS, r.Device, r.Site, r.Vendor, r.Role, r.IfName,
			r.UtilIn, r.UtilOut, r.OperStatus,
			nullable(r.SyslogSeverity), nullable(r.SyslogMsg),
		)
	}

	_, err := p.db.Exec(b.String(), args...)
	return err
}

func (p *PostgresSink) WriteSummaries(summaries []domain.DeviceSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(p.prefix)
	b.WriteString("_device_summary (device, avg_utilization, max_utilization, error_count) VALUES ")

	args := make([]any, 0, len(summaries)*4)
	for i, s := range summaries {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(fmt.Sprintf("($%d,$%d,$%d,$%d)",
			len(args)+1, len(args)+2, len(args)+3, len(args)+4))
		args = append(args, s.Device, s.AvgUtilization, s.MaxUtilization, s.ErrorCount)
	}
	b.WriteString(" ON CONFLICT (device) DO UPDATE SET avg_utilization = EXCLUDED.avg_utilization, max_utilization = EXCLUDED.max_utilization, error_count = EXCLUDED.error_count")

	_, err := p.db.Exec(b.String(), args...)
	return err
}

// nullable maps the empty string onto SQL NULL so absent syslog joins stay
// distinguishable from empty messages.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ ports.TableSink = (*PostgresSink)(nil)
