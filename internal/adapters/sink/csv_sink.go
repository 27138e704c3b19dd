package sink

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/domain"
	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/ports"
)

// CSVSink writes invalid_records.csv, transformed_data.csv, and
// device_summary.csv into a directory, creating it on first use.
type CSVSink struct {
	dir string
}

func NewCSVSink(dir string) *CSVSink {
	return &CSVSink{dir: dir}
}

func (c *CSVSink) Name() string { return "csv" }

func (c *CSVSink) WriteInvalidRecords(records []domain.InvalidRecord) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, []string{"source", "record_index", "record", "reason"})
	for _, r := range records {
		fields, err := json.Marshal(r.Record)
		if err != nil {
			return fmt.Errorf("marshal record fields: %w", err)
		}
		rows = append(rows, []string{
			string(r.Source),
			strconv.Itoa(r.RecordIndex),
			string(fields),
			r.Reason,
		})
	}
	return c.writeFile("invalid_records.csv", rows)
}

func (c *CSVSink) WriteTransformed(records []domain.TransformedRecord) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, []string{
		"ts", "device", "site", "vendor", "role", "ifName",
		"util_in", "util_out", "oper_status", "syslog_severity", "syslog_msg",
	})
	for _, r := range records {
		rows = append(rows, []string{
			r.TS, r.Device, r.Site, r.Vendor, r.Role, r.IfName,
			formatFloat(r.UtilIn), formatFloat(r.UtilOut),
			strconv.Itoa(r.OperStatus),
			r.SyslogSeverity, r.SyslogMsg,
		})
	}
	return c.writeFile("transformed_data.csv", rows)
}

func (c *CSVSink) WriteSummaries(summaries []domain.DeviceSummary) error {
	rows := make([][]string, 0, len(summaries)+1)
	rows = append(rows, []string{"device", "avg_utilization", "max_utilization", "error_count"})
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Device,
			strconv.FormatFloat(s.AvgUtilization, 'f', 2, 64),
			strconv.FormatFloat(s.MaxUtilization, 'f', 2, 64),
			strconv.Itoa(s.ErrorCount),
		})
	}
	return c.writeFile("device_summary.csv", rows)
}

func (c *CSVSink) writeFile(name string, rows [][]string) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	file, err := os.Create(filepath.Join(c.dir, name))
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return file.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

var _ ports.TableSink = (*CSVSink)(nil)
