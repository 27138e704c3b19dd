// Package source reads the three raw input collections from disk: CSV for
// device inventory and interface stats, line-delimited JSON for syslog.
package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/domain"
	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/ports"
)

// FileSource implements ports.RecordSource over local files.
//
// Coercion policy: a missing column or a missing JSON key is a hard ingestion
// error. A present-but-unparseable utilization becomes NaN and a status
// becomes 0, so quality control rejects the row with a reason instead of the
// run failing.
type FileSource struct {
	InventoryPath      string
	InterfaceStatsPath string
	SyslogPath         string
}

func NewFileSource(inventory, interfaceStats, syslog string) *FileSource {
	return &FileSource{
		InventoryPath:      inventory,
		InterfaceStatsPath: interfaceStats,
		SyslogPath:         syslog,
	}
}

func (f *FileSource) DeviceInventory(ctx context.Context) ([]domain.DeviceInventory, error) {
	rows, err := readCSV(ctx, f.InventoryPath, []string{"device", "site", "vendor", "role"})
	if err != nil {
		return nil, err
	}
	out := make([]domain.DeviceInventory, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.DeviceInventory{
			Device: r["device"],
			Site:   r["site"],
			Vendor: r["vendor"],
			Role:   r["role"],
		})
	}
	return out, nil
}

func (f *FileSource) InterfaceStats(ctx context.Context) ([]domain.InterfaceStats, error) {
	cols := []string{"ts", "device", "ifName", "util_in", "util_out", "admin_status", "oper_status"}
	rows, err := readCSV(ctx, f.InterfaceStatsPath, cols)
	if err != nil {
		return nil, err
	}
	out := make([]domain.InterfaceStats, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.InterfaceStats{
			TS:          r["ts"],
			Device:      r["device"],
			IfName:      r["ifName"],
			UtilIn:      coerceFloat(r["util_in"]),
			UtilOut:     coerceFloat(r["util_out"]),
			AdminStatus: coerceInt(r["admin_status"]),
			OperStatus:  coerceInt(r["oper_status"]),
		})
	}
	return out, nil
}

func (f *FileSource) Syslog(ctx context.Context) ([]domain.Syslog, error) {
	file, err := os.Open(f.SyslogPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var out []domain.Syslog
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", f.SyslogPath, line, err)
		}
		row := domain.Syslog{}
		for _, key := range []string{"ts", "device", "severity", "message"} {
			v, ok := fields[key]
			if !ok {
				return nil, fmt.Errorf("%s line %d: missing key %q", f.SyslogPath, line, key)
			}
			s := stringify(v)
			switch key {
			case "ts":
				row.TS = s
			case "device":
				row.Device = s
			case "severity":
				row.Severity = s
			case "message":
				row.Message = s
			}
		}
		out = append(out, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func readCSV(ctx context.Context, path string, required []string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", path)
	}

	header := records[0]
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[name] = i
	}
	for _, col := range required {
		if _, ok := pos[col]; !ok {
			return nil, fmt.Errorf("%s: missing required column %q", path, col)
		}
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := make(map[string]string, len(required))
		for _, col := range required {
			i := pos[col]
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func coerceFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func coerceInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		// Accept values written as floats ("1.0") the way pandas reads them.
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil && f == math.Trunc(f) {
			return int(f)
		}
		return 0
	}
	return v
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

var _ ports.RecordSource = (*FileSource)(nil)
