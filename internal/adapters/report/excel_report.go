// Package report renders the aggregated tables into a spreadsheet workbook so
// operators without the dashboard toolchain can inspect a run's output.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/domain"
	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/ports"
)

const (
	summarySheet     = "Device Summary"
	transformedSheet = "Transformed Records"
)

// ExcelReport implements ports.ChartSink by writing one sheet per table.
// Devices with a non-zero error count get a highlighted count cell, mirroring
// the color-coded error chart of the dashboard this stands in for.
type ExcelReport struct {
	path string
}

func NewExcelReport(path string) *ExcelReport {
	return &ExcelReport{path: path}
}

func (e *ExcelReport) Name() string { return "excel-report" }

func (e *ExcelReport) Render(summaries []domain.DeviceSummary, transformed []domain.TransformedRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(transformedSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	if err := e.writeSummaries(f, summaries); err != nil {
		return err
	}
	if err := e.writeTransformed(f, transformed); err != nil {
		return err
	}

	if err := f.SaveAs(e.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (e *ExcelReport) writeSummaries(f *excelize.File, summaries []domain.DeviceSummary) error {
	header := []any{"device", "avg_utilization", "max_utilization", "error_count"}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return err
	}

	errStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#C0392B"}},
		Font: &excelize.Font{Color: "FFFFFF", Bold: true},
	})
	if err != nil {
		return fmt.Errorf("error-count style: %w", err)
	}

	for i, s := range summaries {
		cell := fmt.Sprintf("A%d", i+2)
		row := []any{s.Device, s.AvgUtilization, s.MaxUtilization, s.ErrorCount}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
		if s.ErrorCount > 0 {
			countCell := fmt.Sprintf("D%d", i+2)
			if err := f.SetCellStyle(summarySheet, countCell, countCell, errStyle); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *ExcelReport) writeTransformed(f *excelize.File, transformed []domain.TransformedRecord) error {
	header := []any{
		"ts", "device", "site", "vendor", "role", "ifName",
		"util_in", "util_out", "oper_status", "syslog_severity", "syslog_msg",
	}
	if err := f.SetSheetRow(transformedSheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range transformed {
		cell := fmt.Sprintf("A%d", i+2)
		row := []any{
			r.TS, r.Device, r.Site, r.Vendor, r.Role, r.IfName,
			r.UtilIn, r.UtilOut, r.OperStatus, r.SyslogSeverity, r.SyslogMsg,
		}
		if err := f.SetSheetRow(transformedSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

var _ ports.ChartSink = (*ExcelReport)(nil)
