// Package analytics folds the transformed record stream into one summary row
// per device.
package analytics

import (
	"math"

	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/domain"
)

// Summarize computes per-device utilization figures from the transformed
// records and error counts from the full valid-syslog set. Devices appear in
// first-appearance order of the transformed records; devices seen only in
// syslog are excluded, devices without matching error events report 0.
func Summarize(transformed []domain.TransformedRecord, validSyslog []domain.Syslog) []domain.DeviceSummary {
	type acc struct {
		sum   float64
		max   float64
		count int
	}

	accs := make(map[string]*acc)
	order := make([]string, 0)

	for _, rec := range transformed {
		u := (rec.UtilIn + rec.UtilOut) / 2
		a, ok := accs[rec.Device]
		if !ok {
			a = &acc{max: u}
			accs[rec.Device] = a
			order = append(order, rec.Device)
		}
		a.sum += u
		a.count++
		if u > a.max {
			a.max = u
		}
	}

	// Error counts come from the whole valid-syslog set, not from the rows
	// the join happened to attach.
	errorCounts := make(map[string]int)
	for _, row := range validSyslog {
		if row.Severity == domain.SeverityError {
			errorCounts[row.Device]++
		}
	}

	summaries := make([]domain.DeviceSummary, 0, len(order))
	for _, device := range order {
		a := accs[device]
		summaries = append(summaries, domain.DeviceSummary{
			Device:         device,
			AvgUtilization: round2(a.sum / float64(a.count)),
			MaxUtilization: round2(a.max),
			ErrorCount:     errorCounts[device],
		})
	}
	return summaries
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
