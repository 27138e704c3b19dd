// Package qc partitions raw telemetry rows into valid and invalid sets.
//
// Rules never panic on malformed values: a utilization carried as NaN or a
// status outside {1,2} fails its check and lands in the audit table with a
// reason, exactly like any other out-of-range value.
package qc

import (
	"math"
	"strings"

	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/domain"
)

// Violated-rule names, in the order checks run. Reasons for one record are
// joined with ReasonSeparator preserving this order.
const (
	ReasonDeviceNotInInventory = "device_not_in_inventory"
	ReasonInvalidTimestamp     = "invalid_timestamp"
	ReasonInvalidUtilIn        = "invalid_util_in"
	ReasonInvalidUtilOut       = "invalid_util_out"
	ReasonInvalidOperStatus    = "invalid_oper_status"

	ReasonSeparator = "; "
)

// Result carries the partitioned output of one validation pass. Valid slices
// preserve the original positional order of their inputs.
type Result struct {
	ValidInterfaceStats []domain.InterfaceStats
	ValidSyslog         []domain.Syslog
	Invalid             []domain.InvalidRecord
}

// Validate checks every interface-stat and syslog row against the device
// inventory, timestamp format, and numeric rules. Rows failing at least one
// check are excluded from the valid sets by original index; a row accumulates
// every violation it triggers but produces a single invalid record.
func Validate(ifStats []domain.InterfaceStats, syslog []domain.Syslog, inventory []domain.DeviceInventory) Result {
	known := make(map[string]struct{}, len(inventory))
	for _, d := range inventory {
		known[d.Device] = struct{}{}
	}

	res := Result{
		ValidInterfaceStats: make([]domain.InterfaceStats, 0, len(ifStats)),
		ValidSyslog:         make([]domain.Syslog, 0, len(syslog)),
	}

	for i, row := range ifStats {
		reasons := checkInterfaceStats(row, known)
		if len(reasons) == 0 {
			res.ValidInterfaceStats = append(res.ValidInterfaceStats, row)
			continue
		}
		res.Invalid = append(res.Invalid, domain.InvalidRecord{
			Source:      domain.SourceInterfaceStats,
			RecordIndex: i,
			Record:      row.Fields(),
			Reason:      strings.Join(reasons, ReasonSeparator),
		})
	}

	for i, row := range syslog {
		reasons := checkSyslog(row, known)
		if len(reasons) == 0 {
			res.ValidSyslog = append(res.ValidSyslog, row)
			continue
		}
		res.Invalid = append(res.Invalid, domain.InvalidRecord{
			Source:      domain.SourceSyslog,
			RecordIndex: i,
			Record:      row.Fields(),
			Reason:      strings.Join(reasons, ReasonSeparator),
		})
	}

	return res
}

func checkInterfaceStats(row domain.InterfaceStats, known map[string]struct{}) []string {
	var reasons []string
	if _, ok := known[row.Device]; !ok {
		reasons = append(reasons, ReasonDeviceNotInInventory)
	}
	if !domain.ValidTimestamp(row.TS) {
		reasons = append(reasons, ReasonInvalidTimestamp)
	}
	if !validUtilization(row.UtilIn) {
		reasons = append(reasons, ReasonInvalidUtilIn)
	}
	if !validUtilization(row.UtilOut) {
		reasons = append(reasons, ReasonInvalidUtilOut)
	}
	if !validOperStatus(row.OperStatus) {
		reasons = append(reasons, ReasonInvalidOperStatus)
	}
	return reasons
}

func checkSyslog(row domain.Syslog, known map[string]struct{}) []string {
	var reasons []string
	if _, ok := known[row.Device]; !ok {
		reasons = append(reasons, ReasonDeviceNotInInventory)
	}
	if !domain.ValidTimestamp(row.TS) {
		reasons = append(reasons, ReasonInvalidTimestamp)
	}
	return reasons
}

// validUtilization accepts numeric values in the closed range [0,100].
// NaN marks a missing or non-numeric input value.
func validUtilization(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}

func validOperStatus(v int) bool {
	return v == 1 || v == 2
}
