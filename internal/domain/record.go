package domain

import (
	"strconv"
)

// Source identifies which input collection an invalid record came from.
type Source string

const (
	SourceInterfaceStats Source = "interface_stats"
	SourceSyslog         Source = "syslog"
)

// SeverityError is the syslog severity counted by device-level analytics.
const SeverityError = "ERROR"

// DeviceInventory is one row of the authoritative device list.
type DeviceInventory struct {
	Device string `json:"device"`
	Site   string `json:"site"`
	Vendor string `json:"vendor"`
	Role   string `json:"role"`
}

// InterfaceStats is one raw utilization sample as ingested. Validity is a QC
// concern; nothing is enforced at construction. Utilization fields that were
// missing or non-numeric in the input are carried as NaN, status fields as 0,
// so quality control can reject them with a reason instead of ingestion failing.
type InterfaceStats struct {
	TS          string  `json:"ts"`
	Device      string  `json:"device"`
	IfName      string  `json:"ifName"`
	UtilIn      float64 `json:"util_in"`
	UtilOut     float64 `json:"util_out"`
	AdminStatus int     `json:"admin_status"`
	OperStatus  int     `json:"oper_status"`
}

// Fields returns the original field values keyed by column name, for the
// invalid-record audit trail.
func (s InterfaceStats) Fields() map[string]string {
	return map[string]string{
		"ts":           s.TS,
		"device":       s.Device,
		"ifName":       s.IfName,
		"util_in":      strconv.FormatFloat(s.UtilIn, 'g', -1, 64),
		"util_out":     strconv.FormatFloat(s.UtilOut, 'g', -1, 64),
		"admin_status": strconv.Itoa(s.AdminStatus),
		"oper_status":  strconv.Itoa(s.OperStatus),
	}
}

// Syslog is one raw syslog event as ingested.
type Syslog struct {
	TS       string `json:"ts"`
	Device   string `json:"device"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

func (s Syslog) Fields() map[string]string {
	return map[string]string{
		"ts":       s.TS,
		"device":   s.Device,
		"severity": s.Severity,
		"message":  s.Message,
	}
}

// InvalidRecord is the audit artifact for one rejected input row. RecordIndex
// is the 0-based position in the row's original input collection; Reason is
// the ordered list of violated rule names joined with "; ".
type InvalidRecord struct {
	Source      Source            `json:"source"`
	RecordIndex int               `json:"record_index"`
	Record      map[string]string `json:"record"`
	Reason      string            `json:"reason"`
}

// TransformedRecord is one interface-stat sample joined with device metadata
// and at most one correlated syslog event. SyslogSeverity and SyslogMsg are
// either both set or both empty.
type TransformedRecord struct {
	TS             string  `json:"ts"`
	Device         string  `json:"device"`
	Site           string  `json:"site"`
	Vendor         string  `json:"vendor"`
	Role           string  `json:"role"`
	IfName         string  `json:"ifName"`
	UtilIn         float64 `json:"util_in"`
	UtilOut        float64 `json:"util_out"`
	OperStatus     int     `json:"oper_status"`
	SyslogSeverity string  `json:"syslog_severity,omitempty"`
	SyslogMsg      string  `json:"syslog_msg,omitempty"`
}

// HasSyslog reports whether a syslog event was correlated with this sample.
func (t TransformedRecord) HasSyslog() bool {
	return t.SyslogSeverity != "" || t.SyslogMsg != ""
}

// DeviceSummary is one row of the per-device analytics table. Utilization
// figures are rounded to 2 decimal places, half away from zero.
type DeviceSummary struct {
	Device         string  `json:"device"`
	AvgUtilization float64 `json:"avg_utilization"`
	MaxUtilization float64 `json:"max_utilization"`
	ErrorCount     int     `json:"error_count"`
}
