package correlate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/domain"
)

var inventory = []domain.DeviceInventory{
	{Device: "R1", Site: "fra1", Vendor: "cisco", Role: "core"},
	{Device: "R2", Site: "ams2", Vendor: "juniper", Role: "edge"},
}

func sample(device, ts string) domain.InterfaceStats {
	return domain.InterfaceStats{
		TS: ts, Device: device, IfName: "Gi0/0",
		UtilIn: 40, UtilOut: 60, AdminStatus: 1, OperStatus: 1,
	}
}

func log(device, ts, severity, msg string) domain.Syslog {
	return domain.Syslog{TS: ts, Device: device, Severity: severity, Message: msg}
}

func TestWindowBoundsAreClosed(t *testing.T) {
	stats := []domain.InterfaceStats{sample("R1", "2024-01-01T12:00:00Z")}

	cases := []struct {
		ts      string
		matches bool
	}{
		{"2024-01-01T12:04:59Z", true},
		{"2024-01-01T12:05:00Z", true}, // closed interval
		{"2024-01-01T12:05:01Z", false},
		{"2024-01-01T11:55:00Z", true},
		{"2024-01-01T11:54:59Z", false},
	}
	for _, tc := range cases {
		t.Run(tc.ts, func(t *testing.T) {
			logs := []domain.Syslog{log("R1", tc.ts, "WARN", "flap")}
			out := Correlate(stats, logs, inventory)
			require.Len(t, out, 1)
			assert.Equal(t, tc.matches, out[0].HasSyslog())
		})
	}
}

func TestTieBreakIsOriginalOrderNotNearest(t *testing.T) {
	stats := []domain.InterfaceStats{sample("R1", "2024-01-01T12:00:00Z")}
	logs := []domain.Syslog{
		log("R1", "2024-01-01T12:04:00Z", "WARN", "four minutes out"),
		log("R1", "2024-01-01T12:00:01Z", "ERROR", "one second out"),
	}

	out := Correlate(stats, logs, inventory)

	require.Len(t, out, 1)
	assert.Equal(t, "WARN", out[0].SyslogSeverity)
	assert.Equal(t, "four minutes out", out[0].SyslogMsg)
}

func TestLeftJoinNeverDropsRows(t *testing.T) {
	var stats []domain.InterfaceStats
	for i := 0; i < 10; i++ {
		stats = append(stats, sample("R1", fmt.Sprintf("2024-01-01T%02d:00:00Z", i)))
	}

	out := Correlate(stats, nil, inventory)

	require.Len(t, out, 10)
	for i, rec := range out {
		assert.Equal(t, stats[i].TS, rec.TS)
		assert.False(t, rec.HasSyslog())
	}
}

func TestUnknownDeviceKeepsRowWithEmptyMetadata(t *testing.T) {
	stats := []domain.InterfaceStats{sample("R9", "2024-01-01T12:00:00Z")}
	logs := []domain.Syslog{log("R9", "2024-01-01T12:01:00Z", "ERROR", "down")}

	out := Correlate(stats, logs, inventory)

	require.Len(t, out, 1)
	assert.Equal(t, "R9", out[0].Device)
	assert.Empty(t, out[0].Site)
	assert.Empty(t, out[0].Vendor)
	assert.Empty(t, out[0].Role)
	// the syslog window still applies to inventory-less devices
	assert.Equal(t, "ERROR", out[0].SyslogSeverity)
}

func TestMatchesOnlySameDevice(t *testing.T) {
	stats := []domain.InterfaceStats{sample("R1", "2024-01-01T12:00:00Z")}
	logs := []domain.Syslog{log("R2", "2024-01-01T12:00:00Z", "ERROR", "other device")}

	out := Correlate(stats, logs, inventory)

	require.Len(t, out, 1)
	assert.False(t, out[0].HasSyslog())
}

func TestDeviceMetadataJoined(t *testing.T) {
	stats := []domain.InterfaceStats{sample("R2", "2024-01-01T12:00:00Z")}

	out := Correlate(stats, nil, inventory)

	require.Len(t, out, 1)
	assert.Equal(t, "ams2", out[0].Site)
	assert.Equal(t, "juniper", out[0].Vendor)
	assert.Equal(t, "edge", out[0].Role)
	assert.Equal(t, 40.0, out[0].UtilIn)
	assert.Equal(t, 60.0, out[0].UtilOut)
}

func TestParallelRunMatchesSerialRun(t *testing.T) {
	var stats []domain.InterfaceStats
	var logs []domain.Syslog
	for d := 0; d < 8; d++ {
		device := fmt.Sprintf("D%d", d)
		for i := 0; i < 20; i++ {
			stats = append(stats, sample(device, fmt.Sprintf("2024-01-01T10:%02d:00Z", i)))
			logs = append(logs, log(device, fmt.Sprintf("2024-01-01T10:%02d:30Z", i), "INFO", fmt.Sprintf("ev-%d-%d", d, i)))
		}
	}

	serial := Run(stats, logs, inventory, Options{Workers: 1})
	parallel := Run(stats, logs, inventory, Options{Workers: 4})

	assert.Equal(t, serial, parallel)
}
