package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/domain"
)

func rec(device string, in, out float64) domain.TransformedRecord {
	return domain.TransformedRecord{
		TS: "2024-01-01T12:00:00Z", Device: device, IfName: "Gi0/0",
		UtilIn: in, UtilOut: out, OperStatus: 1,
	}
}

func TestSummarizeAvgAndMax(t *testing.T) {
	// utilization per record: 10, 20, 30
	records := []domain.TransformedRecord{
		rec("R1", 10, 10),
		rec("R1", 15, 25),
		rec("R1", 30, 30),
	}

	out := Summarize(records, nil)

	require.Len(t, out, 1)
	assert.Equal(t, "R1", out[0].Device)
	assert.Equal(t, 20.0, out[0].AvgUtilization)
	assert.Equal(t, 30.0, out[0].MaxUtilization)
	assert.Equal(t, 0, out[0].ErrorCount)
}

func TestSummarizeRoundsToTwoDecimals(t *testing.T) {
	// utilization per record: 10, 15, 30 → mean 18.333...
	records := []domain.TransformedRecord{
		rec("R1", 10, 10),
		rec("R1", 15, 15),
		rec("R1", 30, 30),
	}

	out := Summarize(records, nil)

	require.Len(t, out, 1)
	assert.Equal(t, 18.33, out[0].AvgUtilization)
}

func TestSummarizeErrorCountUsesFullSyslogSet(t *testing.T) {
	records := []domain.TransformedRecord{rec("R1", 10, 10), rec("R2", 20, 20)}
	// None of these are attached to any transformed record; they count anyway.
	logs := []domain.Syslog{
		{TS: "2024-01-01T03:00:00Z", Device: "R1", Severity: "ERROR", Message: "a"},
		{TS: "2024-01-01T04:00:00Z", Device: "R1", Severity: "ERROR", Message: "b"},
		{TS: "2024-01-01T05:00:00Z", Device: "R1", Severity: "WARN", Message: "c"},
		{TS: "2024-01-01T06:00:00Z", Device: "R3", Severity: "ERROR", Message: "d"},
	}

	out := Summarize(records, logs)

	require.Len(t, out, 2)
	assert.Equal(t, 2, out[0].ErrorCount)
	assert.Equal(t, 0, out[1].ErrorCount)
}

func TestSummarizeExcludesSyslogOnlyDevices(t *testing.T) {
	records := []domain.TransformedRecord{rec("R1", 10, 10)}
	logs := []domain.Syslog{
		{TS: "2024-01-01T03:00:00Z", Device: "R9", Severity: "ERROR", Message: "a"},
	}

	out := Summarize(records, logs)

	require.Len(t, out, 1)
	assert.Equal(t, "R1", out[0].Device)
}

func TestSummarizeFirstAppearanceOrder(t *testing.T) {
	records := []domain.TransformedRecord{
		rec("R2", 10, 10),
		rec("R1", 20, 20),
		rec("R2", 30, 30),
	}

	out := Summarize(records, nil)

	require.Len(t, out, 2)
	assert.Equal(t, "R2", out[0].Device)
	assert.Equal(t, "R1", out[1].Device)
	assert.Equal(t, 20.0, out[0].AvgUtilization)
	assert.Equal(t, 30.0, out[0].MaxUtilization)
}

func TestSummarizeEmptyInput(t *testing.T) {
	assert.Empty(t, Summarize(nil, nil))
}
