package netpipe

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/app/config"
	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/domain"
)

func writeFixtures(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	inventory := "device,site,vendor,role\nR1,fra1,cisco,core\n"
	stats := "ts,device,ifName,util_in,util_out,admin_status,oper_status\n" +
		"2024-01-01T12:00:00Z,R1,Gi0/0,10,30,1,1\n" +
		"2024-01-01T12:10:00Z,R9,Gi0/0,10,30,1,1\n"
	syslog := `{"ts":"2024-01-01T12:04:00Z","device":"R1","severity":"ERROR","message":"link down"}` + "\n"

	require.NoError(t, os.WriteFile(filepath.Join(dir, "inv.csv"), []byte(inventory), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stats.csv"), []byte(stats), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "syslog.jsonl"), []byte(syslog), 0o600))

	cfg := &config.Config{}
	cfg.Inputs.DeviceInventory = filepath.Join(dir, "inv.csv")
	cfg.Inputs.InterfaceStats = filepath.Join(dir, "stats.csv")
	cfg.Inputs.Syslog = filepath.Join(dir, "syslog.jsonl")
	cfg.Outputs.Dir = filepath.Join(dir, "outputs")
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRunnerEndToEnd(t *testing.T) {
	cfg := writeFixtures(t)

	var gotSummaries []domain.DeviceSummary
	chart := NewCallbackChartSink("test", func(s []domain.DeviceSummary, _ []domain.TransformedRecord) error {
		gotSummaries = s
		return nil
	})

	r, err := New(cfg, WithChartSink(chart))
	require.NoError(t, err)
	defer r.Close()

	rep, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, rep.InterfaceStatRows)
	assert.Equal(t, 1, rep.ValidInterfaceRows)
	assert.Equal(t, 1, rep.TransformedRows)
	assert.Equal(t, 1, rep.MatchedRows)

	require.Len(t, gotSummaries, 1)
	assert.Equal(t, "R1", gotSummaries[0].Device)
	assert.Equal(t, 20.0, gotSummaries[0].AvgUtilization)
	assert.Equal(t, 1, gotSummaries[0].ErrorCount)

	// the default CSV sink wrote the three tables
	for _, name := range []string{"invalid_records.csv", "transformed_data.csv", "device_summary.csv"} {
		if _, err := os.Stat(filepath.Join(cfg.Outputs.Dir, name)); err != nil {
			t.Fatalf("expected %s to exist: %v", name, err)
		}
	}
}

func TestRunnerHonorsConfiguredWindow(t *testing.T) {
	cfg := writeFixtures(t)
	cfg.Correlate.Window = time.Minute // event at +4m no longer matches

	r, err := New(cfg)
	require.NoError(t, err)
	defer r.Close()

	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, rep.MatchedRows)
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrNilConfig)
}

func TestCallbackChartSinkNilHandler(t *testing.T) {
	c := NewCallbackChartSink("", nil)
	assert.Equal(t, "callback", c.Name())
	assert.Error(t, c.Render(nil, nil))
}
