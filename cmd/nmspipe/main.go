// nmspipe runs the network-telemetry QC and correlation pipeline.
//
// Usage:
//
//	nmspipe run -c config.yaml
//	nmspipe validate -c config.yaml
//	nmspipe qc -c config.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/adapters/source"
	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/app/qc"
	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/pkg/netpipe"
)

var cfgPath string

func main() {
	// .env is optional; it carries the Postgres connection string in dev setups.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "nmspipe",
		Short:         "Validate, correlate, and summarize network telemetry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "./config.yaml", "Path to pipeline configuration file")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(qcCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute one full pipeline pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := netpipe.LoadConfig(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Postgres.ConnString == "" {
				cfg.Postgres.ConnString = os.Getenv("NMS_POSTGRES_URL")
			}

			runner, err := netpipe.New(cfg, netpipe.WithLogger(logger))
			if err != nil {
				return err
			}
			defer runner.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rep, err := runner.Run(ctx)
			if err != nil {
				return err
			}

			logger.Info("run finished",
				zap.String("run_id", rep.RunID),
				zap.Int("interface_stats", rep.InterfaceStatRows),
				zap.Int("syslog", rep.SyslogRows),
				zap.Int("invalid", rep.InvalidRows),
				zap.Int("transformed", rep.TransformedRows),
				zap.Int("matched", rep.MatchedRows),
				zap.Int("devices", rep.SummaryRows),
			)
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate a config file without running the pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := netpipe.LoadConfig(cfgPath); err != nil {
				return err
			}
			fmt.Printf("config %s looks good\n", cfgPath)
			return nil
		},
	}
}

func qcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "qc",
		Short: "Run ingestion and quality control only, reporting counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := netpipe.LoadConfig(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			src := source.NewFileSource(cfg.Inputs.DeviceInventory, cfg.Inputs.InterfaceStats, cfg.Inputs.Syslog)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			inventory, err := src.DeviceInventory(ctx)
			if err != nil {
				return fmt.Errorf("ingest device inventory: %w", err)
			}
			stats, err := src.InterfaceStats(ctx)
			if err != nil {
				return fmt.Errorf("ingest interface stats: %w", err)
			}
			syslog, err := src.Syslog(ctx)
			if err != nil {
				return fmt.Errorf("ingest syslog: %w", err)
			}

			res := qc.Validate(stats, syslog, inventory)
			fmt.Printf("devices:               %d\n", len(inventory))
			fmt.Printf("valid interface stats: %d/%d\n", len(res.ValidInterfaceStats), len(stats))
			fmt.Printf("valid syslog:          %d/%d\n", len(res.ValidSyslog), len(syslog))
			fmt.Printf("invalid records:       %d\n", len(res.Invalid))
			for _, inv := range res.Invalid {
				fmt.Printf("  [%s #%d] %s\n", inv.Source, inv.RecordIndex, inv.Reason)
			}
			return nil
		},
	}
}
