package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Inputs    InputsConfig    `yaml:"inputs"`
	Outputs   OutputsConfig   `yaml:"outputs"`
	Correlate CorrelateConfig `yaml:"correlate"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type InputsConfig struct {
	DeviceInventory string `yaml:"device_inventory"`
	InterfaceStats  string `yaml:"interface_stats"`
	Syslog          string `yaml:"syslog"`
}

type OutputsConfig struct {
	Dir    string `yaml:"dir"`
	Report string `yaml:"report"` // xlsx workbook path; empty disables
}

type CorrelateConfig struct {
	Window  time.Duration `yaml:"window"`
	Workers int           `yaml:"workers"`
}

type PostgresConfig struct {
	ConnString  string `yaml:"conn_string"` // empty disables the SQL sink
	TablePrefix string `yaml:"table_prefix"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the metrics endpoint
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.Inputs.DeviceInventory == "" {
		c.Inputs.DeviceInventory = "./data/device_inventory.csv"
	}
	if c.Inputs.InterfaceStats == "" {
		c.Inputs.InterfaceStats = "./data/interface_stats.csv"
	}
	if c.Inputs.Syslog == "" {
		c.Inputs.Syslog = "./data/syslog.jsonl"
	}
	if c.Outputs.Dir == "" {
		c.Outputs.Dir = "./outputs"
	}
	if c.Correlate.Window == 0 {
		c.Correlate.Window = 5 * time.Minute
	}
	if c.Correlate.Workers == 0 {
		c.Correlate.Workers = 1
	}
	if c.Postgres.TablePrefix == "" {
		c.Postgres.TablePrefix = "nms"
	}
}

func (c *Config) Validate() error {
	if c.Inputs.DeviceInventory == "" {
		return fmt.Errorf("inputs.device_inventory is required")
	}
	if c.Inputs.InterfaceStats == "" {
		return fmt.Errorf("inputs.interface_stats is required")
	}
	if c.Inputs.Syslog == "" {
		return fmt.Errorf("inputs.syslog is required")
	}
	if c.Outputs.Dir == "" {
		return fmt.Errorf("outputs.dir is required")
	}
	if c.Correlate.Window < 0 {
		return fmt.Errorf("correlate.window must not be negative")
	}
	if c.Correlate.Workers < 1 {
		return fmt.Errorf("correlate.workers must be at least 1")
	}
	return nil
}
