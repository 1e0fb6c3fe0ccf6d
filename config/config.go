package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// --- Configuration Structs ---

type ConvertConfig struct {
	Format            string   `yaml:"format" mapstructure:"format"`
	Destination       string   `yaml:"destination,omitempty" mapstructure:"destination"`
	Recursive         bool     `yaml:"recursive" mapstructure:"recursive"`
	Overwrite         bool     `yaml:"overwrite" mapstructure:"overwrite"`
	Delimiter         string   `yaml:"delimiter,omitempty" mapstructure:"delimiter"`
	IncludeHeader     bool     `yaml:"include_header" mapstructure:"include_header"`
	BatchSize         int64    `yaml:"batch_size,omitempty" mapstructure:"batch_size"`
	ForceStringFields []string `yaml:"force_string_fields,omitempty" mapstructure:"force_string_fields"`
	Compression       string   `yaml:"compression,omitempty" mapstructure:"compression"`
}

type GenerateConfig struct {
	Profile     string `yaml:"profile" mapstructure:"profile"`
	Columns     int    `yaml:"columns,omitempty" mapstructure:"columns"`
	TotalRows   int64  `yaml:"total_rows" mapstructure:"total_rows"`
	RowsPerFile int64  `yaml:"rows_per_file,omitempty" mapstructure:"rows_per_file"`
	BatchSize   int64  `yaml:"batch_size,omitempty" mapstructure:"batch_size"`
	Workers     int    `yaml:"workers,omitempty" mapstructure:"workers"`
	Seed        int64  `yaml:"seed" mapstructure:"seed"`
	OutputDir   string `yaml:"output_dir" mapstructure:"output_dir"`
	Compression string `yaml:"compression,omitempty" mapstructure:"compression"`
}

type Config struct {
	Convert  ConvertConfig  `yaml:"convert"`
	Generate GenerateConfig `yaml:"generate"`
}

// --- Load Configuration ---

func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// --- Validation Functions ---

// validate is a helper function to reduce repetition.
func validate(condition bool, format string, a ...any) error {
	if !condition {
		return fmt.Errorf(format, a...)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := c.Convert.Validate(); err != nil {
		return fmt.Errorf("convert validation failed: %w", err)
	}
	if err := c.Generate.Validate(); err != nil {
		return fmt.Errorf("generate validation failed: %w", err)
	}
	return nil
}

func (cc *ConvertConfig) Validate() error {
	if cc.Format == "" {
		return nil // format may come from the command line instead
	}
	switch cc.Format {
	case "csv", "jsonl", "arrow", "parquet":
	default:
		return fmt.Errorf("unrecognized format %q", cc.Format)
	}
	if cc.Delimiter != "" {
		if err := validate(len(cc.Delimiter) == 1, "delimiter must be a single character"); err != nil {
			return err
		}
	}
	return validate(cc.BatchSize >= 0, "batch size must not be negative")
}

func (gc *GenerateConfig) Validate() error {
	if err := validate(gc.TotalRows >= 0, "total rows must not be negative"); err != nil {
		return err
	}
	if err := validate(gc.RowsPerFile >= 0, "rows per file must not be negative"); err != nil {
		return err
	}
	if gc.Profile != "" && gc.Profile != "event" && gc.Profile != "wide" {
		return fmt.Errorf("unknown profile %q", gc.Profile)
	}
	return validate(gc.Workers >= 0, "workers must not be negative")
}
