package config

import (
	"fmt"
	"strings"
)

// Config represents the complete configuration for the labelbridge
// converter. It covers all commands (tasks, export, rasterize, serve) and
// supports loading from configuration files, environment variables, and
// command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Alignment settings
	Align AlignConfig `mapstructure:"align" yaml:"align" json:"align"`

	// Task assembly settings
	Task TaskConfig `mapstructure:"task" yaml:"task" json:"task"`

	// Output settings
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Rasterization settings
	Raster RasterConfig `mapstructure:"raster" yaml:"raster" json:"raster"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// AlignConfig contains prediction-to-word alignment settings.
type AlignConfig struct {
	// IoUThreshold is the overlap threshold of the dual match policy.
	IoUThreshold float64 `mapstructure:"iou_threshold" yaml:"iou_threshold" json:"iou_threshold"`
}

// TaskConfig contains annotation task assembly settings.
type TaskConfig struct {
	ModelVersion string `mapstructure:"model_version" yaml:"model_version" json:"model_version"`
}

// OutputConfig contains output file settings.
type OutputConfig struct {
	File   string `mapstructure:"file" yaml:"file" json:"file"`
	Indent string `mapstructure:"indent" yaml:"indent" json:"indent"`
}

// RasterConfig contains PDF page image extraction settings.
type RasterConfig struct {
	OutputDir string  `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
	Scale     float64 `mapstructure:"scale" yaml:"scale" json:"scale"`
	PageRange string  `mapstructure:"page_range" yaml:"page_range" json:"page_range"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int64  `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Verbose:  false,
		Align: AlignConfig{
			IoUThreshold: 0.20,
		},
		Task: TaskConfig{
			ModelVersion: "v1",
		},
		Output: OutputConfig{
			Indent: "  ",
		},
		Raster: RasterConfig{
			Scale: 2.0,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     50,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	validLevels := []string{"debug", "info", "warn", "error"}
	levelOK := false
	for _, l := range validLevels {
		if c.LogLevel == l {
			levelOK = true
			break
		}
	}
	if !levelOK {
		return fmt.Errorf("invalid log level %q (must be one of: %s)",
			c.LogLevel, strings.Join(validLevels, ", "))
	}

	if c.Align.IoUThreshold < 0 || c.Align.IoUThreshold > 1 {
		return fmt.Errorf("invalid IoU threshold %.2f (must be between 0.0 and 1.0)",
			c.Align.IoUThreshold)
	}

	if c.Raster.Scale < 0 {
		return fmt.Errorf("invalid raster scale %.2f (must be non-negative)", c.Raster.Scale)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid max upload size %d MB (must be positive)", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid server timeout %d (must be positive)", c.Server.TimeoutSec)
	}

	return nil
}
