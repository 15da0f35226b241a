// Package config provides the configuration for nebula-atom tools.
//
// The configuration is organized into logical sections:
//   - Log: zap logger settings
//   - Dump: codec and compression of atom dump files
//   - Tracing: OpenTelemetry span export
//
// Example usage:
//
//	cfg := config.Default()
//	cfg.Dump.Codec = "avro"
//	cfg.Dump.Compression = "zstd"
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"go.uber.org/zap/zapcore"

	"github.com/ajitpratap0/nebula-atom/pkg/compression"
	"github.com/ajitpratap0/nebula-atom/pkg/errors"
)

// Codecs lists the dump codec names accepted by DumpConfig.Codec
var Codecs = []string{"json", "avro", "arrow"}

// Config is the root configuration structure
type Config struct {
	// Name identifies the job or tool instance in logs and traces
	Name string `yaml:"name" json:"name"`

	// Log configures structured logging
	Log LogConfig `yaml:"log" json:"log"`

	// Dump configures how atom dumps are written
	Dump DumpConfig `yaml:"dump" json:"dump"`

	// Tracing configures span export
	Tracing TracingConfig `yaml:"tracing" json:"tracing"`
}

// LogConfig contains logger settings
type LogConfig struct {
	// Level sets logging verbosity (debug, info, warn, error)
	Level string `yaml:"level" json:"level"`
	// Encoding selects json or console output
	Encoding string `yaml:"encoding" json:"encoding"`
	// Development enables colored levels and error stack traces
	Development bool `yaml:"development" json:"development"`
	// OutputPaths lists log sinks (stderr, stdout or file paths)
	OutputPaths []string `yaml:"output_paths" json:"output_paths"`
}

// DumpConfig contains dump file settings
type DumpConfig struct {
	// Codec selects the body encoding (json, avro, arrow)
	Codec string `yaml:"codec" json:"codec"`
	// Compression selects the body compression (none, gzip, snappy, lz4, zstd, s2, deflate)
	Compression string `yaml:"compression" json:"compression"`
	// CompressionLevel trades speed for ratio (fastest, default, better, best)
	CompressionLevel string `yaml:"compression_level" json:"compression_level"`
	// Sort orders atoms before they are written
	Sort bool `yaml:"sort" json:"sort"`
	// Dedup drops atoms equal to an earlier atom before they are written
	Dedup bool `yaml:"dedup" json:"dedup"`
}

// TracingConfig contains tracing settings
type TracingConfig struct {
	// Enabled turns span export on
	Enabled bool `yaml:"enabled" json:"enabled"`
	// ServiceName is reported as the otel service name
	ServiceName string `yaml:"service_name" json:"service_name"`
	// SampleRate controls trace sampling (0.0-1.0)
	SampleRate float64 `yaml:"sample_rate" json:"sample_rate"`
}

// Default returns a configuration with production defaults
func Default() *Config {
	return &Config{
		Name: "atomdump",
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
		},
		Dump: DumpConfig{
			Codec:            "json",
			Compression:      string(compression.None),
			CompressionLevel: compression.Default.String(),
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "nebula-atom",
			SampleRate:  1.0,
		},
	}
}

// Validate checks the configuration for unknown names and out-of-range values
func (c *Config) Validate() error {
	if c.Name == "" {
		return errors.New(errors.ErrorTypeConfig, "name is required")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid log level").
			WithDetail("level", c.Log.Level)
	}
	if c.Log.Encoding != "json" && c.Log.Encoding != "console" {
		return errors.New(errors.ErrorTypeConfig, "log encoding must be json or console").
			WithDetail("encoding", c.Log.Encoding)
	}
	if !c.Dump.validCodec() {
		return errors.New(errors.ErrorTypeConfig, "unsupported dump codec").
			WithDetail("codec", c.Dump.Codec)
	}
	if _, err := compression.ParseAlgorithm(c.Dump.Compression); err != nil {
		return err
	}
	if _, err := compression.ParseLevel(c.Dump.CompressionLevel); err != nil {
		return err
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return errors.New(errors.ErrorTypeConfig, "tracing sample_rate must be between 0 and 1").
			WithDetail("sample_rate", c.Tracing.SampleRate)
	}
	return nil
}

func (d *DumpConfig) validCodec() bool {
	for _, codec := range Codecs {
		if d.Codec == codec {
			return true
		}
	}
	return false
}
