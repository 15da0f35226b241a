package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/nebula-atom/pkg/errors"
)

// EnvPrefix prefixes environment overrides, e.g. NEBULA_ATOM_LOG_LEVEL
const EnvPrefix = "NEBULA_ATOM"

// LoadFile decodes a YAML file into v after substituting ${VAR} references
func LoadFile(filePath string, v interface{}) error {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to read config file").
			WithDetail("path", filePath)
	}

	content := substituteEnvVars(string(data))

	if err := yaml.Unmarshal([]byte(content), v); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse YAML").
			WithDetail("path", filePath)
	}

	return nil
}

// Load reads the configuration at filePath over the defaults, applies
// environment overrides and validates the result. An empty path skips the
// file.
func Load(filePath string) (*Config, error) {
	cfg := Default()
	if filePath != "" {
		if err := LoadFile(filePath, cfg); err != nil {
			return nil, err
		}
	}

	ApplyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes v to filePath as YAML
func Save(filePath string, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to marshal YAML")
	}

	if err := os.WriteFile(filePath, data, 0o644); err != nil { //nolint:gosec
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write config file").
			WithDetail("path", filePath)
	}

	return nil
}

// ApplyEnv overrides cfg with NEBULA_ATOM_* environment variables. Keys
// follow the YAML paths with dots replaced by underscores, for example
// NEBULA_ATOM_DUMP_COMPRESSION.
func ApplyEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	setBool := func(key string, dst *bool) {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}

	setString("name", &cfg.Name)
	setString("log.level", &cfg.Log.Level)
	setString("log.encoding", &cfg.Log.Encoding)
	setBool("log.development", &cfg.Log.Development)
	setString("dump.codec", &cfg.Dump.Codec)
	setString("dump.compression", &cfg.Dump.Compression)
	setString("dump.compression_level", &cfg.Dump.CompressionLevel)
	setBool("dump.sort", &cfg.Dump.Sort)
	setBool("dump.dedup", &cfg.Dump.Dedup)
	setBool("tracing.enabled", &cfg.Tracing.Enabled)
	setString("tracing.service_name", &cfg.Tracing.ServiceName)
	if v.IsSet("tracing.sample_rate") {
		cfg.Tracing.SampleRate = v.GetFloat64("tracing.sample_rate")
	}
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
// Substituted values are not expanded again.
func substituteEnvVars(content string) string {
	var b strings.Builder
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		b.WriteString(content[:start])
		b.WriteString(os.Getenv(content[start+2 : end]))
		content = content[end+1:]
	}
	b.WriteString(content)
	return b.String()
}
