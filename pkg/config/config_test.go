package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/nebula-atom/pkg/errors"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atomdump.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*Config){
		"empty name":         func(c *Config) { c.Name = "" },
		"bad log level":      func(c *Config) { c.Log.Level = "loud" },
		"bad log encoding":   func(c *Config) { c.Log.Encoding = "xml" },
		"bad codec":          func(c *Config) { c.Dump.Codec = "csv" },
		"bad compression":    func(c *Config) { c.Dump.Compression = "brotli" },
		"bad level":          func(c *Config) { c.Dump.CompressionLevel = "max" },
		"sample rate too hi": func(c *Config) { c.Tracing.SampleRate = 1.5 },
		"sample rate neg":    func(c *Config) { c.Tracing.SampleRate = -0.1 },
	}

	for desc, mutate := range tests {
		t.Run(desc, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig), err.Error())
		})
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	t.Setenv("ATOM_TEST_CODEC", "avro")
	path := writeFile(t, `
name: nightly
dump:
  codec: ${ATOM_TEST_CODEC}
  compression: zstd
  sort: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "nightly", cfg.Name)
	assert.Equal(t, "avro", cfg.Dump.Codec)
	assert.Equal(t, "zstd", cfg.Dump.Compression)
	assert.True(t, cfg.Dump.Sort)
	// Untouched sections keep their defaults.
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "default", cfg.Dump.CompressionLevel)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "log:\n  level: debug\n")
	t.Setenv("NEBULA_ATOM_LOG_LEVEL", "warn")
	t.Setenv("NEBULA_ATOM_DUMP_COMPRESSION", "lz4")
	t.Setenv("NEBULA_ATOM_DUMP_DEDUP", "true")
	t.Setenv("NEBULA_ATOM_TRACING_SAMPLE_RATE", "0.5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "lz4", cfg.Dump.Compression)
	assert.True(t, cfg.Dump.Dedup)
	assert.Equal(t, 0.5, cfg.Tracing.SampleRate)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsInvalidResult(t *testing.T) {
	path := writeFile(t, "dump:\n  codec: xml\n")

	_, err := Load(path)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestLoadFileErrors(t *testing.T) {
	var cfg Config
	err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))

	err = LoadFile(writeFile(t, "dump: [unclosed"), &cfg)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	original := Default()
	original.Dump.Codec = "arrow"
	original.Log.OutputPaths = []string{"stdout"}

	require.NoError(t, Save(path, original))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("ATOM_TEST_VALUE", "zstd")

	assert.Equal(t, "compression: zstd", substituteEnvVars("compression: ${ATOM_TEST_VALUE}"))
	assert.Equal(t, "missing: ", substituteEnvVars("missing: ${ATOM_TEST_UNSET_VARIABLE}"))
	assert.Equal(t, "open: ${never", substituteEnvVars("open: ${never"))
	assert.Equal(t, "zstd zstd", substituteEnvVars("${ATOM_TEST_VALUE} ${ATOM_TEST_VALUE}"))
}

func TestSubstituteEnvVarsDoesNotExpandValues(t *testing.T) {
	t.Setenv("ATOM_TEST_SELF", "${ATOM_TEST_SELF}")
	t.Setenv("ATOM_TEST_OTHER", "${ATOM_TEST_VALUE}")
	t.Setenv("ATOM_TEST_VALUE", "zstd")

	assert.Equal(t, "name: ${ATOM_TEST_SELF}", substituteEnvVars("name: ${ATOM_TEST_SELF}"))
	assert.Equal(t, "name: ${ATOM_TEST_VALUE}", substituteEnvVars("name: ${ATOM_TEST_OTHER}"))

	cfg, err := Load(writeFile(t, "name: ${ATOM_TEST_SELF}\n"))
	require.NoError(t, err)
	assert.Equal(t, "${ATOM_TEST_SELF}", cfg.Name)
}
