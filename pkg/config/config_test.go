package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsReservedAddress(t *testing.T) {
	cfg := Default()
	cfg.OutstationAddress = 65520
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved")
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := Default()
	cfg.Port = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadMaxFrameSize(t *testing.T) {
	cfg := Default()
	cfg.MaxFrameSize = 251
	assert.Error(t, cfg.Validate())
}

func TestValidateNormalizesLogLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = " debug "
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "VERBOSE"
	assert.Error(t, cfg.Validate())
}

func TestLoadINIOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dnp3.ini")
	contents := "[dnp3]\nhost = 10.0.0.5\nport = 20001\noutstation_address = 4\nlog_level = warning\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := LoadINI(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", cfg.Host)
	assert.Equal(t, 20001, cfg.Port)
	assert.Equal(t, 4, cfg.OutstationAddress)
	assert.Equal(t, "WARNING", cfg.LogLevel)
	// Untouched keys keep their default.
	assert.Equal(t, 1, cfg.MasterAddress)
}

func TestLoadINIPropagatesValidationError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.ini")
	require.NoError(t, os.WriteFile(path, []byte("[dnp3]\nport = 0\n"), 0o600))

	_, err := LoadINI(path)
	assert.Error(t, err)
}
