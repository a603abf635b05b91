package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prosafe_exporter/prosafe"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := loadConfig("", "")
	require.NoError(t, err)
	assert.Equal(t, ":9493", config.ListenAddress)
	assert.Equal(t, time.Second, config.Timeout)
	assert.True(t, prosafe.Target(config.Target).IsZero())
}

func TestLoadConfigInline(t *testing.T) {
	config, err := loadConfig("", `
listen_address: 127.0.0.1:9999
target: 192.168.0.239:eth0
timeout: 2s
`)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", config.ListenAddress)
	assert.Equal(t, prosafe.Target{Host: "192.168.0.239", Interface: "eth0"}, prosafe.Target(config.Target))
	assert.Equal(t, 2*time.Second, config.Timeout)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("target: switch.lan:eno1\n"), 0o644))

	config, err := loadConfig(path, "")
	require.NoError(t, err)
	assert.Equal(t, ":9493", config.ListenAddress)
	assert.Equal(t, "switch.lan:eno1", prosafe.Target(config.Target).String())
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yml"), "")
	assert.Error(t, err)

	_, err = loadConfig("", "target: no-interface\n")
	assert.Error(t, err)

	_, err = loadConfig("", "timeout: 0s\n")
	assert.Error(t, err)
}
