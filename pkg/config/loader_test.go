package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queueworks/mqconnect/pkg/mqerrors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mqconnect.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Cleanup(func() { os.Unsetenv(CipherMappingsProperty) })

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, NewConnectionConfig(), cfg)
	assert.Equal(t, "true", os.Getenv(CipherMappingsProperty))
}

func TestLoadFile(t *testing.T) {
	t.Cleanup(func() { os.Unsetenv(CipherMappingsProperty) })

	path := writeConfigFile(t, `
mq:
  queue_manager: PROD.QM
  conn_name: mq.example.com(1414)
  client_id: billing-service
  use_ibm_cipher_mappings: false
  pool:
    enabled: true
    block_if_full_timeout: 5000
    idle_timeout: 45s
    max_connections: 10
`)

	cfg, err := Load(LoadOptions{Path: path})
	require.NoError(t, err)

	assert.Equal(t, "PROD.QM", cfg.QueueManager)
	assert.Equal(t, "mq.example.com(1414)", cfg.ConnName)
	assert.Equal(t, "billing-service", cfg.ClientID)
	assert.False(t, cfg.UseIBMCipherMappings)

	// Untouched keys keep their defaults
	assert.Equal(t, "DEV.ADMIN.SVRCONN", cfg.Channel)
	assert.Equal(t, "admin", cfg.User)

	assert.True(t, cfg.Pool.Enabled)
	assert.Equal(t, Duration(5*time.Second), cfg.Pool.BlockIfFullTimeout)
	assert.Equal(t, Duration(45*time.Second), cfg.Pool.IdleTimeout)
	assert.Equal(t, 10, cfg.Pool.MaxConnections)
	assert.Equal(t, 500, cfg.Pool.MaxSessionsPerConnection)

	// The loaded flag is propagated to the process-wide property
	assert.Equal(t, "false", os.Getenv(CipherMappingsProperty))
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Cleanup(func() { os.Unsetenv(CipherMappingsProperty) })

	path := writeConfigFile(t, `
mq:
  queue_manager: FILE.QM
  user: fileuser
`)
	t.Setenv("MQ_QUEUE_MANAGER", "ENV.QM")
	t.Setenv("MQ_POOL_IDLE_TIMEOUT", "90s")
	t.Setenv("MQ_POOL_MAX_CONNECTIONS", "4")

	cfg, err := Load(LoadOptions{Path: path})
	require.NoError(t, err)

	assert.Equal(t, "ENV.QM", cfg.QueueManager)
	assert.Equal(t, "fileuser", cfg.User)
	assert.Equal(t, Duration(90*time.Second), cfg.Pool.IdleTimeout)
	assert.Equal(t, 4, cfg.Pool.MaxConnections)
}

func TestLoadOverridesWin(t *testing.T) {
	t.Cleanup(func() { os.Unsetenv(CipherMappingsProperty) })

	t.Setenv("MQ_QUEUE_MANAGER", "ENV.QM")

	cfg, err := Load(LoadOptions{
		Overrides: map[string]string{
			"queue_manager":        "FLAG.QM",
			"pool.max_connections": "7",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "FLAG.QM", cfg.QueueManager)
	assert.Equal(t, 7, cfg.Pool.MaxConnections)
}

func TestLoadEnvSubstitution(t *testing.T) {
	t.Cleanup(func() { os.Unsetenv(CipherMappingsProperty) })

	t.Setenv("MQCONNECT_TEST_PASSWORD", "s3cret")
	path := writeConfigFile(t, `
mq:
  password: ${MQCONNECT_TEST_PASSWORD}
`)

	cfg, err := Load(LoadOptions{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Password)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(LoadOptions{Path: filepath.Join(t.TempDir(), "absent.yaml")})
	require.Error(t, err)
	assert.True(t, mqerrors.IsType(err, mqerrors.ErrorTypeConfig))
}

func TestLoadMalformedDuration(t *testing.T) {
	path := writeConfigFile(t, `
mq:
  pool:
    idle_timeout: soon
`)
	_, err := Load(LoadOptions{Path: path})
	require.Error(t, err)
	assert.True(t, mqerrors.IsType(err, mqerrors.ErrorTypeConfig))
	assert.Contains(t, err.Error(), "mq.pool.idle_timeout")
}

func TestLoadFailsValidation(t *testing.T) {
	path := writeConfigFile(t, `
mq:
  ccdt_url: file:///home/admdata/ccdt1.tab
`)
	_, err := Load(LoadOptions{Path: path})
	require.Error(t, err)
	assert.True(t, mqerrors.IsType(err, mqerrors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestSaveRoundTrip(t *testing.T) {
	t.Cleanup(func() { os.Unsetenv(CipherMappingsProperty) })

	original := NewConnectionConfig()
	original.QueueManager = "SAVED.QM"
	original.Channel = ""
	original.CCDTURL = "file:///home/admdata/ccdt1.tab"
	original.Pool.Enabled = true
	original.Pool.IdleTimeout = Duration(2 * time.Minute)

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, Save(path, original))

	loaded, err := Load(LoadOptions{Path: path})
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}
