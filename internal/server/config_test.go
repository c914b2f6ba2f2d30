package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_OverridesMergeOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poker-server.hcl")
	body := `
listen_addr     = ":9090"
default_min_bet = 50
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, 50, cfg.DefaultMinBet)
	// Fields left unset in the file keep the default's values.
	assert.Equal(t, DefaultConfig().AuditLogPath, cfg.AuditLogPath)
	assert.Equal(t, DefaultConfig().DefaultBuyin, cfg.DefaultBuyin)
}

func TestConfig_LockLease(t *testing.T) {
	cfg := Config{LockLeaseMS: 2500}
	assert.Equal(t, 2500*time.Millisecond, cfg.LockLease())
}
