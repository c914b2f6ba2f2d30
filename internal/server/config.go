package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the server's startup configuration, loaded from an HCL file at
// cmd/server startup. The shape follows a gohcl decoding idiom, adapted to the
// fields this core actually needs: a listen address, the table-lock lease,
// the audit log path, the default blind a newly created table starts with,
// and the bus queue depth. DefaultBuyin is loaded but not passed to any
// table; a join without a buy-in gets 1000 chips from game.Table.
type Config struct {
	ListenAddr    string `hcl:"listen_addr,optional"`
	LockLeaseMS   int    `hcl:"lock_lease_ms,optional"`
	AuditLogPath  string `hcl:"audit_log_path,optional"`
	DefaultMinBet int    `hcl:"default_min_bet,optional"`
	DefaultBuyin  int    `hcl:"default_buyin,optional"`
	BusQueueDepth int    `hcl:"bus_queue_depth,optional"`
}

// LockLease returns LockLeaseMS as a time.Duration.
func (c Config) LockLease() time.Duration {
	return time.Duration(c.LockLeaseMS) * time.Millisecond
}

// DefaultConfig returns the configuration used when no file is given or the
// file is missing, mirroring a DefaultServerConfig-style fallback.
func DefaultConfig() Config {
	return Config{
		ListenAddr:    ":8080",
		LockLeaseMS:   5000,
		AuditLogPath:  "poker-audit.jsonl",
		DefaultMinBet: 20,
		DefaultBuyin:  1000,
		BusQueueDepth: 256,
	}
}

// LoadConfig loads and decodes an HCL config file, filling in defaults for
// any field left unset. A missing file is not an error: DefaultConfig is
// returned as-is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("server: parse config %s: %s", path, diags.Error())
	}

	var decoded Config
	diags = gohcl.DecodeBody(file.Body, nil, &decoded)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("server: decode config %s: %s", path, diags.Error())
	}

	if decoded.ListenAddr != "" {
		cfg.ListenAddr = decoded.ListenAddr
	}
	if decoded.LockLeaseMS != 0 {
		cfg.LockLeaseMS = decoded.LockLeaseMS
	}
	if decoded.AuditLogPath != "" {
		cfg.AuditLogPath = decoded.AuditLogPath
	}
	if decoded.DefaultMinBet != 0 {
		cfg.DefaultMinBet = decoded.DefaultMinBet
	}
	if decoded.DefaultBuyin != 0 {
		cfg.DefaultBuyin = decoded.DefaultBuyin
	}
	if decoded.BusQueueDepth != 0 {
		cfg.BusQueueDepth = decoded.BusQueueDepth
	}
	return cfg, nil
}
