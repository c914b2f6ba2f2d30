package server

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// AuditPort is the durable audit-log collaborator: log_hand is called once
// per hand at end-of-hand with everything needed to replay and verify it
// later — the seed inputs, the commitment, and the full event stream.
// Failure is logged and non-fatal: the in-memory hand has already completed
// by the time this is called.
type AuditPort interface {
	LogHand(record HandRecord) error
}

// HandRecord is one audit-log row: the commit-reveal triplet plus the
// ordered event stream produced over the hand's lifetime (table_id,
// hand_id, seed, secret, commitment, events_json).
type HandRecord struct {
	TableID    string        `json:"table_id"`
	HandID     string        `json:"hand_id"`
	Seed       string        `json:"seed"`
	Secret     string        `json:"secret"`
	Commitment string        `json:"commitment"`
	Events     []interface{} `json:"events"`
}

// FileAuditLog is an append-only JSON-lines file writer. A SQL-backed
// implementation is the named production target (DESIGN.md); no SQL driver
// is wired here because none of the pack's poker-specific repos carry one
// without also carrying a specific ORM whose wiring would be speculative.
type FileAuditLog struct {
	mu     sync.Mutex
	file   *os.File
	logger *log.Logger
}

// NewFileAuditLog opens (creating if necessary) path for appending.
func NewFileAuditLog(path string, logger *log.Logger) (*FileAuditLog, error) {
	if logger == nil {
		logger = log.Default()
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileAuditLog{file: f, logger: logger.WithPrefix("audit")}, nil
}

// LogHand appends record as one JSON line. Errors are returned so the
// caller can log-and-swallow; LogHand itself never panics.
func (a *FileAuditLog) LogHand(record HandRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	line, err := json.Marshal(record)
	if err != nil {
		return err
	}
	line = append(line, '\n')
	_, err = a.file.Write(line)
	return err
}

// Close closes the underlying file.
func (a *FileAuditLog) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file.Close()
}
