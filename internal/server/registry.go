package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Registry is the process-wide table_id → engine handle map. In a
// distributed deployment this map is only authoritative for tables this
// node owns; cross-node routing is out of scope.
type Registry struct {
	mu      sync.Mutex
	engines map[string]*TableEngine
	cancel  map[string]context.CancelFunc

	lockLease time.Duration
	clock     quartz.Clock
	collab    EngineConfig
}

// NewRegistry returns an empty registry. lockLease is the table-lock lease
// duration, used as given (DefaultConfig supplies 5s); clock lets tests substitute a
// quartz.Mock to assert lease-expiry behavior without sleeping.
func NewRegistry(lockLease time.Duration, clock quartz.Clock, collab EngineConfig) *Registry {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Registry{
		engines:   make(map[string]*TableEngine),
		cancel:    make(map[string]context.CancelFunc),
		lockLease: lockLease,
		clock:     clock,
		collab:    collab,
	}
}

// GetOrCreate returns the engine for tableID, creating and starting its
// loop on first use.
func (r *Registry) GetOrCreate(tableID string, minBet int) *TableEngine {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.engines[tableID]; ok {
		return e
	}

	lease := NewLeaseLock(r.lockLease, r.clock)
	cfg := r.collab
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	e := NewTableEngine(tableID, minBet, lease, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	r.engines[tableID] = e
	r.cancel[tableID] = cancel
	go e.Run(ctx)

	return e
}

// Get returns the engine for tableID if it has already been created.
func (r *Registry) Get(tableID string) (*TableEngine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.engines[tableID]
	return e, ok
}

// Shutdown stops every engine's loop cooperatively: each finishes its
// in-flight action and exits once its queue's context is cancelled.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cancel := range r.cancel {
		cancel()
	}
}
