package server

import (
	"context"
	"encoding/hex"
	"encoding/json"

	"github.com/charmbracelet/log"

	"github.com/pattrick12/poker/internal/game"
	"github.com/pattrick12/poker/internal/randutil"
)

// TableEngine is one table's serialized action processor: an
// unbounded queue feeding a single FSM instance under a named per-table
// lock, publishing to the bus, snapshotting to the cache, appending to the
// audit log, and broadcasting one consolidated update per action.
type TableEngine struct {
	table  *game.Table
	queue  *actionQueue
	lock   *LeaseLock
	cache  CachePort
	bus    BusPort
	audit  AuditPort
	socket SocketPort
	seq    uint64
	logger *log.Logger

	handBuf []game.Event // events accumulated since the last showdown (or since the engine started)
}

// EngineConfig bundles a table engine's collaborators so Registry.GetOrCreate
// can build one without a long positional argument list.
type EngineConfig struct {
	Cache  CachePort
	Bus    BusPort
	Audit  AuditPort
	Socket SocketPort
	Logger *log.Logger
}

// NewTableEngine builds an engine around a fresh table with the given id
// and minimum bet (big blind).
func NewTableEngine(tableID string, minBet int, lease *LeaseLock, cfg EngineConfig) *TableEngine {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &TableEngine{
		table:  game.New(tableID, minBet, logger),
		queue:  newActionQueue(),
		lock:   lease,
		cache:  cfg.Cache,
		bus:    cfg.Bus,
		audit:  cfg.Audit,
		socket: cfg.Socket,
		logger: logger.WithPrefix("engine/" + tableID),
	}
}

// Enqueue submits a client action. Never blocks.
func (e *TableEngine) Enqueue(a game.ActionRequest) {
	e.queue.Enqueue(a)
}

// Run drives the main loop until ctx is done: shutdown is cooperative, the
// engine finishes the in-flight action and exits once ctx is cancelled.
func (e *TableEngine) Run(ctx context.Context) {
	for {
		action, ok := e.queue.Dequeue(ctx)
		if !ok {
			return
		}
		e.processOne(ctx, action)
	}
}

func (e *TableEngine) processOne(ctx context.Context, action game.ActionRequest) {
	release, err := e.lock.Acquire(ctx)
	if err != nil {
		e.logger.Error("failed to acquire table lock", "error", err)
		return
	}
	defer release()

	events := e.applySafely(action)
	if len(events) == 0 {
		return
	}

	// endHand auto-starts the next hand synchronously, so this single
	// action's events can span a hand boundary: a showdown followed by the
	// next hand's hand_started. Audit each showdown against only the events
	// accumulated up to and including it, then start a fresh buffer for
	// whatever follows.
	for _, ev := range events {
		e.handBuf = append(e.handBuf, ev)
		e.publishEvent(ev)
		e.seq++
		if ev.Type == game.EventShowdown {
			e.appendAudit(ev)
			e.handBuf = nil
		}
	}

	e.writeCacheSnapshot()

	e.socket.Broadcast(e.table.TableID, UpdateMessage{
		Type:    "update",
		TableID: e.table.TableID,
		Seq:     e.seq,
		State:   e.table.ClientView(),
		Events:  events,
	})
}

// applySafely invokes the FSM's pure transition. A panic here is an FSM
// internal error: the action is dropped without partial commit and the
// loop continues serving subsequent actions.
func (e *TableEngine) applySafely(action game.ActionRequest) (events []game.Event) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("fsm apply panicked, dropping action", "panic", r, "action", action.Type.String())
			events = nil
		}
	}()
	return e.table.Apply(action)
}

func (e *TableEngine) publishEvent(ev game.Event) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("bus publish panicked", "panic", r)
		}
	}()
	payload, err := json.Marshal(map[string]any{"type": ev.Type, "payload": ev.Payload})
	if err != nil {
		e.logger.Error("failed to marshal event for bus", "error", err)
		return
	}
	e.bus.Publish("table."+e.table.TableID+".events", payload)
}

func (e *TableEngine) writeCacheSnapshot() {
	snap := e.table.Snapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		e.logger.Error("failed to marshal snapshot", "error", err)
		return
	}
	e.cache.HSet("table:"+e.table.TableID+":state", map[string]string{"data": string(data)})
}

// appendAudit persists the commit-reveal triplet and the hand's full event
// stream no later than showdown, so a crash between reveal and persistence
// can never lose the commit-reveal proof. Commitment and seed are
// recomputed from the revealed secret and hand_id rather than read back
// off table state, because a showdown that immediately auto-starts the
// next hand has already overwritten the table's in-memory
// Commitment/HandID by the time this runs.
func (e *TableEngine) appendAudit(showdown game.Event) {
	payload, ok := showdown.Payload.(game.ShowdownPayload)
	if !ok {
		return
	}
	eventsJSON := make([]interface{}, len(e.handBuf))
	for i, ev := range e.handBuf {
		eventsJSON[i] = ev
	}
	commitment := randutil.ComputeCommitment(payload.ServerSecret, payload.HandID)
	seed := randutil.DeriveSeed(payload.ServerSecret, payload.HandID)

	if err := e.audit.LogHand(HandRecord{
		TableID:    e.table.TableID,
		HandID:     payload.HandID,
		Seed:       hex.EncodeToString(seed[:]),
		Secret:     payload.ServerSecret,
		Commitment: commitment,
		Events:     eventsJSON,
	}); err != nil {
		e.logger.Error("audit log failed", "error", err, "hand_id", payload.HandID)
	}
}
