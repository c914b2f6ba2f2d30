// Package game implements the per-table hand state machine: seating,
// dealing, betting-round turn order, and showdown, driven entirely by
// Table.Apply so that identical (secret, hand_id) inputs replay identically.
package game

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/pattrick12/poker/internal/deck"
	"github.com/pattrick12/poker/internal/evaluator"
	"github.com/pattrick12/poker/internal/gameid"
	"github.com/pattrick12/poker/internal/randutil"
)

// Phase is one of the six table phases.
type Phase int

const (
	Waiting Phase = iota
	Preflop
	Flop
	Turn
	River
	Showdown
)

func (p Phase) String() string {
	switch p {
	case Waiting:
		return "waiting"
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// Table is the full in-memory state for one table. It persists across hands;
// fields documented "per-hand" reset at hand start.
type Table struct {
	TableID string
	Phase   Phase
	Pot     int

	CommunityCards []deck.Card
	Players        []*Player // seating ring, stable order for the table's life
	DealerIndex    int
	CurrentTurn    *int // nil when no betting round is active

	MinBet           int
	deck             *deck.Deck
	ActionsThisRound int

	// Per-hand provenance, fresh each hand, revealed at showdown.
	HandID       string
	ServerSecret string
	Commitment   string

	log *log.Logger
}

// New creates an empty table (phase WAITING, no players) with the given
// big blind. Small blind is always MinBet/2.
func New(tableID string, minBet int, logger *log.Logger) *Table {
	if logger == nil {
		logger = log.Default()
	}
	return &Table{
		TableID: tableID,
		Phase:   Waiting,
		MinBet:  minBet,
		log:     logger.WithPrefix(fmt.Sprintf("table/%s", tableID)),
	}
}

func (t *Table) playerByID(id string) (*Player, int) {
	for i, p := range t.Players {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

// totalChips sums every player's stack plus the pot. Posted bets are
// already in the pot, so CurrentBet is not added again. It is constant
// across every transition and is the quantity chip-conservation tests check.
func (t *Table) totalChips() int {
	total := t.Pot
	for _, p := range t.Players {
		total += p.Chips
	}
	return total
}

// Apply is the FSM's one operation: it mutates table state in response to a
// single action and returns the events produced, in the order they occur.
// Illegal actions are silently ignored: no state change, no event.
func (t *Table) Apply(action ActionRequest) []Event {
	switch action.Type {
	case Join:
		return t.applyJoin(action)
	case Fold, Check, Call, Raise:
		return t.applyGameAction(action)
	default:
		return nil
	}
}

func (t *Table) applyJoin(action ActionRequest) []Event {
	if _, idx := t.playerByID(action.PlayerID); idx != -1 {
		return nil // already seated; join is a no-op
	}

	username := action.Username
	if username == "" {
		username = fmt.Sprintf("Player-%s", truncate(action.PlayerID, 4))
	}
	buyin := action.Buyin
	if buyin <= 0 {
		buyin = 1000
	}

	p := &Player{ID: action.PlayerID, Username: username, Chips: buyin}
	if t.Phase != Waiting {
		// A hand is already underway: hold the seat and chips but defer
		// participation until the next hand start.
		p.Sitout = true
	}
	t.Players = append(t.Players, p)
	t.log.Info("player joined", "player_id", p.ID, "seat", len(t.Players)-1)

	events := []Event{
		{Type: EventPlayerJoined, Payload: PlayerJoinedPayload{Player: playerView(p)}},
		{Type: EventStateUpdate, Payload: StateUpdatePayload{Phase: t.Phase.String(), Players: t.playerViews()}},
	}

	if len(t.Players) >= 2 && t.Phase == Waiting {
		events = append(events, t.startHand()...)
	}
	return events
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// startHand generates fresh provenance, seeds the shuffle PRNG, deals, posts
// blinds and sets the first actor. It is invoked from within join handling
// per the FSM's auto-start rule, and never itself solicits a synchronous
// action — it only emits hand_started.
func (t *Table) startHand() []Event {
	t.Phase = Preflop
	t.Pot = 0
	t.CommunityCards = nil
	t.ActionsThisRound = 0

	handID := gameid.Generate()
	secret, err := randutil.GenerateSecret()
	if err != nil {
		t.log.Error("failed to generate hand secret", "error", err)
		return nil
	}
	commitment := randutil.ComputeCommitment(secret, handID)

	t.HandID = handID
	t.ServerSecret = secret
	t.Commitment = commitment

	seed := randutil.DeriveSeed(secret, handID)
	rng := randutil.NewFromHandSeed(seed)

	t.deck = deck.New()
	t.deck.Shuffle(rng)

	n := len(t.Players)
	for _, p := range t.Players {
		p.resetForHand()
	}
	// Two passes, left of dealer first: one card per seat, then a second.
	for pass := 0; pass < 2; pass++ {
		for i := 0; i < n; i++ {
			seat := (t.DealerIndex + 1 + i) % n
			card, _ := t.deck.Deal()
			t.Players[seat].HoleCards = append(t.Players[seat].HoleCards, card)
		}
	}

	sbIdx := (t.DealerIndex + 1) % n
	bbIdx := (t.DealerIndex + 2) % n
	t.postBlind(sbIdx, t.MinBet/2)
	t.postBlind(bbIdx, t.MinBet)

	turn := (t.DealerIndex + 3) % n
	turn = t.skipToActable(turn)
	t.CurrentTurn = &turn

	t.log.Info("hand started", "hand_id", handID, "dealer", t.DealerIndex)

	return []Event{{
		Type: EventHandStarted,
		Payload: HandStartedPayload{
			Dealer:     t.DealerIndex,
			HandID:     handID,
			Commitment: commitment,
		},
	}}
}

func (t *Table) postBlind(seatIdx, amount int) {
	p := t.Players[seatIdx]
	bet := p.postBet(amount)
	t.Pot += bet
}

// skipToActable walks forward from idx until it finds a seat that can act,
// wrapping at most once around the ring.
func (t *Table) skipToActable(idx int) int {
	n := len(t.Players)
	for i := 0; i < n; i++ {
		candidate := (idx + i) % n
		if t.Players[candidate].CanAct() {
			return candidate
		}
	}
	return idx
}

func (t *Table) applyGameAction(action ActionRequest) []Event {
	if t.CurrentTurn == nil {
		return nil // no hand in progress
	}
	actor := t.Players[*t.CurrentTurn]
	if actor.ID != action.PlayerID {
		t.log.Debug("ignoring action: not this player's turn", "player_id", action.PlayerID, "turn", actor.ID)
		return nil
	}

	maxBet := t.currentMaxBet()

	switch action.Type {
	case Fold:
		actor.Folded = true
	case Call:
		toCall := maxBet - actor.CurrentBet
		t.Pot += actor.postBet(toCall)
	case Check:
		if actor.CurrentBet < maxBet {
			t.log.Debug("ignoring malformed check", "player_id", actor.ID, "bet", actor.CurrentBet, "max", maxBet)
			return nil
		}
	case Raise:
		if action.Amount < maxBet+t.MinBet {
			return nil // raise too small, ignored
		}
		diff := action.Amount - actor.CurrentBet
		t.Pot += actor.postBet(diff)
	}

	events := []Event{{
		Type: EventPlayerAction,
		Payload: PlayerActionPayload{
			PlayerID:   actor.ID,
			Action:     action.Type.String(),
			Amount:     action.Amount,
			Chips:      actor.Chips,
			CurrentBet: actor.CurrentBet,
		},
	}}

	t.ActionsThisRound++
	return append(events, t.advanceTurn()...)
}

func (t *Table) currentMaxBet() int {
	max := 0
	for _, p := range t.Players {
		if p.CurrentBet > max {
			max = p.CurrentBet
		}
	}
	return max
}

func (t *Table) activePlayers() []*Player {
	var active []*Player
	for _, p := range t.Players {
		if !p.Folded && !p.Sitout {
			active = append(active, p)
		}
	}
	return active
}

// advanceTurn moves current_turn_index to the next actable seat, or ends the
// hand/advances the phase when the betting round is over.
func (t *Table) advanceTurn() []Event {
	active := t.activePlayers()
	if len(active) <= 1 {
		t.CurrentTurn = nil
		return t.endHandByFold(active)
	}

	maxBet := t.currentMaxBet()
	allMatchedOrAllIn := true
	for _, p := range active {
		if p.CurrentBet != maxBet && !p.IsAllIn() {
			allMatchedOrAllIn = false
			break
		}
	}

	if allMatchedOrAllIn && t.ActionsThisRound >= len(active) {
		return t.nextPhase()
	}

	n := len(t.Players)
	for i := 1; i <= n; i++ {
		next := (*t.CurrentTurn + i) % n
		p := t.Players[next]
		if p.CanAct() {
			t.CurrentTurn = &next
			return nil
		}
	}
	// Every remaining player is all-in; proceed without soliciting actions.
	return t.nextPhase()
}

func (t *Table) endHandByFold(active []*Player) []Event {
	if len(active) == 0 {
		return nil
	}
	return t.endHand(active[0], "opponent folded")
}

// nextPhase resets round state, deals the next street (or runs showdown on
// the river), and advances the turn to the first actable seat after the
// dealer. If nobody left in the hand can act (everyone remaining is
// all-in), it deals straight through the remaining streets to showdown
// within this same call, without ever soliciting a client action.
func (t *Table) nextPhase() []Event {
	t.ActionsThisRound = 0
	for _, p := range t.Players {
		p.resetForRound()
	}

	switch t.Phase {
	case Preflop:
		t.Phase = Flop
		t.CommunityCards = append(t.CommunityCards, t.deck.DealN(3)...)
	case Flop:
		t.Phase = Turn
		t.CommunityCards = append(t.CommunityCards, t.deck.DealN(1)...)
	case Turn:
		t.Phase = River
		t.CommunityCards = append(t.CommunityCards, t.deck.DealN(1)...)
	case River:
		t.Phase = Showdown
		return t.showdown()
	}

	event := Event{
		Type: EventPhaseChange,
		Payload: PhaseChangePayload{
			Phase:          t.Phase.String(),
			CommunityCards: cardViews(t.CommunityCards),
			Pot:            t.Pot,
		},
	}

	n := len(t.Players)
	next := t.skipToActable((t.DealerIndex + 1) % n)
	t.CurrentTurn = &next

	if !t.anyoneCanAct() {
		t.CurrentTurn = nil
		return append([]Event{event}, t.nextPhase()...)
	}

	return []Event{event}
}

// anyoneCanAct reports whether any seated player is still eligible to
// receive a turn this hand.
func (t *Table) anyoneCanAct() bool {
	for _, p := range t.Players {
		if p.CanAct() {
			return true
		}
	}
	return false
}

// showdown evaluates every non-folded hand and hands the pot to the best
// rank, breaking exact ties toward the earliest seat clockwise from
// dealer+1 (a documented tie-break decision, not casino rule).
func (t *Table) showdown() []Event {
	active := t.activePlayers()
	if len(active) == 0 {
		return nil
	}

	n := len(t.Players)
	var winner *Player
	var bestRank evaluator.HandRank
	var handName string
	for i := 0; i < n; i++ {
		seat := (t.DealerIndex + 1 + i) % n
		p := t.Players[seat]
		if p.Folded || p.Sitout {
			continue
		}
		rank := evaluator.Evaluate7(append(append([]deck.Card{}, p.HoleCards...), t.CommunityCards...))
		if winner == nil || rank.Compare(bestRank) > 0 {
			winner = p
			bestRank = rank
			handName = rank.String()
		}
	}

	return t.endHand(winner, handName)
}

// endHand awards the pot, reveals provenance, rotates the dealer and,
// if enough players remain, immediately starts the next hand.
func (t *Table) endHand(winner *Player, handName string) []Event {
	amount := t.Pot
	winner.Chips += amount
	t.Pot = 0

	events := []Event{{
		Type: EventShowdown,
		Payload: ShowdownPayload{
			WinnerID:     winner.ID,
			Amount:       amount,
			WinningHand:  handName,
			ServerSecret: t.ServerSecret,
			HandID:       t.HandID,
		},
	}}

	t.Phase = Waiting
	t.CommunityCards = nil
	t.CurrentTurn = nil
	if len(t.Players) > 0 {
		t.DealerIndex = (t.DealerIndex + 1) % len(t.Players)
	}

	if len(t.Players) >= 2 {
		events = append(events, t.startHand()...)
	}
	return events
}
