package game

import "github.com/pattrick12/poker/internal/deck"

// PlayerSnapshot is the full per-hand-mutable projection of a Player,
// hole cards included. It is persisted to the cache; the
// view layer is responsible for masking hole cards before they reach a
// client who isn't that player.
type PlayerSnapshot struct {
	PlayerID   string     `json:"player_id"`
	Username   string     `json:"username"`
	Chips      int        `json:"chips"`
	CurrentBet int        `json:"current_bet"`
	Folded     bool       `json:"folded"`
	AllIn      bool       `json:"all_in"`
	Sitout     bool       `json:"sitout"`
	HoleCards  []CardView `json:"hole_cards"`
}

// Snapshot is the full in-memory data model for one table, the value
// persisted under the cache's table:{id}:state/data field. It carries the
// server secret and commitment, so it is never broadcast to clients
// verbatim.
type Snapshot struct {
	TableID          string           `json:"table_id"`
	Phase            string           `json:"phase"`
	Pot              int              `json:"pot"`
	CommunityCards   []CardView       `json:"community_cards"`
	Players          []PlayerSnapshot `json:"players"`
	DealerIndex      int              `json:"dealer_index"`
	CurrentTurnIndex *int             `json:"current_turn_index"`
	MinBet           int              `json:"min_bet"`
	Deck             []CardView       `json:"deck"`
	ActionsThisRound int              `json:"actions_this_round"`
	HandID           string           `json:"hand_id"`
	ServerSecret     string           `json:"server_secret"`
	Commitment       string           `json:"commitment"`
}

// Snapshot renders the table's complete in-memory state, the way it is
// written to the cache after every applied action.
func (t *Table) Snapshot() Snapshot {
	players := make([]PlayerSnapshot, len(t.Players))
	for i, p := range t.Players {
		players[i] = PlayerSnapshot{
			PlayerID:   p.ID,
			Username:   p.Username,
			Chips:      p.Chips,
			CurrentBet: p.CurrentBet,
			Folded:     p.Folded,
			AllIn:      p.IsAllIn(),
			Sitout:     p.Sitout,
			HoleCards:  cardViews(p.HoleCards),
		}
	}

	var turn *int
	if t.CurrentTurn != nil {
		v := *t.CurrentTurn
		turn = &v
	}

	var remaining []deck.Card
	if t.deck != nil {
		remaining = t.deck.Cards()
	}

	return Snapshot{
		TableID:          t.TableID,
		Phase:            t.Phase.String(),
		Pot:              t.Pot,
		CommunityCards:   cardViews(t.CommunityCards),
		Players:          players,
		DealerIndex:      t.DealerIndex,
		CurrentTurnIndex: turn,
		MinBet:           t.MinBet,
		Deck:             cardViews(remaining),
		ActionsThisRound: t.ActionsThisRound,
		HandID:           t.HandID,
		ServerSecret:     t.ServerSecret,
		Commitment:       t.Commitment,
	}
}
