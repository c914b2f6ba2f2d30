package game

import "github.com/pattrick12/poker/internal/deck"

// CardView is the wire representation of a card inside an event payload.
// deck.Card already marshals this way; CardView exists so payload structs
// can reference it without importing deck directly into every call site.
type CardView struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

func newCardView(c deck.Card) CardView {
	return CardView{Rank: c.Rank.String(), Suit: c.Suit.String()}
}

func cardViews(cards []deck.Card) []CardView {
	views := make([]CardView, len(cards))
	for i, c := range cards {
		views[i] = newCardView(c)
	}
	return views
}

// PlayerView is the public projection of a Player: no hole cards. No event
// payload carries hole cards, the showdown payload included.
type PlayerView struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
	Chips    int    `json:"chips"`
	Bet      int    `json:"current_bet"`
	Folded   bool   `json:"folded"`
	Sitout   bool   `json:"sitout"`
}

func playerView(p *Player) PlayerView {
	return PlayerView{
		PlayerID: p.ID,
		Username: p.Username,
		Chips:    p.Chips,
		Bet:      p.CurrentBet,
		Folded:   p.Folded,
		Sitout:   p.Sitout,
	}
}

func (t *Table) playerViews() []PlayerView {
	views := make([]PlayerView, len(t.Players))
	for i, p := range t.Players {
		views[i] = playerView(p)
	}
	return views
}

// StateView is the masked, client-safe projection of a table's state: no
// hole cards, no deck, no server secret. It is what a consolidated `update`
// broadcast carries as its "state" field.
type StateView struct {
	TableID          string       `json:"table_id"`
	Phase            string       `json:"phase"`
	Pot              int          `json:"pot"`
	CommunityCards   []CardView   `json:"community_cards"`
	DealerIndex      int          `json:"dealer_index"`
	CurrentTurnIndex *int         `json:"current_turn_index"`
	MinBet           int          `json:"min_bet"`
	ActionsThisRound int          `json:"actions_this_round"`
	Players          []PlayerView `json:"players"`
}

// ClientView renders the table's current state masked for broadcast.
func (t *Table) ClientView() StateView {
	var turn *int
	if t.CurrentTurn != nil {
		v := *t.CurrentTurn
		turn = &v
	}
	return StateView{
		TableID:          t.TableID,
		Phase:            t.Phase.String(),
		Pot:              t.Pot,
		CommunityCards:   cardViews(t.CommunityCards),
		DealerIndex:      t.DealerIndex,
		CurrentTurnIndex: turn,
		MinBet:           t.MinBet,
		ActionsThisRound: t.ActionsThisRound,
		Players:          t.playerViews(),
	}
}
