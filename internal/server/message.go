// Package server hosts the collaborator ports — cache,
// bus, audit log, socket set — and the table engine that drives a
// game.Table against them under a per-table exclusive lock.
package server

import "github.com/pattrick12/poker/internal/game"

// ActionMessage is the client → server action envelope. Unknown or absent
// fields are ignored by game.Table.Apply.
type ActionMessage struct {
	Type     string `json:"type"`
	Action   string `json:"action"`
	PlayerID string `json:"player_id"`
	Username string `json:"username,omitempty"`
	Buyin    int    `json:"buyin,omitempty"`
	Amount   int    `json:"amount,omitempty"`
}

// toActionRequest converts the wire envelope into the FSM's ActionRequest.
// An unrecognized action string yields a request type the FSM's Apply
// dispatch falls through on (no event, no mutation).
func (m ActionMessage) toActionRequest() game.ActionRequest {
	req := game.ActionRequest{
		PlayerID: m.PlayerID,
		Username: m.Username,
		Buyin:    m.Buyin,
		Amount:   m.Amount,
	}
	switch m.Action {
	case "join":
		req.Type = game.Join
	case "fold":
		req.Type = game.Fold
	case "check":
		req.Type = game.Check
	case "call":
		req.Type = game.Call
	case "raise":
		req.Type = game.Raise
	default:
		req.Type = -1
	}
	return req
}

// UpdateMessage is the server → client update envelope: one consolidated
// broadcast per processed action, carrying the new seq, the masked
// client-facing state, and every event the action produced.
type UpdateMessage struct {
	Type    string         `json:"type"`
	TableID string         `json:"table_id"`
	Seq     uint64         `json:"seq"`
	State   game.StateView `json:"state"`
	Events  []game.Event   `json:"events"`
}
