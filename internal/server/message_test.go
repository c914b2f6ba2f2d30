package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pattrick12/poker/internal/game"
)

func TestActionMessage_ToActionRequest(t *testing.T) {
	cases := []struct {
		action   string
		wantType game.ActionType
	}{
		{"join", game.Join},
		{"fold", game.Fold},
		{"check", game.Check},
		{"call", game.Call},
		{"raise", game.Raise},
	}

	for _, tc := range cases {
		msg := ActionMessage{Action: tc.action, PlayerID: "p1", Amount: 40}
		req := msg.toActionRequest()
		assert.Equal(t, tc.wantType, req.Type, tc.action)
		assert.Equal(t, "p1", req.PlayerID)
		assert.Equal(t, 40, req.Amount)
	}
}

func TestActionMessage_UnknownActionIsIgnorable(t *testing.T) {
	msg := ActionMessage{Action: "not-a-real-action", PlayerID: "p1"}
	req := msg.toActionRequest()
	assert.Equal(t, game.ActionType(-1), req.Type)
}
