package game

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Prior99/frabble/message"
	"github.com/Prior99/frabble/move"
)

// Timeout is polled by the peer's ticker. Once the deadline of the live
// turn has passed, the local player is on turn and every peer is
// connected, it returns the messages that force a pass: the turn's letters
// go back to the rack and nothing is exchanged. It returns nothing on every
// later call for the same turn, so a slow round trip cannot make it fire
// twice.
func (g *Game) Timeout(now time.Time) []message.ClientMessage {
	if g.deadline == nil || g.phase != message.PhaseStarted {
		return nil
	}
	if g.deadline.FromTurn != g.turn || g.timeoutIssued == g.turn {
		return nil
	}
	if now.Before(g.deadline.At) || !g.IsLocalTurn() || len(g.disconnected) > 0 {
		return nil
	}
	g.timeoutIssued = g.turn
	g.passing = &exchange{}
	log.Info().Int("turn", g.turn).Msg("turn-timed-out")
	return append(g.returnLetters(), message.Pass{Exchanged: move.Positions{}})
}
