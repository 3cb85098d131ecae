package game

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"

	"github.com/Prior99/frabble/message"
	"github.com/Prior99/frabble/tilemapping"
)

// Scores lists every player's score in turn order.
func (g *Game) Scores() []message.Score {
	out := make([]message.Score, 0, len(g.turnOrder))
	for _, id := range g.turnOrder {
		p := g.players[id]
		out = append(out, message.Score{PlayerID: id, Score: p.points, Bingos: p.bingos, Turns: p.turns})
	}
	return out
}

// Snapshot captures the whole state of the game.
func (g *Game) Snapshot() message.Snapshot {
	s := message.Snapshot{
		Config:        g.config,
		Phase:         g.phase,
		Board:         g.board.Cells(),
		Bag:           g.bag.Letters(),
		BagGeneration: g.bag.Generation(),
		BagRefills:    g.bag.Refills(),
		TurnOrder:     slices.Clone(g.turnOrder),
		Turn:          g.turn,
		Scores:        g.Scores(),
		PassedTurns:   g.PassedTurns(),
		Checksum:      g.Fingerprint(),
	}
	for _, id := range g.turnOrder {
		s.Racks = append(s.Racks, message.RackState{PlayerID: id, Slots: g.players[id].rack.Slots()})
	}
	if g.deadline != nil {
		d := *g.deadline
		s.Deadline = &d
	}
	return s
}

// Restore replaces the state of the game with the snapshot. The bag is
// rebuilt from the seed and checked against the snapshot's bag; if the two
// disagree, or the restored state does not match the snapshot's checksum,
// the game is left as it was and an error wrapping ErrInconsistent is
// returned.
func (g *Game) Restore(s message.Snapshot) error {
	ng := NewGame(g.localID)
	ng.listener, ng.clock, ng.disconnected = g.listener, g.clock, g.disconnected

	ng.config = s.Config
	ng.phase = s.Phase
	switch s.Phase {
	case message.PhaseLobby:
	case message.PhaseStarted, message.PhaseGameOver:
		if err := ng.bag.Reinitialize(s.Config.Seed, s.BagGeneration, s.BagRefills, s.Bag); err != nil {
			return fmt.Errorf("%w: %w", ErrInconsistent, err)
		}
	default:
		return fmt.Errorf("%w: unknown phase %q", ErrInconsistent, s.Phase)
	}

	if err := ng.board.SetCells(s.Board); err != nil {
		return fmt.Errorf("%w: %w", ErrInconsistent, err)
	}
	ng.turnOrder = slices.Clone(s.TurnOrder)
	ng.turn = s.Turn
	for _, id := range ng.turnOrder {
		ng.players[id] = newPlayerState(id)
	}
	for _, sc := range s.Scores {
		p, err := ng.player(sc.PlayerID)
		if err != nil {
			return err
		}
		p.points, p.bingos, p.turns = sc.Score, sc.Bingos, sc.Turns
	}
	for _, r := range s.Racks {
		p, err := ng.player(r.PlayerID)
		if err != nil {
			return err
		}
		p.rack = tilemapping.RackFromSlots(r.Slots)
	}
	for _, t := range s.PassedTurns {
		ng.passedTurns[t] = true
	}
	if s.Deadline != nil {
		d := *s.Deadline
		ng.deadline = &d
	}

	if s.Checksum != 0 {
		if sum := ng.Fingerprint(); sum != s.Checksum {
			return fmt.Errorf("%w: got %x, snapshot says %x", ErrChecksum, sum, s.Checksum)
		}
	}

	*g = *ng
	log.Info().Int("turn", g.turn).Str("phase", string(g.phase)).
		Int("bag", g.bag.Count()).Msg("game-restored")
	g.emit(Event{Type: EventResynced, Turn: g.turn, PlayerID: g.CurrentPlayer()})
	return nil
}

// Fingerprint hashes everything peers must agree on. Wall-clock deadlines
// are left out since every peer starts its own clock.
func (g *Game) Fingerprint() uint64 {
	h := xxhash.New()
	fmt.Fprintf(h, "%s|%s|%s|%d|%s|%d|", g.phase, g.config.Seed, g.config.PenaltyRule,
		g.config.TimeLimit, g.config.Language, g.turn)
	for _, id := range g.turnOrder {
		p := g.players[id]
		fmt.Fprintf(h, "%s:%d:%d:%d:", id, p.points, p.bingos, p.turns)
		for _, s := range p.rack.Slots() {
			fmt.Fprintf(h, "%d=%d,", s.Index, s.Letter)
		}
		h.Write([]byte{'|'})
	}
	for _, sq := range g.board.Cells() {
		fmt.Fprintf(h, "%d,%d=%d/%s/%d;", sq.Position.X, sq.Position.Y,
			sq.Cell.Letter, sq.Cell.PlayerID, sq.Cell.Turn)
	}
	h.Write([]byte{'|'})
	for _, l := range g.bag.Letters() {
		h.Write([]byte{byte(l)})
	}
	fmt.Fprintf(h, "|%d|%d|%v", g.bag.Generation(), g.bag.Refills(), g.PassedTurns())
	return h.Sum64()
}
