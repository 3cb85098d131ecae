package game

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/Prior99/frabble/board"
	"github.com/Prior99/frabble/message"
	"github.com/Prior99/frabble/move"
	"github.com/Prior99/frabble/tilemapping"
)

// resolved is a position checked against the current state.
type resolved struct {
	onBoard bool
	square  board.Position
	rack    *tilemapping.Rack
	slot    int
}

func (g *Game) resolve(p move.Position, owner string) (resolved, error) {
	switch v := p.(type) {
	case move.BoardPosition:
		sq := v.Board()
		if !sq.InRange() {
			return resolved{}, fmt.Errorf("%w: %w", ErrInconsistent, board.ErrOutOfRange)
		}
		return resolved{onBoard: true, square: sq}, nil
	case move.RackPosition:
		pl, err := g.player(v.PlayerID)
		if err != nil {
			return resolved{}, err
		}
		if v.PlayerID != owner {
			return resolved{}, fmt.Errorf("%w: rack of %q", ErrImmovable, v.PlayerID)
		}
		// A rack grows at most one slot past its highest one per move.
		if v.Index < 0 || v.Index > pl.rack.MaxIndex()+1 {
			return resolved{}, fmt.Errorf("%w: slot %d", ErrInconsistent, v.Index)
		}
		return resolved{rack: pl.rack, slot: v.Index}, nil
	}
	return resolved{}, fmt.Errorf("%w: %w: %T", ErrInconsistent, move.ErrUnknownPosition, p)
}

func (g *Game) letterAt(r resolved) (tilemapping.Letter, bool) {
	if r.onBoard {
		c := g.board.At(r.square)
		return c.Letter, c.Filled
	}
	return r.rack.At(r.slot)
}

func (g *Game) cellMove(origin string, source, target move.Position) error {
	if _, err := g.requireTurn(origin); err != nil {
		return err
	}
	src, err := g.resolve(source, origin)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	dst, err := g.resolve(target, origin)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}
	l, ok := g.letterAt(src)
	if !ok {
		return fmt.Errorf("%w at %v", ErrEmptyCell, source)
	}
	if src.onBoard {
		if c := g.board.At(src.square); c.Turn != g.turn {
			return fmt.Errorf("%w: %v was placed on turn %d", ErrImmovable, source, c.Turn)
		}
	}
	if source == target {
		return nil
	}
	if _, occupied := g.letterAt(dst); occupied {
		return fmt.Errorf("%w at %v", ErrTargetOccupied, target)
	}

	// Remove first, so moving within one rack never duplicates a tile.
	if src.onBoard {
		if _, err := g.board.Remove(src.square); err != nil {
			return err
		}
	} else {
		src.rack.Remove(src.slot)
		g.unmark(src.slot)
	}
	if dst.onBoard {
		if err := g.board.Place(dst.square, l, origin, g.turn); err != nil {
			return err
		}
	} else {
		dst.rack.Set(dst.slot, l)
	}

	log.Debug().Str("letter", l.String()).Stringer("from", source).
		Stringer("to", target).Msg("cell-moved")
	g.emit(Event{Type: EventCellMoved, Turn: g.turn, PlayerID: origin})
	return nil
}

func (g *Game) endTurn(origin string) error {
	p, err := g.requireTurn(origin)
	if err != nil {
		return err
	}
	if v := g.board.IsTurnValid(g.turn); !v.Valid {
		return fmt.Errorf("%w: %s", ErrInvalidTurn, v.Reason)
	}

	placed := len(g.board.LettersForTurn(g.turn))
	score := g.CurrentTurnScore()
	bingo := placed == RackTileLimit
	words := lo.Map(g.board.Words(g.turn), func(w board.Word, _ int) string {
		return w.String()
	})

	p.points += score
	p.turns++
	if bingo {
		p.bingos++
	}
	g.passing = nil
	p.drawUpTo(g.bag)

	log.Debug().Str("player", origin).Int("score", score).Bool("bingo", bingo).
		Strs("words", words).Msg("turn-ended")
	g.emit(Event{Type: EventTurnEnded, Turn: g.turn, PlayerID: origin,
		Score: score, Bingo: bingo, Words: words})
	g.advance()
	return nil
}

func (g *Game) pass(origin string, ps message.Pass) error {
	p, err := g.requireTurn(origin)
	if err != nil {
		return err
	}
	slots := make([]int, 0, len(ps.Exchanged))
	seen := map[int]bool{}
	for _, pos := range ps.Exchanged {
		r, err := g.resolve(pos, origin)
		if err != nil {
			return fmt.Errorf("exchange: %w", err)
		}
		if r.onBoard {
			return fmt.Errorf("%w: cannot exchange board position %v", ErrImmovable, pos)
		}
		if _, ok := r.rack.At(r.slot); !ok {
			return fmt.Errorf("%w at %v", ErrEmptyCell, pos)
		}
		if seen[r.slot] {
			return fmt.Errorf("%w: slot %d exchanged twice", ErrInconsistent, r.slot)
		}
		seen[r.slot] = true
		slots = append(slots, r.slot)
	}

	// Anything still on the board from this turn goes back to the rack.
	for _, sq := range g.board.LettersForTurn(g.turn) {
		if _, err := g.board.Remove(sq.Position); err != nil {
			return err
		}
		p.rack.Add(sq.Cell.Letter)
	}

	if len(slots) > 0 {
		returned := p.rack.Remove(slots...)
		p.rack.Add(g.bag.Exchange(returned...)...)
	}
	p.turns++
	g.passedTurns[g.turn] = true
	g.passing = nil
	p.drawUpTo(g.bag)

	log.Debug().Str("player", origin).Int("exchanged", len(slots)).Msg("turn-passed")
	g.emit(Event{Type: EventPassed, Turn: g.turn, PlayerID: origin})
	g.advance()
	return nil
}

// advance moves on to the next turn unless the game is over.
func (g *Game) advance() {
	if g.gameOverCondition() {
		g.endGame()
		return
	}
	g.turn++
	g.startDeadline()
	log.Debug().Int("turn", g.turn).Str("onturn", g.CurrentPlayer()).
		Uint64("fingerprint", g.Fingerprint()).Msg("turn-advanced")
}

// gameOverCondition is evaluated before the turn counter moves. The game
// ends when the bag is empty, some rack is empty and the turn placed
// nothing, or when every player passed twice in a row.
func (g *Game) gameOverCondition() bool {
	if g.bag.IsEmpty() && len(g.board.LettersForTurn(g.turn)) == 0 {
		for _, p := range g.players {
			if p.rack.IsEmpty() {
				return true
			}
		}
	}
	window := 2 * len(g.turnOrder)
	if g.turn < window-1 {
		return false
	}
	for t := g.turn - window + 1; t <= g.turn; t++ {
		if !g.passedTurns[t] {
			return false
		}
	}
	return true
}

func (g *Game) endGame() {
	g.applyPenalty()
	g.phase = message.PhaseGameOver
	g.deadline = nil
	g.passing = nil
	log.Info().Int("turn", g.turn).Interface("scores", g.Scores()).Msg("game-over")
	g.emit(Event{Type: EventGameOver, Turn: g.turn})
}

func (g *Game) applyPenalty() {
	switch g.config.PenaltyRule {
	case message.PenaltyMissingCount:
		for _, p := range g.players {
			p.points -= p.rack.MissingCount()
		}
	default:
		total := 0
		var wentOut []*playerState
		for _, id := range g.turnOrder {
			p := g.players[id]
			left := p.rack.Score(g.letterDistribution)
			p.points -= left
			total += left
			if p.rack.IsEmpty() {
				wentOut = append(wentOut, p)
			}
		}
		for _, p := range wentOut {
			p.points += total
		}
	}
}
