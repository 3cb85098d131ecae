package game

import (
	"slices"

	"github.com/Prior99/frabble/message"
	"github.com/Prior99/frabble/move"
)

// exchange is the local player's selection of rack slots to swap with the
// bag. It only exists on the local peer and never goes over the wire until
// it is confirmed.
type exchange struct {
	marked []int
}

// StartPassing opens an empty exchange selection.
func (g *Game) StartPassing() error {
	if !g.IsLocalTurn() {
		return ErrNotLocalTurn
	}
	g.passing = &exchange{}
	return nil
}

// IsPassing reports whether an exchange selection is open.
func (g *Game) IsPassing() bool {
	return g.passing != nil
}

// Marked returns the selected rack slots in the order they were marked.
func (g *Game) Marked() []int {
	if g.passing == nil {
		return nil
	}
	return slices.Clone(g.passing.marked)
}

// Mark selects a slot of the local rack for exchange.
func (g *Game) Mark(slot int) error {
	if g.passing == nil {
		return ErrNotPassing
	}
	rack := g.Rack(g.localID)
	if rack == nil {
		return ErrNoLetter
	}
	if _, ok := rack.At(slot); !ok {
		return ErrNoLetter
	}
	if slices.Contains(g.passing.marked, slot) {
		return ErrAlreadyMarked
	}
	g.passing.marked = append(g.passing.marked, slot)
	return nil
}

// Unmark removes a slot from the selection.
func (g *Game) Unmark(slot int) error {
	if g.passing == nil {
		return ErrNotPassing
	}
	i := slices.Index(g.passing.marked, slot)
	if i < 0 {
		return ErrNotMarked
	}
	g.passing.marked = slices.Delete(g.passing.marked, i, i+1)
	return nil
}

// unmark drops a slot whose tile left the rack.
func (g *Game) unmark(slot int) {
	if g.passing == nil {
		return
	}
	if i := slices.Index(g.passing.marked, slot); i >= 0 {
		g.passing.marked = slices.Delete(g.passing.marked, i, i+1)
	}
}

// CancelPassing discards the selection.
func (g *Game) CancelPassing() {
	g.passing = nil
}

// ConfirmPassing returns the messages that carry out the pass: first the
// letters placed this turn go back to the rack, then a Pass exchanging the
// selected slots. The selection stays open until the Pass is applied.
func (g *Game) ConfirmPassing() ([]message.ClientMessage, error) {
	if g.passing == nil {
		return nil, ErrNotPassing
	}
	if !g.IsLocalTurn() {
		return nil, ErrNotLocalTurn
	}
	rack := g.Rack(g.localID)
	exchanged := move.Positions{}
	for _, slot := range g.passing.marked {
		if _, ok := rack.At(slot); ok {
			exchanged = append(exchanged, move.OnRack(g.localID, slot))
		}
	}
	msgs := g.returnLetters()
	return append(msgs, message.Pass{Exchanged: exchanged}), nil
}

// returnLetters builds the moves that put every letter placed this turn
// back into the lowest free slots of the local rack.
func (g *Game) returnLetters() []message.ClientMessage {
	rack := g.Rack(g.localID)
	var msgs []message.ClientMessage
	next := 0
	for _, sq := range g.board.LettersForTurn(g.turn) {
		slot := rack.NextFreePosition(next)
		next = slot + 1
		msgs = append(msgs, message.NewCellMove(
			move.OnBoard(sq.Position), move.OnRack(g.localID, slot)))
	}
	return msgs
}
