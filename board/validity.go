package board

// Validity is the result of checking a turn's placement. An invalid turn
// is not an error; Reason is meant to be shown to the player as is.
type Validity struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

const (
	ReasonNoLetters   = "must place at least one letter"
	ReasonNoCenter    = "first word must cross center"
	ReasonNotInLine   = "not all letters are in a row/column"
	ReasonNotAdjacent = "must place adjacent to existing word"
	ReasonGap         = "all letters must form a single word"
)

func valid() Validity { return Validity{Valid: true} }

func invalid(reason string) Validity { return Validity{Reason: reason} }

// IsTurnValid checks the letters placed on the given turn. The rules are
// applied in order and the first one that fails decides the reason.
func (b *Board) IsTurnValid(turn int) Validity {
	placed := b.LettersForTurn(turn)
	if len(placed) == 0 {
		return invalid(ReasonNoLetters)
	}

	firstMove := !b.hasLettersBefore(turn)
	if firstMove {
		crosses := false
		for _, sq := range placed {
			if sq.Position == Center {
				crosses = true
				break
			}
		}
		if !crosses {
			return invalid(ReasonNoCenter)
		}
	}

	sameRow, sameCol := true, true
	for _, sq := range placed[1:] {
		if sq.Position.Y != placed[0].Position.Y {
			sameRow = false
		}
		if sq.Position.X != placed[0].Position.X {
			sameCol = false
		}
	}
	if !sameRow && !sameCol {
		return invalid(ReasonNotInLine)
	}

	if !firstMove && !b.touchesEarlierTurn(placed, turn) {
		return invalid(ReasonNotAdjacent)
	}

	// placed is in row-major order, so first and last bound the span on
	// either axis.
	from, to := placed[0].Position, placed[len(placed)-1].Position
	dx, dy := 1, 0
	if !sameRow {
		dx, dy = 0, 1
	}
	for p := from; p != to; p = p.Add(dx, dy) {
		if b.IsEmptyAt(p) {
			return invalid(ReasonGap)
		}
	}
	return valid()
}

func (b *Board) touchesEarlierTurn(placed []Square, turn int) bool {
	for _, sq := range placed {
		for _, n := range neighbors(sq.Position) {
			c := b.At(n)
			if c.Filled && c.Turn < turn {
				return true
			}
		}
	}
	return false
}

func neighbors(p Position) [4]Position {
	return [4]Position{p.Add(-1, 0), p.Add(1, 0), p.Add(0, -1), p.Add(0, 1)}
}
