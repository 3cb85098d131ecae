package board

import (
	"fmt"

	"github.com/Prior99/frabble/tilemapping"
)

// A CellMode is the bonus classification of a board position.
type CellMode uint8

const (
	Standard CellMode = iota
	Root
	LetterDouble
	LetterTriple
	WordDouble
	WordTriple
)

// A BonusSquare is the glyph printed for a bonus when the square is empty.
type BonusSquare rune

const (
	BonusRoot BonusSquare = '*'
	// Bonus3WS is a triple word score
	Bonus3WS BonusSquare = '='
	// Bonus3LS is a triple letter score
	Bonus3LS BonusSquare = '"'
	// Bonus2LS is a double letter score
	Bonus2LS BonusSquare = '\''
	// Bonus2WS is a double word score
	Bonus2WS BonusSquare = '-'
	BonusNone BonusSquare = '.'
)

func (m CellMode) String() string {
	switch m {
	case Root:
		return "root"
	case LetterDouble:
		return "letter-double"
	case LetterTriple:
		return "letter-triple"
	case WordDouble:
		return "word-double"
	case WordTriple:
		return "word-triple"
	}
	return "standard"
}

// Bonus returns the display glyph of the mode.
func (m CellMode) Bonus() BonusSquare {
	switch m {
	case Root:
		return BonusRoot
	case LetterDouble:
		return Bonus2LS
	case LetterTriple:
		return Bonus3LS
	case WordDouble:
		return Bonus2WS
	case WordTriple:
		return Bonus3WS
	}
	return BonusNone
}

// LetterMultiplier applies to a tile placed on this square on the turn it
// was placed.
func (m CellMode) LetterMultiplier() int {
	switch m {
	case LetterDouble:
		return 2
	case LetterTriple:
		return 3
	}
	return 1
}

// WordMultiplier applies to every word through this square on the turn a
// tile was placed on it. The root square counts as a double word.
func (m CellMode) WordMultiplier() int {
	switch m {
	case Root, WordDouble:
		return 2
	case WordTriple:
		return 3
	}
	return 1
}

// ModeAt classifies a position. The rule only looks at |x| and |y| and
// treats them symmetrically, so the layout is mirrored across both axes and
// the diagonal.
func ModeAt(p Position) CellMode {
	if !p.InRange() {
		return Standard
	}
	a := p.Abs()
	pair := func(x, y int) bool {
		return (a.X == x && a.Y == y) || (a.X == y && a.Y == x)
	}
	switch {
	case a.X == 0 && a.Y == 0:
		return Root
	case pair(7, 7), pair(7, 0):
		return WordTriple
	case a.X == a.Y && a.X == 1:
		return LetterDouble
	case a.X == a.Y && a.X == 2:
		return LetterTriple
	case a.X == a.Y:
		return WordDouble
	case pair(7, 4), pair(5, 1), pair(4, 0):
		return LetterDouble
	case pair(6, 2):
		return LetterTriple
	}
	return Standard
}

// A Cell is either empty or holds a tile, the player that placed it, and
// the turn it was placed on.
type Cell struct {
	Filled   bool               `json:"filled" yaml:"filled"`
	Letter   tilemapping.Letter `json:"letter,omitempty" yaml:"letter,omitempty"`
	PlayerID string             `json:"player_id,omitempty" yaml:"player_id,omitempty"`
	Turn     int                `json:"turn,omitempty" yaml:"turn,omitempty"`
}

// EmptyCell is the value of every cell on a fresh board.
var EmptyCell = Cell{}

func (c Cell) IsEmpty() bool {
	return !c.Filled
}

func (c Cell) String() string {
	if c.IsEmpty() {
		return "<empty>"
	}
	return fmt.Sprintf("<%v by %s on %d>", c.Letter, c.PlayerID, c.Turn)
}

// A Square is a position together with its cell and mode, as produced by
// iterating the board.
type Square struct {
	Position Position `json:"position" yaml:"position"`
	Cell     Cell     `json:"cell" yaml:"cell"`
	Mode     CellMode `json:"-" yaml:"-"`
}

// DisplayString is the one-glyph rendering used by ToDisplayText.
func (s Square) DisplayString() string {
	if s.Cell.IsEmpty() {
		return string(s.Mode.Bonus())
	}
	return s.Cell.Letter.UserVisible()
}
