// Package board holds the game board: a fixed 15x15 grid addressed by
// signed coordinates centered on the origin. It knows where tiles are, who
// placed them and on which turn, and from that alone can decide whether a
// turn's placement is legal and what it scores.
package board

import (
	"errors"
	"fmt"
	"iter"

	"github.com/Prior99/frabble/tilemapping"
)

const (
	// Dim is the width and height of the board.
	Dim = 15
	// HalfExtent is the largest valid absolute coordinate.
	HalfExtent = Dim / 2
)

// ErrOutOfRange is returned for any access outside the board.
var ErrOutOfRange = errors.New("position is not on the board")

// Position is a board coordinate; (0, 0) is the center, x grows to the
// right and y grows downwards.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Center is the root square every first word has to cross.
var Center = Position{}

func (p Position) InRange() bool {
	return p.X >= -HalfExtent && p.X <= HalfExtent &&
		p.Y >= -HalfExtent && p.Y <= HalfExtent
}

func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) Abs() Position {
	return Position{X: abs(p.X), Y: abs(p.Y)}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// IterOrder selects the scan order of Iterate.
type IterOrder int

const (
	// RightDown scans row by row, left to right, top to bottom.
	RightDown IterOrder = iota
	// DownRight scans column by column, top to bottom, left to right.
	DownRight
)

// A Board is the main board structure. Only the game engine writes to it.
type Board struct {
	cells [Dim * Dim]Cell
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Initialize empties every cell.
func (b *Board) Initialize() {
	for i := range b.cells {
		b.cells[i] = EmptyCell
	}
}

func index(p Position) int {
	return (p.Y+HalfExtent)*Dim + (p.X + HalfExtent)
}

// At returns the cell at p; positions off the board read as empty.
func (b *Board) At(p Position) Cell {
	if !p.InRange() {
		return EmptyCell
	}
	return b.cells[index(p)]
}

// IsEmptyAt reports whether there is no tile at p.
func (b *Board) IsEmptyAt(p Position) bool {
	return b.At(p).IsEmpty()
}

// Place puts a tile on the board, overwriting whatever was there. It does
// not check legality; see IsTurnValid.
func (b *Board) Place(p Position, l tilemapping.Letter, playerID string, turn int) error {
	if !p.InRange() {
		return fmt.Errorf("place at %v: %w", p, ErrOutOfRange)
	}
	b.cells[index(p)] = Cell{Filled: true, Letter: l, PlayerID: playerID, Turn: turn}
	return nil
}

// Remove empties the cell at p and returns what was there. Removing an
// empty cell returns EmptyCell.
func (b *Board) Remove(p Position) (Cell, error) {
	if !p.InRange() {
		return EmptyCell, fmt.Errorf("remove at %v: %w", p, ErrOutOfRange)
	}
	c := b.cells[index(p)]
	b.cells[index(p)] = EmptyCell
	return c, nil
}

// CellMode is the bonus classification at p.
func (b *Board) CellMode(p Position) CellMode {
	return ModeAt(p)
}

// Iterate yields every square of the board in the given order. The
// sequence reads the board lazily and can be ranged over any number of
// times.
func (b *Board) Iterate(order IterOrder) iter.Seq[Square] {
	return func(yield func(Square) bool) {
		for outer := -HalfExtent; outer <= HalfExtent; outer++ {
			for inner := -HalfExtent; inner <= HalfExtent; inner++ {
				p := Position{X: inner, Y: outer}
				if order == DownRight {
					p = Position{X: outer, Y: inner}
				}
				if !yield(Square{Position: p, Cell: b.At(p), Mode: ModeAt(p)}) {
					return
				}
			}
		}
	}
}

// Cells returns every occupied square in RightDown order.
func (b *Board) Cells() []Square {
	var out []Square
	for sq := range b.Iterate(RightDown) {
		if sq.Cell.Filled {
			out = append(out, sq)
		}
	}
	return out
}

// SetCells replaces the board contents with the given squares.
func (b *Board) SetCells(squares []Square) error {
	b.Initialize()
	for _, sq := range squares {
		if !sq.Position.InRange() {
			return fmt.Errorf("restore at %v: %w", sq.Position, ErrOutOfRange)
		}
		c := sq.Cell
		c.Filled = true
		b.cells[index(sq.Position)] = c
	}
	return nil
}

// LettersForTurn returns the squares filled on the given turn, in board
// order.
func (b *Board) LettersForTurn(turn int) []Square {
	var out []Square
	for sq := range b.Iterate(RightDown) {
		if sq.Cell.Filled && sq.Cell.Turn == turn {
			out = append(out, sq)
		}
	}
	return out
}

// Count is the number of tiles on the board.
func (b *Board) Count() int {
	n := 0
	for _, c := range b.cells {
		if c.Filled {
			n++
		}
	}
	return n
}

// IsEmpty returns if the board has no tiles at all.
func (b *Board) IsEmpty() bool {
	return b.Count() == 0
}

// hasLettersBefore reports whether any tile was placed before the turn.
func (b *Board) hasLettersBefore(turn int) bool {
	for _, c := range b.cells {
		if c.Filled && c.Turn < turn {
			return true
		}
	}
	return false
}
