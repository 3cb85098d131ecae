package board

import (
	"github.com/samber/lo"

	"github.com/Prior99/frabble/tilemapping"
)

// Axis is the direction a word runs in.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) step() (int, int) {
	if a == Horizontal {
		return 1, 0
	}
	return 0, 1
}

// A Word is a maximal run of at least two filled cells along one axis.
type Word struct {
	Axis    Axis     `json:"axis"`
	Start   Position `json:"start"`
	Squares []Square `json:"squares"`
}

func (w Word) key() [4]int {
	return [4]int{int(w.Axis), w.Start.X, w.Start.Y, len(w.Squares)}
}

// Letters returns the word's tiles in reading order.
func (w Word) Letters() tilemapping.Word {
	return lo.Map(w.Squares, func(sq Square, _ int) tilemapping.Letter {
		return sq.Cell.Letter
	})
}

func (w Word) String() string {
	return w.Letters().UserVisible()
}

// Score computes the word's value as of the given turn. Letter bonuses
// only count for tiles placed on that turn, and only those tiles
// contribute word multipliers.
func (w Word) Score(ld *tilemapping.LetterDistribution, turn int) int {
	sum, mult := 0, 1
	for _, sq := range w.Squares {
		pts := ld.Score(sq.Cell.Letter)
		if sq.Cell.Turn == turn {
			pts *= sq.Mode.LetterMultiplier()
			mult *= sq.Mode.WordMultiplier()
		}
		sum += pts
	}
	return sum * mult
}

// traceWord walks from p in both directions along the axis and returns the
// maximal run through p. ok is false if the run is a single tile.
func (b *Board) traceWord(p Position, axis Axis) (Word, bool) {
	dx, dy := axis.step()
	start := p
	for b.At(start.Add(-dx, -dy)).Filled {
		start = start.Add(-dx, -dy)
	}
	w := Word{Axis: axis, Start: start}
	for q := start; b.At(q).Filled; q = q.Add(dx, dy) {
		w.Squares = append(w.Squares, Square{Position: q, Cell: b.At(q), Mode: ModeAt(q)})
	}
	return w, len(w.Squares) > 1
}

// Words returns every distinct word that runs through a letter placed on
// the given turn. Two letters of the same turn on the same word yield that
// word once.
func (b *Board) Words(turn int) []Word {
	var words []Word
	seen := make(map[[4]int]bool)
	for _, sq := range b.LettersForTurn(turn) {
		for _, axis := range []Axis{Horizontal, Vertical} {
			w, ok := b.traceWord(sq.Position, axis)
			if !ok || seen[w.key()] {
				continue
			}
			seen[w.key()] = true
			words = append(words, w)
		}
	}
	return words
}

// TurnScore is the sum of the scores of every word formed on the turn.
// A turn that forms no word of two or more letters scores 0.
func (b *Board) TurnScore(turn int, ld *tilemapping.LetterDistribution) int {
	return lo.SumBy(b.Words(turn), func(w Word) int {
		return w.Score(ld, turn)
	})
}
