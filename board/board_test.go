package board

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/Prior99/frabble/tilemapping"
)

func TestModeSymmetry(t *testing.T) {
	is := is.New(t)
	for y := -HalfExtent; y <= HalfExtent; y++ {
		for x := -HalfExtent; x <= HalfExtent; x++ {
			m := ModeAt(Position{x, y})
			is.Equal(m, ModeAt(Position{-x, y}))
			is.Equal(m, ModeAt(Position{x, -y}))
			is.Equal(m, ModeAt(Position{y, x}))
		}
	}
}

func TestModeAt(t *testing.T) {
	is := is.New(t)
	cases := []struct {
		p    Position
		mode CellMode
	}{
		{Position{0, 0}, Root},
		{Position{7, 7}, WordTriple},
		{Position{-7, 0}, WordTriple},
		{Position{0, 7}, WordTriple},
		{Position{3, 3}, WordDouble},
		{Position{-6, 6}, WordDouble},
		{Position{1, -1}, LetterDouble},
		{Position{2, 2}, LetterTriple},
		{Position{4, 7}, LetterDouble},
		{Position{-5, 1}, LetterDouble},
		{Position{0, 4}, LetterDouble},
		{Position{2, -6}, LetterTriple},
		{Position{3, 0}, Standard},
		{Position{1, 0}, Standard},
		{Position{8, 0}, Standard},
	}
	for _, tc := range cases {
		is.Equal(ModeAt(tc.p), tc.mode)
	}
	is.Equal(Root.WordMultiplier(), 2)
	is.Equal(WordTriple.WordMultiplier(), 3)
	is.Equal(LetterTriple.LetterMultiplier(), 3)
	is.Equal(LetterTriple.WordMultiplier(), 1)
}

func TestOutOfRange(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	err := b.Place(Position{8, 0}, tilemapping.A, "p1", 0)
	is.True(errors.Is(err, ErrOutOfRange))
	_, err = b.Remove(Position{0, -8})
	is.True(errors.Is(err, ErrOutOfRange))
	is.Equal(b.At(Position{100, 100}), EmptyCell)
	is.True(b.IsEmpty())
}

func TestPlaceRemove(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	is.NoErr(b.Place(Position{2, -3}, tilemapping.Q, "p1", 4))
	is.Equal(b.At(Position{2, -3}), Cell{Filled: true, Letter: tilemapping.Q, PlayerID: "p1", Turn: 4})
	is.Equal(b.Count(), 1)

	c, err := b.Remove(Position{2, -3})
	is.NoErr(err)
	is.Equal(c.Letter, tilemapping.Q)
	is.True(b.IsEmptyAt(Position{2, -3}))

	// removing again degrades to an empty cell
	c, err = b.Remove(Position{2, -3})
	is.NoErr(err)
	is.True(c.IsEmpty())
}

func TestIterateOrders(t *testing.T) {
	is := is.New(t)
	b := NewBoard()

	var rd, dr []Position
	for sq := range b.Iterate(RightDown) {
		rd = append(rd, sq.Position)
	}
	for sq := range b.Iterate(DownRight) {
		dr = append(dr, sq.Position)
	}
	is.Equal(len(rd), Dim*Dim)
	is.Equal(len(dr), Dim*Dim)
	is.Equal(rd[:2], []Position{{-7, -7}, {-6, -7}})
	is.Equal(dr[:2], []Position{{-7, -7}, {-7, -6}})
	is.Equal(rd[len(rd)-1], Position{7, 7})

	// restartable, and stops when asked to
	n := 0
	for range b.Iterate(RightDown) {
		n++
		if n == 10 {
			break
		}
	}
	is.Equal(n, 10)
}

func TestLettersForTurn(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	is.NoErr(b.PlaceWord(Position{0, 0}, Horizontal, "TE", "p1", 0))
	is.NoErr(b.PlaceWord(Position{1, -1}, Vertical, "R.", "p2", 1))
	is.NoErr(b.Place(Position{1, 1}, tilemapping.N, "p2", 1))

	sqs := b.LettersForTurn(1)
	is.Equal(len(sqs), 2)
	is.Equal(sqs[0].Position, Position{1, -1})
	is.Equal(sqs[1].Position, Position{1, 1})
	is.Equal(len(b.LettersForTurn(0)), 2)
	is.Equal(len(b.LettersForTurn(2)), 0)
}

func TestValidityNoLetters(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	is.Equal(b.IsTurnValid(0), Validity{Reason: ReasonNoLetters})
}

func TestValidityFirstMove(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	is.NoErr(b.Place(Position{1, 0}, tilemapping.A, "p1", 0))
	v := b.IsTurnValid(0)
	is.True(!v.Valid)
	is.True(strings.Contains(v.Reason, "center"))

	b.Initialize()
	is.NoErr(b.PlaceWord(Position{0, 0}, Horizontal, "AB", "p1", 0))
	is.True(b.IsTurnValid(0).Valid)
}

func TestValidityNotInLine(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	is.NoErr(b.Place(Position{0, 0}, tilemapping.A, "p1", 0))
	is.NoErr(b.Place(Position{1, 1}, tilemapping.B, "p1", 0))
	is.Equal(b.IsTurnValid(0).Reason, ReasonNotInLine)
}

func TestValidityAdjacency(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	is.NoErr(b.PlaceWord(Position{0, 0}, Horizontal, "TE", "p1", 0))
	is.NoErr(b.PlaceWord(Position{5, 5}, Horizontal, "AB", "p2", 1))
	v := b.IsTurnValid(1)
	is.True(!v.Valid)
	is.True(strings.Contains(v.Reason, "adjacent"))
}

func TestValidityGap(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	is.NoErr(b.Place(Position{0, 0}, tilemapping.A, "p1", 0))
	is.NoErr(b.Place(Position{2, 0}, tilemapping.B, "p1", 0))
	v := b.IsTurnValid(0)
	is.True(!v.Valid)
	is.True(strings.Contains(v.Reason, "single word"))

	// a gap bridged by earlier tiles is fine
	b.Initialize()
	is.NoErr(b.PlaceWord(Position{0, 0}, Horizontal, "TE", "p1", 0))
	is.NoErr(b.Place(Position{-1, 0}, tilemapping.S, "p2", 1))
	is.NoErr(b.Place(Position{2, 0}, tilemapping.N, "p2", 1))
	is.True(b.IsTurnValid(1).Valid)
}

func TestValidityGapVertical(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	is.NoErr(b.Place(Position{0, -1}, tilemapping.A, "p1", 0))
	is.NoErr(b.Place(Position{0, 0}, tilemapping.B, "p1", 0))
	is.NoErr(b.Place(Position{0, 2}, tilemapping.C, "p1", 0))
	is.Equal(b.IsTurnValid(0).Reason, ReasonGap)
}

func TestValiditySinglePerpendicularLetter(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	is.NoErr(b.PlaceWord(Position{0, 0}, Horizontal, "TE", "p1", 0))
	is.NoErr(b.Place(Position{0, 1}, tilemapping.O, "p2", 1))
	is.True(b.IsTurnValid(1).Valid)
}

func TestScoreFirstMove(t *testing.T) {
	is := is.New(t)
	ld := tilemapping.Canonical()
	b := NewBoard()
	is.NoErr(b.PlaceWord(Position{0, 0}, Horizontal, "TE", "p1", 0))
	// T on the root doubles the word
	is.Equal(b.TurnScore(0, ld), (1+1)*2)
}

func TestScoreBonusesOnlyOnPlacingTurn(t *testing.T) {
	is := is.New(t)
	ld := tilemapping.Canonical()
	b := NewBoard()
	is.NoErr(b.PlaceWord(Position{0, 0}, Horizontal, "TE", "p1", 0))

	// T sits on the root but was placed earlier: no multiplier.
	is.NoErr(b.Place(Position{0, 1}, tilemapping.O, "p2", 1))
	is.Equal(b.TurnScore(1, ld), 1+2)

	// Q on a double letter square under the E
	is.NoErr(b.Place(Position{1, 1}, tilemapping.Q, "p1", 2))
	words := b.Words(2)
	is.Equal(len(words), 2)
	// EQ down is 1 + 10*2, OQ across is 2 + 10*2
	is.Equal(b.TurnScore(2, ld), 21+22)

	// extending EQ: the Q now counts at face value
	is.NoErr(b.Place(Position{1, 2}, tilemapping.S, "p2", 3))
	is.Equal(b.TurnScore(3, ld), 1+10+1)
}

func TestScoreLShapeDedup(t *testing.T) {
	is := is.New(t)
	ld := tilemapping.Canonical()
	b := NewBoard()
	is.NoErr(b.PlaceWord(Position{0, 0}, Horizontal, "EEE", "p1", 0))
	is.NoErr(b.PlaceWord(Position{0, 1}, Vertical, "EE", "p1", 0))

	words := b.Words(0)
	is.Equal(len(words), 2)
	is.Equal(words[0].Axis, Horizontal)
	is.Equal(words[1].Axis, Vertical)
	is.Equal(words[0].String(), "EEE")
	// the shared E is on the root, so both words double
	is.Equal(b.TurnScore(0, ld), 3*2+3*2)
}

func TestScoreNoWord(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	is.NoErr(b.Place(Position{0, 0}, tilemapping.X, "p1", 0))
	is.Equal(b.TurnScore(0, tilemapping.Canonical()), 0)
	is.Equal(len(b.Words(0)), 0)
}

func TestCellsRoundTrip(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	is.NoErr(b.PlaceWord(Position{-2, 0}, Horizontal, "HÄUS", "p1", 0))
	cells := b.Cells()
	is.Equal(len(cells), 4)
	is.Equal(cells[1].Cell.Letter, tilemapping.AE)

	other := NewBoard()
	is.NoErr(other.SetCells(cells))
	is.Equal(other.Cells(), cells)

	err := other.SetCells([]Square{{Position: Position{9, 9}}})
	is.True(errors.Is(err, ErrOutOfRange))
}

func TestToDisplayText(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	txt := b.ToDisplayText(0)
	is.True(strings.Contains(txt, "*"))
	is.True(strings.Contains(txt, " -7"))

	is.NoErr(b.PlaceWord(Position{0, 0}, Horizontal, "TE", "p1", 0))
	is.True(strings.Contains(b.ToDisplayText(0), "t"))
	is.True(strings.Contains(b.ToDisplayText(1), "T"))
	is.True(!strings.Contains(b.ToDisplayText(0), "*"))
}
