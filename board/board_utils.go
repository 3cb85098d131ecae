package board

import (
	"fmt"
	"strings"

	"github.com/Prior99/frabble/tilemapping"
)

// ToDisplayText renders the board with signed coordinates on the edges.
// Empty squares show their bonus glyph; tiles placed on the highlighted
// turn are lower-cased.
func (b *Board) ToDisplayText(highlightTurn int) string {
	var sb strings.Builder
	sb.WriteString("    ")
	for x := -HalfExtent; x <= HalfExtent; x++ {
		fmt.Fprintf(&sb, "%3d", x)
	}
	sb.WriteString("\n    " + strings.Repeat("-", Dim*3+2) + "\n")
	for y := -HalfExtent; y <= HalfExtent; y++ {
		fmt.Fprintf(&sb, "%3d| ", y)
		for x := -HalfExtent; x <= HalfExtent; x++ {
			p := Position{X: x, Y: y}
			sq := Square{Position: p, Cell: b.At(p), Mode: ModeAt(p)}
			glyph := sq.DisplayString()
			if sq.Cell.Filled && sq.Cell.Turn == highlightTurn {
				glyph = strings.ToLower(glyph)
			}
			fmt.Fprintf(&sb, "%-3s", glyph)
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("    " + strings.Repeat("-", Dim*3+2) + "\n")
	return "\n" + sb.String()
}

// PlaceWord lays a user-visible word on the board starting at p, one tile
// per rune. A '.' skips a square without touching it, so a word can be
// played through tiles that are already there.
func (b *Board) PlaceWord(p Position, axis Axis, word, playerID string, turn int) error {
	dx, dy := axis.step()
	for _, r := range word {
		if r != '.' {
			l, err := tilemapping.ParseLetter(string(r))
			if err != nil {
				return err
			}
			if err := b.Place(p, l, playerID, turn); err != nil {
				return err
			}
		}
		p = p.Add(dx, dy)
	}
	return nil
}
