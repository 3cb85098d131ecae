package tilemapping

import (
	"fmt"
	"strings"
)

// A Letter is a single tile value. The zero value is not a letter; it is
// used by callers to mean "no tile".
type Letter uint8

const (
	A Letter = iota + 1
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z
	AE
	OE
	UE
)

// NumLetters is the number of distinct tile values.
const NumLetters = 29

var letterNames = [...]string{
	"", "A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N",
	"O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z", "AE", "OE", "UE",
}

// user-visible glyphs, used when rendering a board or rack.
var letterGlyphs = [...]string{
	"", "A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N",
	"O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z", "Ä", "Ö", "Ü",
}

// IsValid returns whether l is one of the 29 tile values.
func (l Letter) IsValid() bool {
	return l >= A && l <= UE
}

func (l Letter) String() string {
	if !l.IsValid() {
		return fmt.Sprintf("Letter(%d)", uint8(l))
	}
	return letterNames[l]
}

// UserVisible returns the glyph printed on the physical tile.
func (l Letter) UserVisible() string {
	if !l.IsValid() {
		return "?"
	}
	return letterGlyphs[l]
}

// Score is the face value of the letter in the canonical distribution.
func (l Letter) Score() int {
	return Canonical().Score(l)
}

// ParseLetter turns a user-visible or machine name into a Letter. Both
// "AE" and "Ä" are accepted, case-insensitively.
func ParseLetter(s string) (Letter, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for l := A; l <= UE; l++ {
		if letterNames[l] == up || letterGlyphs[l] == up {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown letter %q", s)
}

// MarshalText encodes the letter by name, so wire messages stay readable.
func (l Letter) MarshalText() ([]byte, error) {
	if !l.IsValid() {
		return nil, fmt.Errorf("cannot marshal invalid letter %d", uint8(l))
	}
	return []byte(letterNames[l]), nil
}

func (l *Letter) UnmarshalText(text []byte) error {
	parsed, err := ParseLetter(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Word is a sequence of letters, in board order.
type Word []Letter

// UserVisible returns the word as printed on the tiles.
func (w Word) UserVisible() string {
	var sb strings.Builder
	for _, l := range w {
		sb.WriteString(l.UserVisible())
	}
	return sb.String()
}
