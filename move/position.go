// Package move describes where a tile can be and how it moves: a Position
// is either a board coordinate or a slot on a specific player's rack, and a
// CellMove carries a tile from one Position to another.
package move

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/Prior99/frabble/board"
)

// ErrUnknownPosition is returned for a position of a kind this package
// does not know about. It is a protocol error, never a user error.
var ErrUnknownPosition = errors.New("unknown position kind")

// Kind tags the variants of Position.
type Kind string

const (
	KindBoard Kind = "board"
	KindRack  Kind = "stand"
)

// Position is a closed union: BoardPosition or RackPosition. Switch on
// the concrete type and treat anything else as ErrUnknownPosition.
type Position interface {
	Kind() Kind
	String() string
	position()
}

// BoardPosition is a square on the board.
type BoardPosition struct {
	X int
	Y int
}

// RackPosition is a slot on a player's rack.
type RackPosition struct {
	PlayerID string
	Index    int
}

func (BoardPosition) Kind() Kind { return KindBoard }
func (RackPosition) Kind() Kind  { return KindRack }

func (BoardPosition) position() {}
func (RackPosition) position()  {}

// Board converts to a board coordinate.
func (p BoardPosition) Board() board.Position {
	return board.Position{X: p.X, Y: p.Y}
}

func (p BoardPosition) String() string {
	return fmt.Sprintf("b:%d,%d", p.X, p.Y)
}

func (p RackPosition) String() string {
	return fmt.Sprintf("r:%s/%d", p.PlayerID, p.Index)
}

// OnBoard wraps a board coordinate.
func OnBoard(p board.Position) BoardPosition {
	return BoardPosition{X: p.X, Y: p.Y}
}

// OnRack names a rack slot.
func OnRack(playerID string, index int) RackPosition {
	return RackPosition{PlayerID: playerID, Index: index}
}

// wirePosition is the flat JSON shape of both variants.
type wirePosition struct {
	Type     Kind   `json:"type"`
	X        int    `json:"x,omitempty"`
	Y        int    `json:"y,omitempty"`
	PlayerID string `json:"player_id,omitempty"`
	Index    int    `json:"index,omitempty"`
}

func toWire(p Position) (wirePosition, error) {
	switch v := p.(type) {
	case BoardPosition:
		return wirePosition{Type: KindBoard, X: v.X, Y: v.Y}, nil
	case RackPosition:
		return wirePosition{Type: KindRack, PlayerID: v.PlayerID, Index: v.Index}, nil
	}
	return wirePosition{}, fmt.Errorf("%w: %T", ErrUnknownPosition, p)
}

func fromWire(w wirePosition) (Position, error) {
	switch w.Type {
	case KindBoard:
		return BoardPosition{X: w.X, Y: w.Y}, nil
	case KindRack:
		if w.PlayerID == "" {
			return nil, fmt.Errorf("%w: rack position without player", ErrUnknownPosition)
		}
		return RackPosition{PlayerID: w.PlayerID, Index: w.Index}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPosition, w.Type)
}

// MarshalPosition encodes either variant as a tagged JSON object.
func MarshalPosition(p Position) ([]byte, error) {
	w, err := toWire(p)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// UnmarshalPosition decodes a tagged JSON object.
func UnmarshalPosition(data []byte) (Position, error) {
	var w wirePosition
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return fromWire(w)
}

// Positions is a list of positions that encodes as a JSON array of tagged
// objects.
type Positions []Position

func (ps Positions) MarshalJSON() ([]byte, error) {
	ws := make([]wirePosition, 0, len(ps))
	for _, p := range ps {
		w, err := toWire(p)
		if err != nil {
			return nil, err
		}
		ws = append(ws, w)
	}
	return json.Marshal(ws)
}

func (ps *Positions) UnmarshalJSON(data []byte) error {
	var ws []wirePosition
	if err := json.Unmarshal(data, &ws); err != nil {
		return err
	}
	out := make(Positions, 0, len(ws))
	for _, w := range ws {
		p, err := fromWire(w)
		if err != nil {
			return err
		}
		out = append(out, p)
	}
	*ps = out
	return nil
}

var (
	reBoard = regexp.MustCompile(`^b:(-?[0-9]+),(-?[0-9]+)$`)
	reRack  = regexp.MustCompile(`^r:(?:([^/]+)/)?([0-9]+)$`)
)

// ParsePosition reads the short form used on the command line: "b:x,y"
// for a board square, "r:n" for a slot on the given player's rack, or
// "r:player/n" for a slot on someone else's.
func ParsePosition(s, playerID string) (Position, error) {
	if m := reBoard.FindStringSubmatch(s); m != nil {
		x, _ := strconv.Atoi(m[1])
		y, _ := strconv.Atoi(m[2])
		return BoardPosition{X: x, Y: y}, nil
	}
	if m := reRack.FindStringSubmatch(s); m != nil {
		idx, _ := strconv.Atoi(m[2])
		if m[1] != "" {
			playerID = m[1]
		}
		return RackPosition{PlayerID: playerID, Index: idx}, nil
	}
	return nil, fmt.Errorf("cannot parse position %q; use b:x,y or r:slot", s)
}
