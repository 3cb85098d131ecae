package message

import (
	"time"

	"github.com/Prior99/frabble/board"
	"github.com/Prior99/frabble/tilemapping"
)

// Score is one player's total.
type Score struct {
	PlayerID string `json:"player_id" yaml:"player_id"`
	Score    int    `json:"score" yaml:"score"`
	Bingos   int    `json:"bingos,omitempty" yaml:"bingos,omitempty"`
	Turns    int    `json:"turns,omitempty" yaml:"turns,omitempty"`
}

// RackState lists the occupied slots of one player's rack.
type RackState struct {
	PlayerID string             `json:"player_id" yaml:"player_id"`
	Slots    []tilemapping.Slot `json:"slots" yaml:"slots"`
}

// Deadline is the wall-clock time at which the turn FromTurn times out.
type Deadline struct {
	At       time.Time `json:"at" yaml:"at"`
	FromTurn int       `json:"from_turn" yaml:"from_turn"`
}

// Snapshot is the complete state of a game. The host sends it point to
// point to a peer that joins late or lost track; the peer replaces its own
// state with it.
type Snapshot struct {
	Config        GameConfig           `json:"config" yaml:"config"`
	Phase         Phase                `json:"phase" yaml:"phase"`
	Board         []board.Square       `json:"board" yaml:"board"`
	Bag           []tilemapping.Letter `json:"bag" yaml:"bag"`
	BagGeneration int                  `json:"bag_generation" yaml:"bag_generation"`
	BagRefills    int                  `json:"bag_refills" yaml:"bag_refills"`
	TurnOrder     []string             `json:"turn_order" yaml:"turn_order"`
	Turn          int                  `json:"turn" yaml:"turn"`
	Scores        []Score              `json:"scores" yaml:"scores"`
	Racks         []RackState          `json:"racks" yaml:"racks"`
	Deadline      *Deadline            `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	PassedTurns   []int                `json:"passed_turns" yaml:"passed_turns"`
	// Checksum is the sender's state fingerprint; a peer that restored the
	// snapshot must arrive at the same value.
	Checksum uint64 `json:"checksum" yaml:"checksum"`
}
