package message

import (
	"fmt"
	"time"
)

// PenaltyRule selects how unplayed tiles are charged when the game ends.
type PenaltyRule string

const (
	// PenaltyRemainingPoints subtracts the face value of each player's
	// remaining tiles from their score; a player who went out gains the
	// sum of everyone else's remaining tiles.
	PenaltyRemainingPoints PenaltyRule = "remaining-points"
	// PenaltyMissingCount subtracts the number of tiles each rack is
	// short of a full rack.
	PenaltyMissingCount PenaltyRule = "missing-count"
)

// ParsePenaltyRule accepts the rule names; the empty string is the default.
func ParsePenaltyRule(s string) (PenaltyRule, error) {
	switch PenaltyRule(s) {
	case "", PenaltyRemainingPoints:
		return PenaltyRemainingPoints, nil
	case PenaltyMissingCount:
		return PenaltyMissingCount, nil
	}
	return "", fmt.Errorf("unknown penalty rule %q", s)
}

// GameConfig is chosen by the host and shipped in GameStart.
type GameConfig struct {
	Language string `json:"language" yaml:"language"`
	// TimeLimit is the per-turn limit in seconds; 0 means none.
	TimeLimit   int         `json:"time_limit,omitempty" yaml:"time_limit,omitempty"`
	Seed        string      `json:"seed" yaml:"seed"`
	PenaltyRule PenaltyRule `json:"penalty_rule,omitempty" yaml:"penalty_rule,omitempty"`
}

// TurnDuration is the time limit as a duration.
func (c GameConfig) TurnDuration() time.Duration {
	return time.Duration(c.TimeLimit) * time.Second
}

// Phase is the coarse state of a game.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseStarted  Phase = "started"
	PhaseGameOver Phase = "game-over"
)
