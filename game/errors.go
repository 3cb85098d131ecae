package game

import (
	"errors"
	"fmt"
)

// ErrInconsistent marks protocol and consistency errors: a message that
// cannot apply to the local state. In a correct session these never
// happen; when they do the peer is out of sync and has to resync from a
// snapshot.
var ErrInconsistent = errors.New("game desynchronized")

var (
	ErrEmptyCell      = fmt.Errorf("%w: cannot move empty cell", ErrInconsistent)
	ErrTargetOccupied = fmt.Errorf("%w: target cell is occupied", ErrInconsistent)
	ErrNotYourTurn    = fmt.Errorf("%w: player is not on turn", ErrInconsistent)
	ErrImmovable      = fmt.Errorf("%w: tile cannot be moved", ErrInconsistent)
	ErrUnknownPlayer  = fmt.Errorf("%w: unknown player", ErrInconsistent)
	ErrNotStarted     = fmt.Errorf("%w: game is not running", ErrInconsistent)
	ErrNoPlayers      = fmt.Errorf("%w: game needs at least one player", ErrInconsistent)
	ErrChecksum       = fmt.Errorf("%w: snapshot checksum mismatch", ErrInconsistent)
)

// ErrInvalidTurn is returned when a turn is ended while its placement is
// not valid. Callers are expected to check CurrentTurnValid first.
var ErrInvalidTurn = errors.New("turn is not valid")

// Errors of the local exchange staging. They are meant for display.
var (
	ErrNotLocalTurn  = errors.New("it is not your turn")
	ErrNotPassing    = errors.New("must start passing first")
	ErrAlreadyMarked = errors.New("letter already marked")
	ErrNotMarked     = errors.New("letter is not marked")
	ErrNoLetter      = errors.New("no letter in that slot")
)
