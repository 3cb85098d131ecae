package game

// EventType says what changed.
type EventType int

const (
	EventStarted EventType = iota
	EventCellMoved
	EventTurnEnded
	EventPassed
	EventGameOver
	EventRestarted
	EventResynced
)

func (t EventType) String() string {
	switch t {
	case EventStarted:
		return "started"
	case EventCellMoved:
		return "cell-moved"
	case EventTurnEnded:
		return "turn-ended"
	case EventPassed:
		return "passed"
	case EventGameOver:
		return "game-over"
	case EventRestarted:
		return "restarted"
	case EventResynced:
		return "resynced"
	}
	return "unknown"
}

// Event is emitted after the engine applied a change. Turn is the turn the
// change happened on; the other fields are filled where they apply.
type Event struct {
	Type     EventType
	Turn     int
	PlayerID string
	Score    int
	Bingo    bool
	Words    []string
}

// A Listener is called synchronously from Apply. It must not call back
// into the game.
type Listener func(Event)

func (g *Game) emit(e Event) {
	if g.listener != nil {
		g.listener(e)
	}
}
