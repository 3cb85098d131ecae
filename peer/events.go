package peer

import (
	"github.com/rs/zerolog/log"

	"github.com/Prior99/frabble/game"
	"github.com/Prior99/frabble/message"
)

type EventType int

const (
	// EventGame wraps a notification of the game engine.
	EventGame EventType = iota
	EventUserConnected
	EventUserDisconnected
	EventWelcome
	// EventDesynchronized is emitted when local state could not follow the
	// host. A resync has been requested.
	EventDesynchronized
	// EventRejected is emitted when the host refused a local message.
	EventRejected
)

func (t EventType) String() string {
	switch t {
	case EventGame:
		return "game"
	case EventUserConnected:
		return "user-connected"
	case EventUserDisconnected:
		return "user-disconnected"
	case EventWelcome:
		return "welcome"
	case EventDesynchronized:
		return "desynchronized"
	case EventRejected:
		return "rejected"
	}
	return "unknown"
}

type Event struct {
	Type EventType
	Game game.Event
	User message.User
	Err  error
}

const eventBuffer = 256

func (p *Peer) emit(e Event) {
	p.evmu.Lock()
	defer p.evmu.Unlock()
	if p.evClosed {
		return
	}
	select {
	case p.events <- e:
	default:
		log.Debug().Str("event", e.Type.String()).Msg("event-dropped")
	}
}

func (p *Peer) closeEvents() {
	p.evmu.Lock()
	defer p.evmu.Unlock()
	if !p.evClosed {
		p.evClosed = true
		close(p.events)
	}
}
