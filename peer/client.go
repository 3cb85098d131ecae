package peer

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Prior99/frabble/message"
)

// handleHostEnvelope is a client's transport handler.
func (p *Peer) handleHostEnvelope(data []byte) {
	origin, m, err := message.DecodeHost(data)
	if err != nil {
		log.Err(err).Msg("cannot-decode-host-message")
		return
	}
	p.post(func() error {
		p.clientReceive(origin, m)
		return nil
	})
}

func (p *Peer) clientReceive(origin string, m message.HostMessage) {
	log.Debug().Str("origin", origin).Str("kind", string(m.Kind())).Msg("client-received")
	switch m := m.(type) {
	case message.Welcome:
		p.roster.Replace(m.Users)
		p.emit(Event{Type: EventWelcome})
	case message.UserConnected:
		p.roster.Add(m.User, p.opts.Clock())
		p.game.SetDisconnected(m.User.ID, false)
		p.emit(Event{Type: EventUserConnected, User: m.User})
	case message.UserDisconnected:
		p.roster.SetConnected(m.UserID, false)
		p.game.SetDisconnected(m.UserID, true)
		p.emit(Event{Type: EventUserDisconnected, User: p.roster.userByID(m.UserID)})
	case message.Snapshot:
		if err := p.game.Apply(origin, m); err != nil {
			// Asking again would bring the same snapshot.
			log.Error().Err(err).Msg("cannot-apply-snapshot")
			p.emit(Event{Type: EventDesynchronized, Err: err})
			return
		}
		p.synced = true
	case message.Relayed:
		p.applyFromHost(m.Origin, m.Message)
	default:
		p.applyFromHost(origin, m)
	}
}

// applyFromHost applies a game message. Until the first snapshot, and
// after a failure until the next one, game messages are dropped: the
// snapshot already contains them.
func (p *Peer) applyFromHost(origin string, m message.Message) {
	if !p.synced {
		log.Debug().Str("kind", string(m.Kind())).Msg("awaiting-snapshot")
		return
	}
	err := p.game.Apply(origin, m)
	if err == nil {
		return
	}
	log.Error().Err(err).Str("origin", origin).Str("kind", string(m.Kind())).Msg("game-desynchronized")
	p.synced = false
	p.emit(Event{Type: EventDesynchronized, Err: err})
	req := message.ResyncRequest{Reason: err.Error()}
	go func() {
		if err := p.sendToHost(context.Background(), req); err != nil {
			log.Err(err).Msg("cannot-request-resync")
		}
	}()
}

// heartbeat tells the host we are still here.
func (p *Peer) heartbeat(ctx context.Context) {
	err := p.sendToHost(ctx, message.Heartbeat{})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Msg("heartbeat-failed")
	}
}
