package peer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Prior99/frabble/game"
	"github.com/Prior99/frabble/message"
)

// handleClientEnvelope is the host's transport handler. The returned error
// travels back to the sender as a rejection.
func (p *Peer) handleClientEnvelope(data []byte) error {
	origin, seq, m, err := message.DecodeClientSeq(data)
	if err != nil {
		log.Err(err).Msg("cannot-decode-client-message")
		return err
	}
	return p.do(func() error {
		if seq == 0 {
			return p.hostReceive(origin, m)
		}
		if _, ok := m.(message.Hello); ok {
			p.seen.forget(origin)
		} else if ok, err := p.seen.lookup(origin, seq); ok {
			log.Debug().Str("origin", origin).Uint64("seq", seq).Msg("duplicate-client-message")
			return err
		}
		err := p.hostReceive(origin, m)
		p.seen.record(origin, seq, err)
		return err
	})
}

func (p *Peer) hostReceive(origin string, m message.ClientMessage) error {
	log.Debug().Str("origin", origin).Str("kind", string(m.Kind())).Msg("host-received")
	now := p.opts.Clock()

	if h, ok := m.(message.Hello); ok {
		if h.User.ID != origin {
			return fmt.Errorf("hello for %s sent by %s", h.User.ID, origin)
		}
		return p.welcome(h.User)
	}

	known, reconnected := p.roster.Touch(origin, now)
	if !known {
		return fmt.Errorf("%w: %s never said hello", game.ErrUnknownPlayer, origin)
	}
	if reconnected {
		p.userConnected(p.roster.userByID(origin))
	}

	switch m := m.(type) {
	case message.Heartbeat:
		return nil
	case message.ResyncRequest:
		log.Info().Str("origin", origin).Str("reason", m.Reason).Msg("resync-requested")
		return p.sendSnapshot(origin)
	default:
		return p.hostApply(origin, m)
	}
}

// hostApply applies a game message and relays it. A message that does not
// apply is not relayed; when it did not apply because the sender is out of
// sync, the sender also gets a snapshot.
func (p *Peer) hostApply(origin string, m message.ClientMessage) error {
	if err := p.game.Apply(origin, m); err != nil {
		log.Info().Err(err).Str("origin", origin).Str("kind", string(m.Kind())).Msg("message-rejected")
		if errors.Is(err, game.ErrInconsistent) && origin != p.ID() {
			if serr := p.sendSnapshot(origin); serr != nil {
				log.Err(serr).Msg("cannot-send-snapshot")
			}
		}
		return err
	}
	return p.broadcast(message.Relayed{Origin: origin, Message: m})
}

func (p *Peer) welcome(u message.User) error {
	p.roster.Add(u, p.opts.Clock())
	p.game.SetDisconnected(u.ID, false)
	if err := p.sendTo(u.ID, message.Welcome{Users: p.roster.Users()}); err != nil {
		return err
	}
	if err := p.sendSnapshot(u.ID); err != nil {
		return err
	}
	p.userConnected(u)
	return nil
}

func (p *Peer) userConnected(u message.User) {
	p.game.SetDisconnected(u.ID, false)
	log.Info().Str("id", u.ID).Str("name", u.Name).Msg("user-connected")
	if err := p.broadcast(message.UserConnected{User: u}); err != nil {
		log.Err(err).Msg("cannot-announce-user")
	}
	p.emit(Event{Type: EventUserConnected, User: u})
}

func (p *Peer) sendSnapshot(to string) error {
	return p.sendTo(to, p.game.Snapshot())
}

func (p *Peer) sendTo(to string, m message.HostMessage) error {
	data, err := message.EncodeHost(p.ID(), m)
	if err != nil {
		return err
	}
	return p.t.SendTo(to, data)
}

func (p *Peer) broadcast(m message.HostMessage) error {
	data, err := message.EncodeHost(p.ID(), m)
	if err != nil {
		return err
	}
	return p.t.Broadcast(data)
}

// sweep disconnects peers that stopped sending heartbeats.
func (p *Peer) sweep(context.Context) {
	limit := missedHeartbeats * p.opts.HeartbeatInterval
	err := p.do(func() error {
		for _, id := range p.roster.Stale(p.opts.Clock(), limit) {
			log.Info().Str("id", id).Msg("user-disconnected")
			p.game.SetDisconnected(id, true)
			if err := p.broadcast(message.UserDisconnected{UserID: id}); err != nil {
				log.Err(err).Msg("cannot-announce-disconnect")
			}
			p.emit(Event{Type: EventUserDisconnected, User: p.roster.userByID(id)})
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrStopped) {
		log.Err(err).Msg("sweep-failed")
	}
}

// StartGame starts a game with every connected user. An empty seed picks
// a random one.
func (p *Peer) StartGame(cfg message.GameConfig) error {
	if !p.IsHost() {
		return ErrNotHost
	}
	if cfg.Seed == "" {
		cfg.Seed = game.NewSeed()
	}
	return p.do(func() error {
		gs := message.GameStart{Config: cfg, Players: p.roster.ConnectedIDs()}
		if err := p.game.Apply(p.ID(), gs); err != nil {
			return err
		}
		return p.broadcast(gs)
	})
}

// Restart deals a new game with the same players and config.
func (p *Peer) Restart() error {
	if !p.IsHost() {
		return ErrNotHost
	}
	return p.do(func() error {
		if err := p.game.Apply(p.ID(), message.Restart{}); err != nil {
			return err
		}
		return p.broadcast(message.Restart{})
	})
}
