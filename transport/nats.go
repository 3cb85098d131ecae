package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Subjects of one session.
func hostSubject(session string) string      { return "frabble." + session + ".host" }
func broadcastSubject(session string) string { return "frabble." + session + ".all" }
func peerSubject(session, peerID string) string {
	return "frabble." + session + ".peer." + peerID
}

// NATSOptions tune the acknowledgement of client messages.
type NATSOptions struct {
	AckTimeout  time.Duration
	AckAttempts uint
}

// NATS is a Transport over a NATS server. Client messages are requests on
// the host subject; the host's reply is the acknowledgement.
type NATS struct {
	nc      *nats.Conn
	session string
	opts    NATSOptions

	mu     sync.Mutex
	subs   []*nats.Subscription
	done   chan struct{}
	closed bool
}

// DialNATS connects to the server at url.
func DialNATS(url, session string, opts NATSOptions) (*NATS, error) {
	nc, err := nats.Connect(url, nats.Name("frabble-"+session))
	if err != nil {
		return nil, fmt.Errorf("connecting to nats at %s: %w", url, err)
	}
	return NewNATS(nc, session, opts), nil
}

// NewNATS wraps an existing connection.
func NewNATS(nc *nats.Conn, session string, opts NATSOptions) *NATS {
	if opts.AckTimeout <= 0 {
		opts.AckTimeout = 3 * time.Second
	}
	if opts.AckAttempts == 0 {
		opts.AckAttempts = 3
	}
	return &NATS{nc: nc, session: session, opts: opts, done: make(chan struct{})}
}

func (n *NATS) ToHost(ctx context.Context, data []byte) error {
	if n.isClosed() {
		return ErrClosed
	}
	return retry.Do(
		func() error {
			rctx, cancel := context.WithTimeout(ctx, n.opts.AckTimeout)
			defer cancel()
			msg, err := n.nc.RequestWithContext(rctx, hostSubject(n.session), data)
			if errors.Is(err, nats.ErrNoResponders) {
				return retry.Unrecoverable(ErrNoHost)
			}
			if err != nil {
				return err
			}
			// A rejection is an answer; retrying would not change it.
			if err := decodeAck(msg.Data); err != nil {
				return retry.Unrecoverable(err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(n.opts.AckAttempts),
		retry.LastErrorOnly(true),
		retry.DelayType(func(attempt uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("attempt", attempt).Msg("did-not-receive-ack-try-again")
			return retry.BackOffDelay(attempt, err, config)
		}),
	)
}

func (n *NATS) Broadcast(data []byte) error {
	if n.isClosed() {
		return ErrClosed
	}
	return n.nc.Publish(broadcastSubject(n.session), data)
}

func (n *NATS) SendTo(peerID string, data []byte) error {
	if n.isClosed() {
		return ErrClosed
	}
	return n.nc.Publish(peerSubject(n.session, peerID), data)
}

func (n *NATS) OnHost(h HostHandler) error {
	sub, err := n.nc.Subscribe(hostSubject(n.session), func(m *nats.Msg) {
		if err := m.Respond(encodeAck(h(m.Data))); err != nil {
			log.Err(err).Msg("cannot-ack-client-message")
		}
	})
	if err != nil {
		return err
	}
	return n.track(sub)
}

// OnPeer subscribes to the broadcast and the direct subject through one
// channel, so both arrive in the order the connection read them.
func (n *NATS) OnPeer(peerID string, h PeerHandler) error {
	ch := make(chan *nats.Msg, 256)
	for _, subject := range []string{broadcastSubject(n.session), peerSubject(n.session, peerID)} {
		sub, err := n.nc.ChanSubscribe(subject, ch)
		if err != nil {
			return err
		}
		if err := n.track(sub); err != nil {
			return err
		}
	}
	if err := n.nc.Flush(); err != nil {
		return err
	}
	go func() {
		for {
			select {
			case m := <-ch:
				h(m.Data)
			case <-n.done:
				return
			}
		}
	}()
	log.Info().Str("session", n.session).Str("peer", peerID).Msg("listening")
	return nil
}

func (n *NATS) track(sub *nats.Subscription) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		sub.Unsubscribe()
		return ErrClosed
	}
	n.subs = append(n.subs, sub)
	return nil
}

func (n *NATS) isClosed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closed
}

func (n *NATS) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	subs := n.subs
	n.subs = nil
	close(n.done)
	n.mu.Unlock()

	for _, s := range subs {
		if err := s.Unsubscribe(); err != nil {
			log.Err(err).Str("subject", s.Subject).Msg("unsubscribe-failed")
		}
	}
	return n.nc.Drain()
}
