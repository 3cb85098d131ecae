// Package peer runs one participant of a session. Every participant holds
// a full game; one of them is the host, which orders all client messages
// and relays them to everyone, itself applying them first.
package peer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Prior99/frabble/game"
	"github.com/Prior99/frabble/message"
	"github.com/Prior99/frabble/move"
	"github.com/Prior99/frabble/transport"
)

// ErrStopped is returned by calls made after Run returned.
var ErrStopped = errors.New("peer stopped")

// ErrNotHost is returned when a client tries a host-only action.
var ErrNotHost = errors.New("only the host can do that")

type Role int

const (
	RoleClient Role = iota
	RoleHost
)

func (r Role) String() string {
	if r == RoleHost {
		return "host"
	}
	return "client"
}

// Missed heartbeat intervals after which the host considers a peer gone.
const missedHeartbeats = 3

type Options struct {
	Role              Role
	User              message.User
	TickInterval      time.Duration
	HeartbeatInterval time.Duration
	Clock             func() time.Time
}

type job struct {
	fn   func() error
	done chan error
}

type Peer struct {
	role   Role
	t      transport.Transport
	roster *Roster
	game   *game.Game
	opts   Options

	inbox   chan job
	stopped chan struct{}
	events  chan Event
	loading atomic.Bool
	seq     atomic.Uint64

	// client only: game traffic is ignored until a snapshot is applied.
	synced bool

	// host only: outcomes of recent client messages, by origin.
	seen dedup

	evmu     sync.Mutex
	evClosed bool
}

func New(t transport.Transport, opts Options) *Peer {
	if opts.User.ID == "" {
		opts.User = NewUser(opts.User.Name)
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = 500 * time.Millisecond
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = 2 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	p := &Peer{
		role:    opts.Role,
		t:       t,
		roster:  NewRoster(opts.User),
		game:    game.NewGame(opts.User.ID),
		opts:    opts,
		inbox:   make(chan job, 64),
		stopped: make(chan struct{}),
		events:  make(chan Event, eventBuffer),
		synced:  opts.Role == RoleHost,
		seen:    dedup{},
	}
	p.game.SetClock(opts.Clock)
	p.game.SetListener(func(e game.Event) {
		p.emit(Event{Type: EventGame, Game: e})
	})
	return p
}

func (p *Peer) ID() string           { return p.opts.User.ID }
func (p *Peer) User() message.User   { return p.opts.User }
func (p *Peer) Role() Role           { return p.role }
func (p *Peer) IsHost() bool         { return p.role == RoleHost }
func (p *Peer) Roster() *Roster      { return p.roster }
func (p *Peer) Events() <-chan Event { return p.events }

// Loading is true while an end of turn or pass waits for the host.
func (p *Peer) Loading() bool { return p.loading.Load() }

// Run connects to the session and processes messages until ctx is done.
// The events channel is closed when it returns.
func (p *Peer) Run(ctx context.Context) error {
	defer close(p.stopped)
	defer p.closeEvents()
	if p.IsHost() {
		if err := p.t.OnHost(p.handleClientEnvelope); err != nil {
			return err
		}
	} else {
		if err := p.t.OnPeer(p.ID(), p.handleHostEnvelope); err != nil {
			return err
		}
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return p.loop(ctx) })
	if p.IsHost() {
		eg.Go(func() error { return p.every(ctx, p.opts.HeartbeatInterval, p.sweep) })
	} else {
		eg.Go(func() error {
			return p.sendToHost(ctx, message.Hello{User: p.User()})
		})
		eg.Go(func() error { return p.every(ctx, p.opts.HeartbeatInterval, p.heartbeat) })
	}
	eg.Go(func() error { return p.every(ctx, p.opts.TickInterval, p.tick) })
	log.Info().Str("role", p.role.String()).Str("id", p.ID()).Str("name", p.User().Name).Msg("peer-started")

	err := eg.Wait()
	if cerr := p.t.Close(); cerr != nil {
		log.Err(cerr).Msg("closing-transport")
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (p *Peer) loop(ctx context.Context) error {
	for {
		select {
		case j := <-p.inbox:
			err := j.fn()
			if j.done != nil {
				j.done <- err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *Peer) every(ctx context.Context, d time.Duration, f func(ctx context.Context)) error {
	ticker := time.NewTicker(d)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			f(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// do runs fn on the loop and waits for its result.
func (p *Peer) do(fn func() error) error {
	done := make(chan error, 1)
	select {
	case p.inbox <- job{fn: fn, done: done}:
	case <-p.stopped:
		return ErrStopped
	}
	select {
	case err := <-done:
		return err
	case <-p.stopped:
		return ErrStopped
	}
}

// post runs fn on the loop without waiting.
func (p *Peer) post(fn func() error) {
	select {
	case p.inbox <- job{fn: fn}:
	case <-p.stopped:
	}
}

// View runs fn with the game on the loop. fn must not keep the game.
func (p *Peer) View(fn func(g *game.Game)) error {
	return p.do(func() error {
		fn(p.game)
		return nil
	})
}

// Fingerprint of the local game.
func (p *Peer) Fingerprint() (uint64, error) {
	var fp uint64
	err := p.View(func(g *game.Game) { fp = g.Fingerprint() })
	return fp, err
}

// send delivers one of our own messages. The host applies and relays it
// directly; a client waits for the host's acknowledgement and applies it
// once it comes back relayed.
func (p *Peer) send(ctx context.Context, m message.ClientMessage) error {
	if p.IsHost() {
		return p.do(func() error { return p.hostApply(p.ID(), m) })
	}
	err := p.sendToHost(ctx, m)
	if errors.Is(err, transport.ErrRejected) {
		p.emit(Event{Type: EventRejected, Err: err})
	}
	return err
}

func (p *Peer) sendAll(ctx context.Context, msgs []message.ClientMessage) error {
	for _, m := range msgs {
		if err := p.send(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (p *Peer) sendToHost(ctx context.Context, m message.ClientMessage) error {
	data, err := message.EncodeClientSeq(p.ID(), p.seq.Add(1), m)
	if err != nil {
		return err
	}
	return p.t.ToHost(ctx, data)
}

// Move moves one tile.
func (p *Peer) Move(ctx context.Context, source, target move.Position) error {
	return p.send(ctx, message.NewCellMove(source, target))
}

// EndTurn scores the current turn.
func (p *Peer) EndTurn(ctx context.Context) error {
	p.loading.Store(true)
	defer p.loading.Store(false)
	return p.send(ctx, message.EndTurn{})
}

// Pass passes, exchanging the given rack positions.
func (p *Peer) Pass(ctx context.Context, exchanged move.Positions) error {
	p.loading.Store(true)
	defer p.loading.Store(false)
	return p.send(ctx, message.Pass{Exchanged: exchanged})
}

func (p *Peer) StartPassing() error {
	return p.do(p.game.StartPassing)
}

func (p *Peer) Mark(slot int) error {
	return p.do(func() error { return p.game.Mark(slot) })
}

func (p *Peer) Unmark(slot int) error {
	return p.do(func() error { return p.game.Unmark(slot) })
}

func (p *Peer) CancelPassing() error {
	return p.do(func() error {
		p.game.CancelPassing()
		return nil
	})
}

// ConfirmPassing returns this turn's letters to the rack and passes with
// the marked slots.
func (p *Peer) ConfirmPassing(ctx context.Context) error {
	var msgs []message.ClientMessage
	err := p.do(func() error {
		var err error
		msgs, err = p.game.ConfirmPassing()
		return err
	})
	if err != nil {
		return err
	}
	p.loading.Store(true)
	defer p.loading.Store(false)
	return p.sendAll(ctx, msgs)
}

// tick fires the turn timer.
func (p *Peer) tick(ctx context.Context) {
	var msgs []message.ClientMessage
	err := p.do(func() error {
		msgs = p.game.Timeout(p.opts.Clock())
		return nil
	})
	if err != nil || len(msgs) == 0 {
		return
	}
	if err := p.sendAll(ctx, msgs); err != nil {
		log.Err(err).Msg("timeout-pass-failed")
	}
}
