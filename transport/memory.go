package transport

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub connects the peers of one process. It stands in for a message
// server in tests and local games.
type Hub struct {
	mu    sync.Mutex
	host  HostHandler
	hmu   sync.Mutex
	peers map[string]*mailbox
}

func NewHub() *Hub {
	return &Hub{peers: map[string]*mailbox{}}
}

// Connect returns the endpoint of one peer.
func (h *Hub) Connect(peerID string) *Memory {
	return &Memory{hub: h, id: peerID}
}

func (h *Hub) handler() HostHandler {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.host
}

func (h *Hub) deliver(peerID string, data []byte) {
	h.mu.Lock()
	mb, ok := h.peers[peerID]
	h.mu.Unlock()
	if !ok {
		log.Debug().Str("peer", peerID).Msg("dropping-message-for-unknown-peer")
		return
	}
	mb.push(data)
}

func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, mb := range h.peers {
		mb.push(data)
	}
}

// mailbox hands envelopes to one handler in arrival order without ever
// blocking the sender.
type mailbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  [][]byte
	closed bool
}

func newMailbox(h PeerHandler) *mailbox {
	mb := &mailbox{}
	mb.cond = sync.NewCond(&mb.mu)
	go mb.run(h)
	return mb
}

func (mb *mailbox) push(data []byte) {
	cp := append([]byte(nil), data...)
	mb.mu.Lock()
	if !mb.closed {
		mb.queue = append(mb.queue, cp)
		mb.cond.Signal()
	}
	mb.mu.Unlock()
}

func (mb *mailbox) close() {
	mb.mu.Lock()
	mb.closed = true
	mb.cond.Signal()
	mb.mu.Unlock()
}

func (mb *mailbox) run(h PeerHandler) {
	for {
		mb.mu.Lock()
		for len(mb.queue) == 0 && !mb.closed {
			mb.cond.Wait()
		}
		if mb.closed {
			mb.mu.Unlock()
			return
		}
		data := mb.queue[0]
		mb.queue = mb.queue[1:]
		mb.mu.Unlock()
		h(data)
	}
}

// Memory is a Transport endpoint attached to a Hub.
type Memory struct {
	hub *Hub
	id  string

	mu     sync.Mutex
	host   bool
	closed bool
}

func (m *Memory) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *Memory) ToHost(ctx context.Context, data []byte) error {
	if m.isClosed() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	h := m.hub.handler()
	if h == nil {
		return ErrNoHost
	}
	// The host handles one client message at a time, as a subscription
	// callback would.
	m.hub.hmu.Lock()
	err := h(append([]byte(nil), data...))
	m.hub.hmu.Unlock()
	return decodeAck(encodeAck(err))
}

func (m *Memory) Broadcast(data []byte) error {
	if m.isClosed() {
		return ErrClosed
	}
	m.hub.broadcast(data)
	return nil
}

func (m *Memory) SendTo(peerID string, data []byte) error {
	if m.isClosed() {
		return ErrClosed
	}
	m.hub.deliver(peerID, data)
	return nil
}

func (m *Memory) OnHost(h HostHandler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.host = true
	m.hub.mu.Lock()
	m.hub.host = h
	m.hub.mu.Unlock()
	return nil
}

func (m *Memory) OnPeer(peerID string, h PeerHandler) error {
	if m.isClosed() {
		return ErrClosed
	}
	mb := newMailbox(h)
	m.hub.mu.Lock()
	if old, ok := m.hub.peers[peerID]; ok {
		old.close()
	}
	m.hub.peers[peerID] = mb
	m.hub.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	wasHost := m.host
	m.mu.Unlock()

	m.hub.mu.Lock()
	defer m.hub.mu.Unlock()
	if mb, ok := m.hub.peers[m.id]; ok {
		mb.close()
		delete(m.hub.peers, m.id)
	}
	if wasHost {
		m.hub.host = nil
	}
	return nil
}
