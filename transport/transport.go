// Package transport moves encoded messages between the peers of a session.
// It knows nothing about their contents: clients hand envelopes to the
// host and wait for an acknowledgement, and the host sends envelopes to
// everyone or to a single peer.
package transport

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrRejected is returned by ToHost when the host received the message
	// but refused to apply it.
	ErrRejected = errors.New("rejected by host")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("transport closed")
	// ErrNoHost is returned when no host is listening.
	ErrNoHost = errors.New("no host listening")
)

// HostHandler processes one client envelope on the host. A non-nil error
// is sent back to the client as a rejection.
type HostHandler func(data []byte) error

// PeerHandler processes one host envelope on a peer.
type PeerHandler func(data []byte)

// Transport is the messaging substrate. Deliveries to one peer arrive in
// the order the host sent them, whether broadcast or direct.
type Transport interface {
	// ToHost delivers a client envelope to the host and blocks until the
	// host acknowledged or rejected it.
	ToHost(ctx context.Context, data []byte) error
	// Broadcast delivers a host envelope to every peer.
	Broadcast(data []byte) error
	// SendTo delivers a host envelope to one peer.
	SendTo(peerID string, data []byte) error
	// OnHost installs the host side handler. Only the host calls it.
	OnHost(h HostHandler) error
	// OnPeer installs the handler for envelopes addressed to this peer.
	OnPeer(peerID string, h PeerHandler) error
	Close() error
}

const ackOK = "ok"
const ackErrPrefix = "error: "

func encodeAck(err error) []byte {
	if err == nil {
		return []byte(ackOK)
	}
	return []byte(ackErrPrefix + err.Error())
}

func decodeAck(data []byte) error {
	s := string(data)
	if s == ackOK {
		return nil
	}
	return &RejectedError{Reason: strings.TrimPrefix(s, ackErrPrefix)}
}

// RejectedError carries the host's reason for refusing a message.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return ErrRejected.Error() + ": " + e.Reason
}

func (e *RejectedError) Unwrap() error {
	return ErrRejected
}
