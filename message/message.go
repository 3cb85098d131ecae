// Package message defines everything peers say to each other. Messages
// form two closed sets: ClientMessage travels from any peer to the host,
// HostMessage from the host to the peers. A type switch over either set
// with a default returning ErrUnknownKind covers every case.
package message

import (
	"github.com/Prior99/frabble/move"
)

// Kind is the tag written into the envelope.
type Kind string

const (
	KindHello            Kind = "hello"
	KindCellMove         Kind = "cell-move"
	KindPass             Kind = "pass"
	KindEndTurn          Kind = "end-turn"
	KindHeartbeat        Kind = "heartbeat"
	KindResyncRequest    Kind = "resync-request"
	KindWelcome          Kind = "welcome"
	KindUserConnected    Kind = "user-connected"
	KindUserDisconnected Kind = "user-disconnected"
	KindGameStart        Kind = "game-start"
	KindRestart          Kind = "restart"
	KindRelayed          Kind = "relayed"
	KindSnapshot         Kind = "snapshot"
)

// Message is implemented by every message of either direction.
type Message interface {
	Kind() Kind
}

// ClientMessage is sent by a peer to the host.
type ClientMessage interface {
	Message
	clientMessage()
}

// HostMessage is sent by the host to one or all peers.
type HostMessage interface {
	Message
	hostMessage()
}

// User is a roster entry.
type User struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Hello announces a peer to the host. The host answers with Welcome and,
// once a game is running, a Snapshot.
type Hello struct {
	User User `json:"user"`
}

// CellMove moves one tile.
type CellMove struct {
	move.CellMove
}

// Pass ends the turn without scoring, exchanging the selected rack slots.
type Pass struct {
	Exchanged move.Positions `json:"exchanged"`
}

// EndTurn scores the letters placed this turn and hands over.
type EndTurn struct{}

// Heartbeat tells the host the peer is still there.
type Heartbeat struct{}

// ResyncRequest asks the host for a Snapshot after local state diverged.
type ResyncRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (Hello) Kind() Kind         { return KindHello }
func (CellMove) Kind() Kind      { return KindCellMove }
func (Pass) Kind() Kind          { return KindPass }
func (EndTurn) Kind() Kind       { return KindEndTurn }
func (Heartbeat) Kind() Kind     { return KindHeartbeat }
func (ResyncRequest) Kind() Kind { return KindResyncRequest }

func (Hello) clientMessage()         {}
func (CellMove) clientMessage()      {}
func (Pass) clientMessage()          {}
func (EndTurn) clientMessage()       {}
func (Heartbeat) clientMessage()     {}
func (ResyncRequest) clientMessage() {}

// NewCellMove wraps a move.
func NewCellMove(source, target move.Position) CellMove {
	return CellMove{move.New(source, target)}
}

// Welcome is the full roster, sent to a peer after its Hello.
type Welcome struct {
	Users []User `json:"users"`
}

type UserConnected struct {
	User User `json:"user"`
}

type UserDisconnected struct {
	UserID string `json:"user_id"`
}

// GameStart starts a game. Players is the set of participants; the turn
// order is derived from it and the seed.
type GameStart struct {
	Config  GameConfig `json:"config"`
	Players []string   `json:"players"`
}

// Restart deals a new game to the same players without reseeding.
type Restart struct{}

// Relayed is a client message the host accepted and forwards to everyone,
// the sender included. Origin is the id of the sender.
type Relayed struct {
	Origin  string
	Message ClientMessage
}

func (Welcome) Kind() Kind          { return KindWelcome }
func (UserConnected) Kind() Kind    { return KindUserConnected }
func (UserDisconnected) Kind() Kind { return KindUserDisconnected }
func (GameStart) Kind() Kind        { return KindGameStart }
func (Restart) Kind() Kind          { return KindRestart }
func (Relayed) Kind() Kind          { return KindRelayed }
func (Snapshot) Kind() Kind         { return KindSnapshot }

func (Welcome) hostMessage()          {}
func (UserConnected) hostMessage()    {}
func (UserDisconnected) hostMessage() {}
func (GameStart) hostMessage()        {}
func (Restart) hostMessage()          {}
func (Relayed) hostMessage()          {}
func (Snapshot) hostMessage()         {}
