package message

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when decoding an envelope whose kind does not
// belong to the expected direction.
var ErrUnknownKind = errors.New("unknown message kind")

// Envelope is the wire form of every message.
type Envelope struct {
	Kind    Kind            `json:"kind"`
	Origin  string          `json:"origin"`
	// Seq numbers the client messages of one origin. Zero is unnumbered.
	Seq     uint64          `json:"seq,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type decoder[M Message] func(json.RawMessage) (M, error)

func as[T ClientMessage](raw json.RawMessage) (ClientMessage, error) {
	var v T
	if err := unmarshalPayload(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func asHost[T HostMessage](raw json.RawMessage) (HostMessage, error) {
	var v T
	if err := unmarshalPayload(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

var clientDecoders = map[Kind]decoder[ClientMessage]{
	KindHello:         as[Hello],
	KindCellMove:      as[CellMove],
	KindPass:          as[Pass],
	KindEndTurn:       as[EndTurn],
	KindHeartbeat:     as[Heartbeat],
	KindResyncRequest: as[ResyncRequest],
}

var hostDecoders = map[Kind]decoder[HostMessage]{
	KindWelcome:          asHost[Welcome],
	KindUserConnected:    asHost[UserConnected],
	KindUserDisconnected: asHost[UserDisconnected],
	KindGameStart:        asHost[GameStart],
	KindRestart:          asHost[Restart],
	KindRelayed:          asHost[Relayed],
	KindSnapshot:         asHost[Snapshot],
}

func unmarshalPayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func encode(origin string, seq uint64, m Message) ([]byte, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", m.Kind(), err)
	}
	return json.Marshal(Envelope{Kind: m.Kind(), Origin: origin, Seq: seq, Payload: payload})
}

// EncodeClient wraps a client message in an unnumbered envelope.
func EncodeClient(origin string, m ClientMessage) ([]byte, error) {
	return encode(origin, 0, m)
}

// EncodeClientSeq wraps a client message in an envelope numbered seq. A
// resent envelope keeps its number so the host can recognize it.
func EncodeClientSeq(origin string, seq uint64, m ClientMessage) ([]byte, error) {
	return encode(origin, seq, m)
}

// EncodeHost wraps a host message in an envelope.
func EncodeHost(origin string, m HostMessage) ([]byte, error) {
	return encode(origin, 0, m)
}

func decode[M Message](data []byte, table map[Kind]decoder[M]) (Envelope, M, error) {
	var zero M
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return env, zero, fmt.Errorf("decoding envelope: %w", err)
	}
	dec, ok := table[env.Kind]
	if !ok {
		return env, zero, fmt.Errorf("%w: %q", ErrUnknownKind, env.Kind)
	}
	m, err := dec(env.Payload)
	if err != nil {
		return env, zero, fmt.Errorf("decoding %s: %w", env.Kind, err)
	}
	return env, m, nil
}

// DecodeClient reads an envelope that must hold a client message.
func DecodeClient(data []byte) (string, ClientMessage, error) {
	env, m, err := decode(data, clientDecoders)
	return env.Origin, m, err
}

// DecodeClientSeq is DecodeClient that also returns the envelope's number.
func DecodeClientSeq(data []byte) (string, uint64, ClientMessage, error) {
	env, m, err := decode(data, clientDecoders)
	return env.Origin, env.Seq, m, err
}

// DecodeHost reads an envelope that must hold a host message.
func DecodeHost(data []byte) (string, HostMessage, error) {
	env, m, err := decode(data, hostDecoders)
	return env.Origin, m, err
}

type wireRelayed struct {
	Origin  string          `json:"origin"`
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (r Relayed) MarshalJSON() ([]byte, error) {
	if r.Message == nil {
		return nil, fmt.Errorf("%w: relayed message is empty", ErrUnknownKind)
	}
	payload, err := json.Marshal(r.Message)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireRelayed{Origin: r.Origin, Kind: r.Message.Kind(), Payload: payload})
}

func (r *Relayed) UnmarshalJSON(data []byte) error {
	var w wireRelayed
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	dec, ok := clientDecoders[w.Kind]
	if !ok {
		return fmt.Errorf("%w: relayed %q", ErrUnknownKind, w.Kind)
	}
	m, err := dec(w.Payload)
	if err != nil {
		return err
	}
	r.Origin, r.Message = w.Origin, m
	return nil
}
