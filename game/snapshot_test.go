package game

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/Prior99/frabble/message"
	"github.com/Prior99/frabble/move"
	"github.com/Prior99/frabble/tilemapping"
)

func TestSnapshotRestore(t *testing.T) {
	is := is.New(t)
	games := newTable(t, message.GameConfig{Seed: "resync", TimeLimit: 90}, "alice", "bob")
	g := games["alice"]
	first := g.CurrentPlayer()
	applyAll(t, games, first, toBoard(first, 0, 0, 0))
	applyAll(t, games, first, toBoard(first, 1, 0, 1))
	applyAll(t, games, first, message.EndTurn{})
	second := g.CurrentPlayer()
	applyAll(t, games, second, message.Pass{Exchanged: move.Positions{move.OnRack(second, 2)}})
	is.True(g.Bag().Generation() > 1)

	late := NewGame("carol")
	var resynced bool
	late.SetListener(func(e Event) { resynced = e.Type == EventResynced })
	s := g.Snapshot()
	is.NoErr(late.Apply("alice", s))
	is.True(resynced)
	is.Equal(late.Fingerprint(), g.Fingerprint())
	is.Equal(late.Snapshot(), s)
	is.Equal(late.PointsFor(first), g.PointsFor(first))
	is.Equal(late.Rack(second).Letters(), g.Rack(second).Letters())

	// the restored bag keeps drawing like the host's
	games["carol"] = late
	p := g.CurrentPlayer()
	applyAll(t, games, p, message.Pass{Exchanged: move.Positions{move.OnRack(p, 0), move.OnRack(p, 1)}})
	is.Equal(late.Fingerprint(), g.Fingerprint())
	is.Equal(late.Rack(p).Letters(), g.Rack(p).Letters())
}

func TestRestoreRejectsDivergedBag(t *testing.T) {
	is := is.New(t)
	games := newTable(t, message.GameConfig{Seed: "abc"}, "alice", "bob")
	g := games["alice"]
	is.Equal(g.Bag().Generation(), 1)

	s := g.Snapshot()
	s.Checksum = 0
	if s.Bag[0] == tilemapping.A {
		s.Bag[0] = tilemapping.B
	} else {
		s.Bag[0] = tilemapping.A
	}

	other := NewGame("bob")
	err := other.Restore(s)
	is.True(errors.Is(err, tilemapping.ErrBagMismatch))
	is.True(errors.Is(err, ErrInconsistent))
	is.Equal(other.Phase(), message.PhaseLobby)

	// a snapshot from another seed does not fit either
	s = g.Snapshot()
	s.Config.Seed = "not-abc"
	err = other.Restore(s)
	is.True(errors.Is(err, tilemapping.ErrBagMismatch))
}

func TestRestoreRejectsImpossibleBag(t *testing.T) {
	is := is.New(t)
	games := newTable(t, message.GameConfig{Seed: "abc"}, "alice", "bob")
	g := games["alice"]
	p := g.CurrentPlayer()
	applyAll(t, games, p, message.Pass{Exchanged: move.Positions{move.OnRack(p, 0)}})

	s := g.Snapshot()
	s.Checksum = 0
	for i := 0; i < 3; i++ {
		s.Bag[i] = tilemapping.Q
	}
	err := NewGame("x").Restore(s)
	is.True(errors.Is(err, tilemapping.ErrBagMismatch))
}

func TestRestoreRejectsChecksumMismatch(t *testing.T) {
	is := is.New(t)
	games := newTable(t, message.GameConfig{Seed: "abc"}, "alice", "bob")
	g := games["alice"]
	before := g.Fingerprint()

	s := g.Snapshot()
	s.Scores[0].Score += 3
	err := g.Restore(s)
	is.True(errors.Is(err, ErrChecksum))
	is.Equal(g.Fingerprint(), before)

	s = g.Snapshot()
	s.Racks = append(s.Racks, message.RackState{PlayerID: "ghost"})
	err = g.Restore(s)
	is.True(errors.Is(err, ErrUnknownPlayer))
}

func TestRestoreLobby(t *testing.T) {
	is := is.New(t)
	host := NewGame("alice")
	s := host.Snapshot()
	is.Equal(s.Phase, message.PhaseLobby)

	g := NewGame("bob")
	is.NoErr(g.Restore(s))
	is.Equal(g.Phase(), message.PhaseLobby)
	is.Equal(g.Fingerprint(), host.Fingerprint())
	is.Equal(g.LocalID(), "bob")
}
