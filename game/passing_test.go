package game

import (
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prior99/frabble/board"
	"github.com/Prior99/frabble/message"
	"github.com/Prior99/frabble/tilemapping"
)

func TestStagingErrors(t *testing.T) {
	is := is.New(t)
	games := newTable(t, message.GameConfig{Seed: "abc"}, "alice", "bob")
	first := anyGame(games).CurrentPlayer()
	other := "alice"
	if first == "alice" {
		other = "bob"
	}
	g := games[first]

	is.Equal(g.Mark(0), ErrNotPassing)
	is.Equal(g.Unmark(0), ErrNotPassing)
	_, err := g.ConfirmPassing()
	is.Equal(err, ErrNotPassing)
	is.Equal(games[other].StartPassing(), ErrNotLocalTurn)

	is.NoErr(g.StartPassing())
	is.True(g.IsPassing())
	is.NoErr(g.Mark(0))
	is.NoErr(g.Mark(4))
	is.Equal(g.Mark(0), ErrAlreadyMarked)
	is.Equal(g.Mark(9), ErrNoLetter)
	is.Equal(g.Unmark(2), ErrNotMarked)
	is.NoErr(g.Unmark(0))
	is.Equal(g.Marked(), []int{4})

	g.CancelPassing()
	is.True(!g.IsPassing())
	is.Equal(g.Marked(), []int(nil))
}

func TestConfirmPassing(t *testing.T) {
	games := newTable(t, message.GameConfig{Seed: "exchange"}, "alice", "bob")
	first := anyGame(games).CurrentPlayer()
	g := games[first]

	// one letter is on the board when the pass is confirmed
	applyAll(t, games, first, toBoard(first, 0, 0, 0))
	before := append([]tilemapping.Letter{}, g.Rack(first).Letters()...)
	onBoard := g.Board().At(board.Position{}).Letter
	before = append(before, onBoard)

	require.NoError(t, g.StartPassing())
	require.NoError(t, g.Mark(1))
	require.NoError(t, g.Mark(2))
	msgs, err := g.ConfirmPassing()
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, message.KindCellMove, msgs[0].Kind())
	pass, ok := msgs[1].(message.Pass)
	require.True(t, ok)
	assert.Len(t, pass.Exchanged, 2)

	for _, m := range msgs {
		applyAll(t, games, first, m)
	}
	assert.True(t, g.Board().IsEmpty())
	assert.False(t, g.IsPassing())
	assert.Equal(t, 1, g.Turn())
	assert.Equal(t, []int{0}, g.PassedTurns())
	assert.Equal(t, RackTileLimit, g.Rack(first).Count())
	assert.Equal(t, 100-2*RackTileLimit, g.BagCount())
	assert.Equal(t, games["alice"].Fingerprint(), games["bob"].Fingerprint())

	// five of the seven tiles stayed on the rack
	after := g.Rack(first).Letters()
	kept := 0
	remaining := append([]tilemapping.Letter{}, after...)
	for _, l := range before {
		for i, r := range remaining {
			if r == l {
				remaining = append(remaining[:i], remaining[i+1:]...)
				kept++
				break
			}
		}
	}
	assert.GreaterOrEqual(t, kept, RackTileLimit-2)
}

func TestMovingMarkedTileUnmarksIt(t *testing.T) {
	is := is.New(t)
	games := newTable(t, message.GameConfig{Seed: "abc"}, "alice", "bob")
	first := anyGame(games).CurrentPlayer()
	g := games[first]
	is.NoErr(g.StartPassing())
	is.NoErr(g.Mark(3))
	applyAll(t, games, first, toBoard(first, 3, 0, 0))
	is.Equal(g.Marked(), []int{})
}

func TestTimeout(t *testing.T) {
	is := is.New(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	ids := []string{"alice", "bob"}
	games := map[string]*Game{}
	for _, id := range ids {
		games[id] = NewGame(id)
		games[id].SetClock(clock)
	}
	applyAll(t, games, "alice", message.GameStart{
		Config:  message.GameConfig{Seed: "abc", TimeLimit: 60},
		Players: ids,
	})
	first := games["alice"].CurrentPlayer()
	other := "alice"
	if first == "alice" {
		other = "bob"
	}
	g := games[first]

	d, ok := g.Deadline()
	is.True(ok)
	is.Equal(d.FromTurn, 0)
	is.Equal(d.At, now.Add(time.Minute))

	applyAll(t, games, first, toBoard(first, 0, 0, 0))

	is.Equal(len(g.Timeout(now.Add(30*time.Second))), 0)
	is.Equal(len(games[other].Timeout(now.Add(2*time.Minute))), 0)

	g.SetDisconnected(other, true)
	is.Equal(len(g.Timeout(now.Add(2*time.Minute))), 0)
	g.SetDisconnected(other, false)

	msgs := g.Timeout(now.Add(2 * time.Minute))
	is.Equal(len(msgs), 2)
	is.Equal(msgs[0].Kind(), message.KindCellMove)
	is.Equal(len(msgs[1].(message.Pass).Exchanged), 0)
	// the timer fires once per turn
	is.Equal(len(g.Timeout(now.Add(3*time.Minute))), 0)

	now = now.Add(2 * time.Minute)
	for _, m := range msgs {
		applyAll(t, games, first, m)
	}
	is.Equal(g.Turn(), 1)
	is.True(g.Board().IsEmpty())
	d, ok = g.Deadline()
	is.True(ok)
	is.Equal(d.FromTurn, 1)
	is.Equal(d.At, now.Add(time.Minute))

	is.Equal(len(games[other].Timeout(now.Add(61*time.Second))), 1)
}

func TestNoTimeLimitNoDeadline(t *testing.T) {
	is := is.New(t)
	games := newTable(t, message.GameConfig{Seed: "abc"}, "alice")
	g := games["alice"]
	_, ok := g.Deadline()
	is.True(!ok)
	is.Equal(len(g.Timeout(time.Now().Add(time.Hour))), 0)
}

func TestStagingNotAnError(t *testing.T) {
	is := is.New(t)
	is.True(!errors.Is(ErrAlreadyMarked, ErrInconsistent))
	is.True(!errors.Is(ErrNotPassing, ErrInconsistent))
}
