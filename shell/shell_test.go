package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/require"

	"github.com/Prior99/frabble/game"
	"github.com/Prior99/frabble/message"
	"github.com/Prior99/frabble/peer"
	"github.com/Prior99/frabble/transport"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"move r:0 b:-1,0",
			&shellcmd{"move", []string{"r:0", "b:-1,0"}, map[string]string{}},
			nil},
		{"start abc -time-limit 90",
			&shellcmd{"start", []string{"abc"}, map[string]string{"time-limit": "90"}},
			nil},
		{`start "two words" -penalty-rule missing-count `,
			&shellcmd{"start",
				[]string{"two words"},
				map[string]string{"penalty-rule": "missing-count"}},
			nil,
		},
		{"mark -1",
			&shellcmd{"mark", []string{"-1"}, map[string]string{}},
			nil},
		{"start abc -time-limit",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	is.True(strings.Contains(usage(), "move <from> <to>"))
	is.True(strings.Contains(usageTopic("pass"), "confirm"))
	is.Equal(usageTopic("nope"), "There is no help text for the topic nope")
}

func TestCommands(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := transport.NewHub()
	u := peer.NewUser("host")
	p := peer.New(hub.Connect(u.ID), peer.Options{Role: peer.RoleHost, User: u})
	go p.Run(ctx)
	require.Eventually(t, func() bool {
		_, err := p.Fingerprint()
		return err == nil
	}, time.Second, 5*time.Millisecond)

	var out bytes.Buffer
	sc := &ShellController{out: &out, ctx: ctx, peer: p}

	_, err := sc.dispatch("bogus")
	is.True(err != nil)

	_, err = sc.dispatch("start seed -penalty-rule nonsense")
	is.True(err != nil)
	resp, err := sc.dispatch("start seed -time-limit 0")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "Bag: 93"))

	resp, err = sc.dispatch("rack")
	is.NoErr(err)
	is.Equal(len(strings.Split(resp.message, "\n")), game.RackTileLimit)

	_, err = sc.dispatch("move r:0 b:0,0")
	is.NoErr(err)
	_, err = sc.dispatch("move r:1 b:3,3")
	is.NoErr(err)
	resp, err = sc.dispatch("valid")
	is.NoErr(err)
	is.Equal(resp.message, "not all letters are in a row/column")
	_, err = sc.dispatch("end")
	is.True(err != nil)

	_, err = sc.dispatch("move b:3,3 b:1,0")
	is.NoErr(err)
	resp, err = sc.dispatch("valid")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "valid, "))
	_, err = sc.dispatch("end")
	is.NoErr(err)

	resp, err = sc.dispatch("scores")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "1. host"))

	_, err = sc.dispatch("mark 0")
	is.True(err != nil)
	_, err = sc.dispatch("pass")
	is.NoErr(err)
	resp, err = sc.dispatch("mark r:2")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "*"))
	_, err = sc.dispatch("confirm")
	is.NoErr(err)

	resp, err = sc.dispatch("snapshot")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "passed_turns:"))

	_, err = sc.dispatch("exit")
	is.Equal(err, errExit)

	var turn int
	is.NoErr(p.View(func(g *game.Game) { turn = g.Turn() }))
	is.Equal(turn, 2)
	is.Equal(out.Len(), 0)
}

func newHostShell(t *testing.T, ctx context.Context) (*ShellController, *peer.Peer, *bytes.Buffer) {
	t.Helper()
	hub := transport.NewHub()
	u := peer.NewUser("host")
	p := peer.New(hub.Connect(u.ID), peer.Options{Role: peer.RoleHost, User: u})
	go p.Run(ctx)
	require.Eventually(t, func() bool {
		_, err := p.Fingerprint()
		return err == nil
	}, time.Second, 5*time.Millisecond)
	var out bytes.Buffer
	return &ShellController{out: &out, ctx: ctx, peer: p}, p, &out
}

func TestRackOutsideGame(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sc, _, _ := newHostShell(t, ctx)

	resp, err := sc.dispatch("rack")
	is.NoErr(err)
	is.Equal(resp.message, "you are not in this game")
	_, err = sc.dispatch("mark r:0")
	is.True(err != nil)

	// the loop survived
	resp, err = sc.dispatch("start seed")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "Bag: 93"))
}

func TestNotifyReturnsWhenPeerStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sc, p, _ := newHostShell(t, ctx)
	done := make(chan struct{})
	go func() {
		sc.Notify(p.Events())
		close(done)
	}()
	cancel()
	require.Eventually(t, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestDescribe(t *testing.T) {
	is := is.New(t)
	r := peer.NewRoster(message.User{ID: "a", Name: "Ada"})
	is.Equal(describe(peer.Event{Type: peer.EventGame, Game: game.Event{Type: game.EventTurnEnded, PlayerID: "a", Score: 62, Bingo: true}}, r),
		"Ada scored 62 (bingo!)")
	is.Equal(describe(peer.Event{Type: peer.EventUserConnected, User: message.User{Name: "Bo"}}, r), "Bo joined")
	is.Equal(describe(peer.Event{Type: peer.EventWelcome}, r), "")
}
