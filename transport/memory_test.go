package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu  sync.Mutex
	got []string
}

func (r *recorder) handle(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, string(data))
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.got...)
}

func TestMemoryToHost(t *testing.T) {
	is := is.New(t)
	hub := NewHub()
	host := hub.Connect("host")
	client := hub.Connect("client")

	is.Equal(client.ToHost(context.Background(), []byte("x")), ErrNoHost)

	var seen []string
	is.NoErr(host.OnHost(func(data []byte) error {
		seen = append(seen, string(data))
		if string(data) == "bad" {
			return errors.New("cell is occupied")
		}
		return nil
	}))
	is.NoErr(client.ToHost(context.Background(), []byte("good")))
	err := client.ToHost(context.Background(), []byte("bad"))
	is.True(errors.Is(err, ErrRejected))
	var rej *RejectedError
	is.True(errors.As(err, &rej))
	is.Equal(rej.Reason, "cell is occupied")
	is.Equal(seen, []string{"good", "bad"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	is.True(errors.Is(client.ToHost(ctx, []byte("late")), context.Canceled))
}

func TestMemoryOrdering(t *testing.T) {
	hub := NewHub()
	host := hub.Connect("host")
	a := hub.Connect("a")
	var ra, rb recorder
	require.NoError(t, a.OnPeer("a", ra.handle))
	require.NoError(t, hub.Connect("b").OnPeer("b", rb.handle))

	var want []string
	for i := 0; i < 50; i++ {
		msg := fmt.Sprintf("all-%d", i)
		require.NoError(t, host.Broadcast([]byte(msg)))
		want = append(want, msg)
		if i%7 == 0 {
			msg = fmt.Sprintf("a-%d", i)
			require.NoError(t, host.SendTo("a", []byte(msg)))
			want = append(want, msg)
		}
	}
	require.Eventually(t, func() bool { return len(ra.messages()) == len(want) }, time.Second, 5*time.Millisecond)
	require.Equal(t, want, ra.messages())
	require.Eventually(t, func() bool { return len(rb.messages()) == 50 }, time.Second, 5*time.Millisecond)
}

func TestMemoryClose(t *testing.T) {
	is := is.New(t)
	hub := NewHub()
	host := hub.Connect("host")
	a := hub.Connect("a")
	var ra recorder
	is.NoErr(a.OnPeer("a", ra.handle))
	is.NoErr(host.OnHost(func([]byte) error { return nil }))

	is.NoErr(a.Close())
	is.NoErr(a.Close())
	is.Equal(a.ToHost(context.Background(), nil), ErrClosed)
	is.Equal(a.Broadcast(nil), ErrClosed)
	is.NoErr(host.SendTo("a", []byte("gone")))

	is.NoErr(host.Close())
	is.Equal(hub.Connect("c").ToHost(context.Background(), nil), ErrNoHost)
	time.Sleep(10 * time.Millisecond)
	is.Equal(len(ra.messages()), 0)
}

func TestAck(t *testing.T) {
	is := is.New(t)
	is.NoErr(decodeAck(encodeAck(nil)))
	err := decodeAck(encodeAck(errors.New("not your turn")))
	is.Equal(err.Error(), "rejected by host: not your turn")
}

func TestSubjects(t *testing.T) {
	is := is.New(t)
	is.Equal(hostSubject("s1"), "frabble.s1.host")
	is.Equal(broadcastSubject("s1"), "frabble.s1.all")
	is.Equal(peerSubject("s1", "p"), "frabble.s1.peer.p")
}
