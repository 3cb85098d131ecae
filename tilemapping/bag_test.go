package tilemapping

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
)

func countLetters(letters []Letter) map[Letter]int {
	m := make(map[Letter]int)
	for _, l := range letters {
		m[l]++
	}
	return m
}

func TestBag(t *testing.T) {
	is := is.New(t)
	ld := Canonical()
	bag := NewBag(ld)
	bag.Initialize("abc")
	is.Equal(bag.Count(), ld.Total())

	tileMap := make(map[Letter]int)
	for !bag.IsEmpty() {
		l, err := bag.Take()
		is.NoErr(err)
		tileMap[l]++
	}
	for _, l := range ld.Letters() {
		is.Equal(tileMap[l], ld.Count(l))
	}
	_, err := bag.Take()
	is.True(errors.Is(err, ErrEmptyBag))
}

func TestBagDeterminism(t *testing.T) {
	is := is.New(t)
	b1 := NewBag(Canonical())
	b2 := NewBag(Canonical())
	b1.Initialize("seed-1")
	b2.Initialize("seed-1")
	is.Equal(b1.Letters(), b2.Letters())

	is.Equal(b1.TakeMany(7), b2.TakeMany(7))
	ex1 := b1.Exchange(A, E, Q)
	ex2 := b2.Exchange(A, E, Q)
	is.Equal(ex1, ex2)
	is.Equal(len(ex1), 3)
	b1.PutBack(X)
	b2.PutBack(X)
	is.Equal(b1.Letters(), b2.Letters())
	is.Equal(b1.Generation(), 3)

	other := NewBag(Canonical())
	other.Initialize("seed-2")
	assert.NotEqual(t, b1.TakeMany(20), other.TakeMany(20))
}

func TestBagShuffleKeepsMultiset(t *testing.T) {
	is := is.New(t)
	bag := NewBag(Canonical())
	bag.Initialize("multiset")
	is.Equal(countLetters(bag.Letters()), countLetters(Canonical().Tiles()))
	drawn := bag.TakeMany(10)
	bag.PutBack(drawn...)
	is.Equal(countLetters(bag.Letters()), countLetters(Canonical().Tiles()))
}

func TestDrawAtMost(t *testing.T) {
	is := is.New(t)
	bag := NewBag(Canonical())
	bag.Initialize("draw")
	for i := 0; i < 14; i++ {
		is.Equal(len(bag.TakeMany(7)), 7)
	}
	is.Equal(bag.Count(), 2)
	is.Equal(len(bag.TakeMany(7)), 2)
	is.True(bag.IsEmpty())
	is.Equal(len(bag.TakeMany(7)), 0)
}

func TestRefillIsAdditive(t *testing.T) {
	is := is.New(t)
	bag := NewBag(Canonical())
	bag.Initialize("refill")
	bag.TakeMany(30)
	bag.Refill()
	is.Equal(bag.Count(), 170)
	is.Equal(bag.Refills(), 2)
}

func TestReinitialize(t *testing.T) {
	is := is.New(t)
	host := NewBag(Canonical())
	host.Initialize("abc")
	host.TakeMany(14)

	peer := NewBag(Canonical())
	err := peer.Reinitialize("abc", host.Generation(), host.Refills(), host.Letters())
	is.NoErr(err)
	is.Equal(peer.Letters(), host.Letters())
	is.Equal(peer.TakeMany(7), host.TakeMany(7))
}

func TestReinitializeAfterReshuffle(t *testing.T) {
	is := is.New(t)
	host := NewBag(Canonical())
	host.Initialize("abc")
	host.Exchange(host.TakeMany(7)...)

	peer := NewBag(Canonical())
	is.NoErr(peer.Reinitialize("abc", host.Generation(), host.Refills(), host.Letters()))
	// Both bags now reshuffle identically.
	host.PutBack(Q)
	peer.PutBack(Q)
	is.Equal(peer.Letters(), host.Letters())
}

func TestReinitializeMismatch(t *testing.T) {
	is := is.New(t)
	host := NewBag(Canonical())
	host.Initialize("abc")
	host.TakeMany(14)

	diverged := NewBag(Canonical())
	diverged.Initialize("xyz")
	err := diverged.Reinitialize("xyz", host.Generation(), host.Refills(), host.Letters())
	is.True(errors.Is(err, ErrBagMismatch))

	tooMany := make([]Letter, 3)
	for i := range tooMany {
		tooMany[i] = Q
	}
	err = diverged.Reinitialize("abc", 2, 1, tooMany)
	is.True(errors.Is(err, ErrBagMismatch))
}

func TestUnseededBagPanics(t *testing.T) {
	bag := NewBag(Canonical())
	assert.Panics(t, func() { bag.Refill() })
}
