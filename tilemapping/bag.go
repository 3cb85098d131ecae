package tilemapping

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"
)

var (
	// ErrEmptyBag is returned when a single tile is taken from an empty bag.
	ErrEmptyBag = errors.New("letter bag was empty but letter was taken")
	// ErrBagMismatch means two peers no longer agree on the bag. It is
	// never recoverable locally; the peer has to resync.
	ErrBagMismatch = errors.New("letter bags out of sync")
)

// SeededRNG returns a deterministic generator for the given seed. The
// stream name separates independent uses of one seed (shuffle generations,
// turn order) so they never share output.
func SeededRNG(seed, stream string) *frand.RNG {
	key := sha256.Sum256([]byte(seed + "\x00" + stream))
	return frand.NewCustom(key[:], 64, 12)
}

// A Bag is the bag o'tiles. It is a stack: tiles are drawn from the end.
// Every shuffle draws from its own generator derived from the seed and the
// shuffle's generation number, so a bag rebuilt from a snapshot keeps
// producing the same sequence as the bag it was copied from.
type Bag struct {
	tiles              []Letter
	seed               string
	seeded             bool
	generation         int
	refills            int
	letterDistribution *LetterDistribution
}

// NewBag creates an empty, unseeded bag for the distribution.
func NewBag(ld *LetterDistribution) *Bag {
	return &Bag{letterDistribution: ld}
}

// Initialize seeds the bag and fills it with one shuffled distribution.
func (b *Bag) Initialize(seed string) {
	b.tiles = b.tiles[:0]
	b.seed = seed
	b.seeded = true
	b.generation = 0
	b.refills = 0
	b.Refill()
}

// Refill adds a full distribution on top of whatever is left, then
// shuffles everything.
func (b *Bag) Refill() {
	b.tiles = append(b.tiles, b.letterDistribution.Tiles()...)
	b.refills++
	b.shuffle()
}

// shuffle is a Fisher-Yates pass driven by the generator for the next
// generation.
func (b *Bag) shuffle() {
	if !b.seeded {
		panic("letter bag was not initialized")
	}
	b.generation++
	rng := SeededRNG(b.seed, "bag/"+strconv.Itoa(b.generation))
	for i := len(b.tiles) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		b.tiles[i], b.tiles[j] = b.tiles[j], b.tiles[i]
	}
}

// Take draws a single tile.
func (b *Bag) Take() (Letter, error) {
	if len(b.tiles) == 0 {
		return 0, ErrEmptyBag
	}
	l := b.tiles[len(b.tiles)-1]
	b.tiles = b.tiles[:len(b.tiles)-1]
	return l, nil
}

// TakeMany draws at most n tiles. It can draw fewer if there are fewer than
// n tiles left, and even draw no tiles at all.
func (b *Bag) TakeMany(n int) []Letter {
	drawn := make([]Letter, 0, n)
	for i := 0; i < n; i++ {
		l, err := b.Take()
		if err != nil {
			break
		}
		drawn = append(drawn, l)
	}
	return drawn
}

// PutBack returns tiles to the bag. The bag is reshuffled afterwards so
// nobody can tell where the returned tiles went.
func (b *Bag) PutBack(letters ...Letter) {
	b.tiles = append(b.tiles, letters...)
	b.shuffle()
}

// Exchange puts the given tiles back and draws the same number.
func (b *Bag) Exchange(letters ...Letter) []Letter {
	b.PutBack(letters...)
	return b.TakeMany(len(letters))
}

// Reinitialize rebuilds the bag from a peer's snapshot. The bag is reseeded
// and refilled from scratch; if the snapshot was never reshuffled, its tiles
// must be exactly the head of the freshly seeded bag. Any disagreement means
// the two peers diverged and ErrBagMismatch is returned.
func (b *Bag) Reinitialize(seed string, generation, refills int, expected []Letter) error {
	b.Initialize(seed)
	if generation <= 1 {
		if len(expected) > len(b.tiles) {
			return fmt.Errorf("%w: snapshot holds %d tiles, fresh bag only %d",
				ErrBagMismatch, len(expected), len(b.tiles))
		}
		for i, l := range expected {
			if b.tiles[i] != l {
				return fmt.Errorf("%w: tile %d is %v, expected %v",
					ErrBagMismatch, i, b.tiles[i], l)
			}
		}
	} else {
		seen := make(map[Letter]int)
		for _, l := range expected {
			if !l.IsValid() {
				return fmt.Errorf("%w: invalid letter %d", ErrBagMismatch, l)
			}
			seen[l]++
			if seen[l] > b.letterDistribution.Count(l)*refills {
				return fmt.Errorf("%w: too many %v tiles", ErrBagMismatch, l)
			}
		}
	}
	b.tiles = append(b.tiles[:0], expected...)
	b.generation = generation
	b.refills = refills
	log.Debug().Int("tiles", len(b.tiles)).Int("generation", generation).
		Msg("bag-reinitialized")
	return nil
}

// Count is the number of tiles remaining.
func (b *Bag) Count() int {
	return len(b.tiles)
}

func (b *Bag) IsEmpty() bool {
	return len(b.tiles) == 0
}

// Letters returns a copy of the remaining tiles, bottom of the stack first.
func (b *Bag) Letters() []Letter {
	out := make([]Letter, len(b.tiles))
	copy(out, b.tiles)
	return out
}

// Generation is the number of shuffles since the bag was seeded.
func (b *Bag) Generation() int {
	return b.generation
}

// Refills is the number of full distributions put in since seeding.
func (b *Bag) Refills() int {
	return b.refills
}

func (b *Bag) LetterDistribution() *LetterDistribution {
	return b.letterDistribution
}
