package tilemapping

// LetterDistribution encodes the tile distribution for the game: how many
// of each letter go in a full bag, what each letter is worth, and the order
// in which a refill lays tiles down before shuffling.
type LetterDistribution struct {
	Name   string
	order  []Letter
	counts [NumLetters + 1]int
	scores [NumLetters + 1]int
	total  int
}

type distEntry struct {
	letter Letter
	count  int
	score  int
}

// The canonical table. Entries are listed by point value, which is also the
// refill order; changing the order changes every seeded game.
var canonicalTable = []distEntry{
	{A, 5, 1}, {D, 4, 1}, {E, 15, 1}, {I, 6, 1}, {N, 9, 1},
	{R, 6, 1}, {S, 7, 1}, {T, 6, 1}, {U, 6, 1},
	{G, 3, 2}, {H, 4, 2}, {L, 3, 2}, {O, 3, 2},
	{B, 2, 3}, {M, 4, 3}, {W, 1, 3}, {Z, 1, 3},
	{C, 2, 4}, {F, 2, 4}, {K, 2, 4}, {P, 1, 4},
	{AE, 1, 6}, {J, 1, 6}, {UE, 1, 6}, {V, 1, 6},
	{OE, 1, 8}, {X, 1, 8},
	{Q, 1, 10}, {Y, 1, 10},
}

var canonical = newLetterDistribution("canonical", canonicalTable)

func newLetterDistribution(name string, table []distEntry) *LetterDistribution {
	ld := &LetterDistribution{Name: name}
	for _, e := range table {
		ld.order = append(ld.order, e.letter)
		ld.counts[e.letter] = e.count
		ld.scores[e.letter] = e.score
		ld.total += e.count
	}
	return ld
}

// Canonical returns the one distribution every game is played with.
func Canonical() *LetterDistribution {
	return canonical
}

// Score gives the point value of the given letter.
func (ld *LetterDistribution) Score(l Letter) int {
	if !l.IsValid() {
		return 0
	}
	return ld.scores[l]
}

// Count gives the number of tiles of the given letter in a full bag.
func (ld *LetterDistribution) Count(l Letter) int {
	if !l.IsValid() {
		return 0
	}
	return ld.counts[l]
}

// Total is the number of tiles in a full bag.
func (ld *LetterDistribution) Total() int {
	return ld.total
}

// Letters returns every letter in refill order.
func (ld *LetterDistribution) Letters() []Letter {
	out := make([]Letter, len(ld.order))
	copy(out, ld.order)
	return out
}

// WordScore returns the face value of the word.
func (ld *LetterDistribution) WordScore(w Word) int {
	score := 0
	for _, l := range w {
		score += ld.Score(l)
	}
	return score
}

// Tiles lays out one full bag's worth of tiles, unshuffled.
func (ld *LetterDistribution) Tiles() []Letter {
	tiles := make([]Letter, 0, ld.total)
	for _, l := range ld.order {
		for i := 0; i < ld.counts[l]; i++ {
			tiles = append(tiles, l)
		}
	}
	return tiles
}
