package tilemapping

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

const (
	// MaxLetters is the number of tiles a full rack holds.
	MaxLetters = 7
	// EmptySlots is how many free slots a renderer keeps past a full rack.
	EmptySlots = 3
)

// Slot is an occupied rack slot.
type Slot struct {
	Index  int    `json:"index" yaml:"index"`
	Letter Letter `json:"letter" yaml:"letter"`
}

// Rack is a player's stand. Tiles sit in numbered slots; slots can be empty
// and a rack can temporarily hold more than MaxLetters tiles. Adding never
// moves a tile that is already on the rack.
type Rack struct {
	slots    map[int]Letter
	maxIndex int
}

// NewRack creates a rack holding the given letters in slots 0, 1, ...
func NewRack(letters ...Letter) *Rack {
	r := &Rack{slots: make(map[int]Letter), maxIndex: -1}
	r.Add(letters...)
	return r
}

// RackFromSlots rebuilds a rack from its occupied slots.
func RackFromSlots(slots []Slot) *Rack {
	r := NewRack()
	for _, s := range slots {
		r.Set(s.Index, s.Letter)
	}
	return r
}

// Add puts each letter in the lowest free slot.
func (r *Rack) Add(letters ...Letter) {
	for _, l := range letters {
		r.Set(r.NextFreePosition(0), l)
	}
}

// Set writes a letter to a specific slot.
func (r *Rack) Set(index int, l Letter) {
	r.slots[index] = l
	if index > r.maxIndex {
		r.maxIndex = index
	}
}

// Remove clears the given slots and returns the letters that were on them.
// Empty slots are skipped.
func (r *Rack) Remove(indices ...int) []Letter {
	removed := make([]Letter, 0, len(indices))
	for _, idx := range indices {
		if l, ok := r.slots[idx]; ok {
			removed = append(removed, l)
			delete(r.slots, idx)
		}
	}
	return removed
}

// At returns the letter in the slot, if any.
func (r *Rack) At(index int) (Letter, bool) {
	l, ok := r.slots[index]
	return l, ok
}

// NextFreePosition is the lowest free slot at or above min.
func (r *Rack) NextFreePosition(min int) int {
	for {
		if _, ok := r.slots[min]; !ok {
			return min
		}
		min++
	}
}

// Count is the number of tiles on the rack.
func (r *Rack) Count() int {
	return len(r.slots)
}

// MissingCount is how many tiles the rack is short of a full rack. It is
// negative while the rack holds overflow.
func (r *Rack) MissingCount() int {
	return MaxLetters - r.Count()
}

func (r *Rack) IsEmpty() bool {
	return len(r.slots) == 0
}

// MaxIndex is the highest slot ever used, but never less than a full rack
// plus the empty buffer.
func (r *Rack) MaxIndex() int {
	return max(r.maxIndex, MaxLetters+EmptySlots)
}

// Slots returns the occupied slots in ascending order.
func (r *Rack) Slots() []Slot {
	slots := lo.MapToSlice(r.slots, func(idx int, l Letter) Slot {
		return Slot{Index: idx, Letter: l}
	})
	sort.Slice(slots, func(i, j int) bool { return slots[i].Index < slots[j].Index })
	return slots
}

// Letters returns the tiles in slot order.
func (r *Rack) Letters() []Letter {
	return lo.Map(r.Slots(), func(s Slot, _ int) Letter { return s.Letter })
}

// Score returns the total face value of the tiles on this rack.
func (r *Rack) Score(ld *LetterDistribution) int {
	return lo.SumBy(r.Letters(), ld.Score)
}

// String returns a user-visible version of this rack.
func (r *Rack) String() string {
	var sb strings.Builder
	for i := 0; i <= r.MaxIndex(); i++ {
		if l, ok := r.slots[i]; ok {
			sb.WriteString(l.UserVisible())
		} else {
			sb.WriteByte('.')
		}
	}
	return strings.TrimRight(sb.String(), ".")
}
