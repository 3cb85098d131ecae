package peer

// dedupWindow is how many numbered messages per origin the host remembers.
const dedupWindow = 128

// history remembers the outcome of recently received numbered messages
// of one origin, so a resent message is answered without being applied
// twice.
type history struct {
	results map[uint64]error
	order   []uint64
}

type dedup map[string]*history

// lookup reports whether seq was seen from origin, and what it returned.
func (d dedup) lookup(origin string, seq uint64) (bool, error) {
	s, ok := d[origin]
	if !ok {
		return false, nil
	}
	err, ok := s.results[seq]
	return ok, err
}

func (d dedup) record(origin string, seq uint64, err error) {
	s, ok := d[origin]
	if !ok {
		s = &history{results: map[uint64]error{}}
		d[origin] = s
	}
	if _, ok := s.results[seq]; ok {
		return
	}
	if len(s.order) == dedupWindow {
		delete(s.results, s.order[0])
		s.order = s.order[1:]
	}
	s.results[seq] = err
	s.order = append(s.order, seq)
}

// forget drops an origin's history. A peer that says hello again numbers
// its messages from the start.
func (d dedup) forget(origin string) {
	delete(d, origin)
}
