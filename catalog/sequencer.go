package catalog

import "sync/atomic"

// Sequencer tags requests with increasing numbers and accepts a response
// only if it belongs to a request newer than every response accepted so far.
// A slow, older response can therefore never replace a newer one.
type Sequencer struct {
	issued   atomic.Uint64
	accepted atomic.Uint64
}

// Next returns the tag for a new request. Tags start at 1.
func (s *Sequencer) Next() uint64 {
	return s.issued.Add(1)
}

// Current returns the most recently issued tag.
func (s *Sequencer) Current() uint64 {
	return s.issued.Load()
}

// Accept reports whether the response tagged seq should be applied.
func (s *Sequencer) Accept(seq uint64) bool {
	for {
		cur := s.accepted.Load()
		if seq <= cur {
			return false
		}
		if s.accepted.CompareAndSwap(cur, seq) {
			return true
		}
	}
}
