package catalog

import (
	"sync"
	"testing"
)

func TestSequencerDiscardsStaleResponses(t *testing.T) {
	var s Sequencer
	first := s.Next()
	second := s.Next()

	if !s.Accept(second) {
		t.Fatal("expected the newest response to be accepted")
	}
	if s.Accept(first) {
		t.Fatal("expected an older response to be discarded")
	}
	if s.Accept(second) {
		t.Fatal("expected a duplicate response to be discarded")
	}
	if s.Current() != second {
		t.Fatalf("expected current %d, got %d", second, s.Current())
	}
}

func TestSequencerConcurrentAccept(t *testing.T) {
	var s Sequencer
	const n = 64
	tags := make([]uint64, n)
	for i := range tags {
		tags[i] = s.Next()
	}

	var wg sync.WaitGroup
	for _, tag := range tags {
		wg.Add(1)
		go func(tag uint64) {
			defer wg.Done()
			s.Accept(tag)
		}(tag)
	}
	wg.Wait()

	if s.Accept(tags[n-1]) {
		t.Fatal("expected the newest tag to have been accepted already")
	}
}
