package navigate

import "sync"

// sequence issues monotonically increasing request numbers and decides
// whether a completed request may still be applied. Every asynchronous
// mutation path (recenter, filter change) goes through the same
// instance, so the last-request-wins rule lives in exactly one place.
//
// Three counters: issued (handed out), applied (won the race and
// replaced state), settled (finished in any way, including failure and
// discard). A request is in flight while issued > settled.
type sequence struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
	settled uint64
}

// Issue hands out the next request number, strictly greater than any
// previously issued
func (s *sequence) Issue() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Apply settles the request and reports whether it is still the most
// recent one issued. A request that is not the latest is stale and must
// be discarded; there is no request cancellation, only discarding.
func (s *sequence) Apply(n uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > s.settled {
		s.settled = n
	}
	if n != s.issued || n <= s.applied {
		return false
	}
	s.applied = n
	return true
}

// Settle records that a request finished without being applied (failed
// fetch), so it no longer counts as in flight
func (s *sequence) Settle(n uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > s.settled {
		s.settled = n
	}
}

func (s *sequence) counts() (issued, applied, settled uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issued, s.applied, s.settled
}
