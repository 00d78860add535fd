package store

import "sync/atomic"

// Sequence numbers requests for one collection so a response can tell
// whether a newer request was issued after it
type Sequence struct {
	n atomic.Uint64
}

// Next starts a new request and returns its number
func (s *Sequence) Next() uint64 {
	return s.n.Add(1)
}

// IsLatest reports whether n is the most recent request
func (s *Sequence) IsLatest(n uint64) bool {
	return s.n.Load() == n
}
