package store

import "sync"

// Loading is a boolean loading flag that counts overlapping requests.
// The flag stays true until every request started with Begin has called
// Done. Set writes the flag directly, last writer wins.
type Loading struct {
	*Store[bool]

	mu      sync.Mutex
	pending int
}

// NewLoading creates a cleared flag
func NewLoading() *Loading {
	return &Loading{Store: New(false)}
}

// Begin marks a request as pending and raises the flag
func (l *Loading) Begin() *Ticket {
	l.mu.Lock()
	l.pending++
	l.mu.Unlock()
	t := &Ticket{loading: l}

	l.refresh()
	return t
}

// Pending returns the number of requests that have not called Done
func (l *Loading) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

func (l *Loading) done() {
	l.mu.Lock()
	if l.pending > 0 {
		l.pending--
	}
	l.mu.Unlock()

	l.refresh()
}

// refresh derives the flag from the pending count under the store's lock,
// so the last refresh always reflects the latest count
func (l *Loading) refresh() {
	l.Update(func(bool) bool {
		return l.Pending() > 0
	})
}

// Ticket identifies one pending request
type Ticket struct {
	loading *Loading
	once    sync.Once
}

// Done settles the request. Calling it more than once has no effect.
func (t *Ticket) Done() {
	t.once.Do(t.loading.done)
}
