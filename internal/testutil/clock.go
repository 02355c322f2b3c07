package testutil

import "sync"

// ResettableClock is a logical clock for tests. Unlike federation.Clock it
// can be reset, so one scenario can run several times with identical seq
// values.
//
// Thread-safety: All methods are safe for concurrent use.
type ResettableClock struct {
	mu  sync.Mutex
	seq int64
}

// NewResettableClock creates a clock whose first Next returns 1.
func NewResettableClock() *ResettableClock {
	return &ResettableClock{}
}

// Next increments and returns the next sequence number.
func (c *ResettableClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the last issued sequence number.
func (c *ResettableClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds the clock so the next call to Next returns 1.
func (c *ResettableClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
