package federation

import "sync/atomic"

// Sequencer stamps federation and join records with increasing seq values.
type Sequencer interface {
	Next() int64
}

// Clock is a monotonic logical clock. Records are ordered by the seq it
// issues, never by wall time, so a replayed store lists identically.
//
// Clock is safe for concurrent use.
type Clock struct {
	seq atomic.Int64
}

// NewClockAt creates a clock whose first Next returns start+1.
// Used to resume after the highest seq already stored.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
