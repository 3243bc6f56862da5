package store

import (
	"sync"
	"time"
)

// ContactSlice tracks one contact form submission. Success and Error are
// mutually exclusive.
type ContactSlice struct {
	mu    sync.Mutex
	state ContactState
	gen   uint64
	timer *time.Timer
}

func (c *ContactSlice) Pending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.stopTimer()
	c.state = ContactState{Loading: true}
}

// Fulfilled marks the send successful. With resetAfter > 0, success clears
// itself after that long unless another submission started meanwhile.
func (c *ContactSlice) Fulfilled(resetAfter time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = ContactState{Success: true}
	if resetAfter <= 0 {
		return
	}
	gen := c.gen
	c.stopTimer()
	c.timer = time.AfterFunc(resetAfter, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen == gen {
			c.state.Success = false
		}
	})
}

func (c *ContactSlice) Rejected(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = ContactState{Error: msg}
}

func (c *ContactSlice) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Error = ""
}

func (c *ContactSlice) ClearSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Success = false
}

func (c *ContactSlice) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.stopTimer()
	c.state = ContactState{}
}

func (c *ContactSlice) Snapshot() ContactState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *ContactSlice) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
