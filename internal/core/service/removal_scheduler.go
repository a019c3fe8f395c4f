package service

import "time"

// pendingRemoval is one armed grace-period timer for a line. The entry in
// Cart.pending is authoritative: a fired callback only acts if its own entry
// is still registered, so a timer that was replaced or canceled while firing
// can never delete a revived line.
type pendingRemoval struct {
	timer  *time.Timer
	fireAt time.Time
}

// armRemoval starts the grace-period timer for a line, replacing any timer
// already pending for it. Caller holds mu.
func (c *Cart) armRemoval(lineID string, grace time.Duration) {
	if old, ok := c.pending[lineID]; ok {
		old.timer.Stop()
	}

	entry := &pendingRemoval{fireAt: c.clock.Now().Add(grace)}
	entry.timer = time.AfterFunc(grace, func() {
		c.expireLine(lineID, entry)
	})
	c.pending[lineID] = entry
}

// cancelRemoval invalidates a pending removal. Idempotent. Caller holds mu.
func (c *Cart) cancelRemoval(lineID string) {
	if entry, ok := c.pending[lineID]; ok {
		entry.timer.Stop()
		delete(c.pending, lineID)
	}
}

// cancelAllRemovals invalidates every pending removal. Caller holds mu.
func (c *Cart) cancelAllRemovals() {
	for lineID, entry := range c.pending {
		entry.timer.Stop()
		delete(c.pending, lineID)
	}
}

// expireLine is the timer callback. It runs on the timer goroutine, so it
// re-enters the cart mutex and applies the deletion through the same
// serialization point as every other mutation. Compare-and-clear against the
// pending map guards the race where cancellation and firing overlap, and the
// quantity re-check guards a revival that landed between arming and firing.
func (c *Cart) expireLine(lineID string, entry *pendingRemoval) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending[lineID] != entry {
		return
	}
	delete(c.pending, lineID)

	line, ok := c.byLine[lineID]
	if !ok || line.Quantity != 0 {
		return
	}
	c.removeLine(line)
}

// PendingRemovals reports how many lines currently have an armed grace timer.
func (c *Cart) PendingRemovals() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
