package gameplay

import (
	"sync"
	"time"
)

// Countdown is a cancellable one-second ticker. The owner receives a
// callback per elapsed second and a final callback when the counter
// reaches zero. Stop is safe to call more than once and from the
// callbacks themselves.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	stopped   bool
	stop      chan struct{}
	onTick    func(remaining int)
	onExpire  func()
}

// NewCountdown creates a countdown of the given number of seconds. It
// does not start ticking until Start is called.
func NewCountdown(seconds int, onTick func(remaining int), onExpire func()) *Countdown {
	if seconds < 0 {
		seconds = 0
	}
	return &Countdown{
		remaining: seconds,
		stop:      make(chan struct{}),
		onTick:    onTick,
		onExpire:  onExpire,
	}
}

// Start begins ticking once per second on a background goroutine.
func (c *Countdown) Start() {
	ticker := time.NewTicker(time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				if !c.Tick() {
					return
				}
			}
		}
	}()
}

// Tick advances the countdown by one second and reports whether it is
// still running. Exposed so tests and single-stepped callers can drive
// time without a real clock.
func (c *Countdown) Tick() bool {
	c.mu.Lock()
	if c.stopped || c.remaining <= 0 {
		c.mu.Unlock()
		return false
	}
	c.remaining--
	remaining := c.remaining
	expired := remaining == 0
	if expired {
		c.stopped = true
	}
	c.mu.Unlock()

	if c.onTick != nil {
		c.onTick(remaining)
	}
	if expired {
		if c.onExpire != nil {
			c.onExpire()
		}
		return false
	}
	return true
}

// Remaining returns the seconds left. Never negative.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Stop cancels the countdown. A stopped countdown never fires again.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	close(c.stop)
}
