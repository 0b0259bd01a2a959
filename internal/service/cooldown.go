package service

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Cooldown enforces a minimum interval between two messages of one user. A
// zero interval disables it.
type Cooldown struct {
	interval time.Duration
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
	now      func() time.Time
}

func NewCooldown(interval time.Duration) *Cooldown {
	return &Cooldown{
		interval: interval,
		limiters: map[int64]*rate.Limiter{},
		now:      time.Now,
	}
}

// Wait returns zero and takes the user's slot when a message may go through,
// otherwise the time left until the next one is allowed.
func (c *Cooldown) Wait(userID int64) time.Duration {
	if c == nil || c.interval <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	lim, ok := c.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(c.interval), 1)
		c.limiters[userID] = lim
	}
	now := c.now()
	r := lim.ReserveN(now, 1)
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return d
	}
	return 0
}
