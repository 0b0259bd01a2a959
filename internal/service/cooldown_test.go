package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldown_Disabled(t *testing.T) {
	c := NewCooldown(0)
	for i := 0; i < 5; i++ {
		assert.Zero(t, c.Wait(1))
	}
	var nilCooldown *Cooldown
	assert.Zero(t, nilCooldown.Wait(1))
}

func TestCooldown_Interval(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	c := NewCooldown(10 * time.Second)
	c.now = func() time.Time { return now }

	assert.Zero(t, c.Wait(1))
	d := c.Wait(1)
	assert.InDelta(t, float64(10*time.Second), float64(d), float64(time.Millisecond))
	assert.Zero(t, c.Wait(2), "users are independent")

	now = now.Add(4 * time.Second)
	d = c.Wait(1)
	assert.InDelta(t, float64(6*time.Second), float64(d), float64(time.Millisecond))

	now = now.Add(6 * time.Second)
	assert.Zero(t, c.Wait(1))
}
