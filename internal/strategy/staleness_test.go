package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStalenessThreshold(t *testing.T) {
	m := NewStalenessMonitor(5 * time.Second)
	now := time.Now()

	// 10s old with a 5s threshold: stale.
	rep := m.Check(now, now.Add(-10*time.Second))
	assert.True(t, rep.Stale)
	assert.True(t, rep.Entered)
	assert.Equal(t, 10*time.Second, rep.Age)

	// 3s old: fresh.
	rep = m.Check(now, now.Add(-3*time.Second))
	assert.False(t, rep.Stale)
	assert.False(t, rep.Entered)
}

func TestStalenessBoundaryExclusive(t *testing.T) {
	m := NewStalenessMonitor(5 * time.Second)
	now := time.Now()

	// Exactly at threshold is still fresh; staleness requires age > threshold.
	rep := m.Check(now, now.Add(-5*time.Second))
	assert.False(t, rep.Stale)

	rep = m.Check(now, now.Add(-5*time.Second-time.Nanosecond))
	assert.True(t, rep.Stale)
}

func TestStalenessZeroThreshold(t *testing.T) {
	m := NewStalenessMonitor(0)
	now := time.Now()

	rep := m.Check(now, now)
	assert.False(t, rep.Stale)

	rep = m.Check(now, now.Add(-time.Millisecond))
	assert.True(t, rep.Stale)
}

func TestStalenessSaturatesAtZero(t *testing.T) {
	m := NewStalenessMonitor(5 * time.Second)
	now := time.Now()

	// A clock running behind the last update must not underflow.
	rep := m.Check(now, now.Add(10*time.Second))
	assert.Equal(t, time.Duration(0), rep.Age)
	assert.False(t, rep.Stale)
}

func TestStalenessEnteredOnlyOnTransition(t *testing.T) {
	m := NewStalenessMonitor(5 * time.Second)
	now := time.Now()
	old := now.Add(-10 * time.Second)

	rep := m.Check(now, old)
	assert.True(t, rep.Entered)

	// Still stale, but not a fresh transition.
	rep = m.Check(now.Add(time.Second), old)
	assert.True(t, rep.Stale)
	assert.False(t, rep.Entered)

	// A book update resets to fresh, so the next stale check fires again.
	m.Reset()
	rep = m.Check(now.Add(2*time.Second), old)
	assert.True(t, rep.Entered)
}
