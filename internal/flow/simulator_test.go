package flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimulatorRunsOnceAfterDelay(t *testing.T) {
	clock := newFakeClock()
	sim := NewSimulator(clock, 5*time.Second)
	runs := 0
	sim.Schedule("b1", func() { runs++ })
	assert.Equal(t, 1, sim.Pending())

	clock.Advance(4 * time.Second)
	assert.Equal(t, 0, runs)
	clock.Advance(time.Second)
	assert.Equal(t, 1, runs)
	assert.Equal(t, 0, sim.Pending())

	clock.Advance(time.Minute)
	assert.Equal(t, 1, runs)
}

func TestSimulatorCancel(t *testing.T) {
	clock := newFakeClock()
	sim := NewSimulator(clock, 5*time.Second)
	runs := 0
	sim.Schedule("b1", func() { runs++ })

	assert.True(t, sim.Cancel("b1"))
	assert.False(t, sim.Cancel("b1"))
	clock.Advance(time.Minute)
	assert.Equal(t, 0, runs)
}

func TestSimulatorRescheduleReplaces(t *testing.T) {
	clock := newFakeClock()
	sim := NewSimulator(clock, 5*time.Second)
	var got []string
	sim.Schedule("b1", func() { got = append(got, "old") })
	clock.Advance(3 * time.Second)
	sim.Schedule("b1", func() { got = append(got, "new") })

	clock.Advance(3 * time.Second)
	assert.Empty(t, got)
	clock.Advance(2 * time.Second)
	assert.Equal(t, []string{"new"}, got)
}

func TestSimulatorCancelAll(t *testing.T) {
	clock := newFakeClock()
	sim := NewSimulator(clock, time.Second)
	runs := 0
	sim.Schedule("b1", func() { runs++ })
	sim.Schedule("b2", func() { runs++ })
	assert.Equal(t, 2, sim.Pending())

	sim.CancelAll()
	clock.Advance(time.Minute)
	assert.Equal(t, 0, runs)
	assert.Equal(t, 0, sim.Pending())
}
