package campfire

import (
	"sync"
	"time"

	"github.com/gekko3d/campfire/particles"
)

// Clock reports monotonic seconds.
type Clock interface {
	Now() float64
}

type wallClock struct{ start time.Time }

func NewWallClock() Clock { return &wallClock{start: time.Now()} }

func (c *wallClock) Now() float64 { return time.Since(c.start).Seconds() }

// ManualClock only moves when told to; headless runs and tests use it.
type ManualClock struct {
	mu  sync.Mutex
	now float64
}

func (c *ManualClock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Advance(seconds float64) {
	c.mu.Lock()
	c.now += seconds
	c.mu.Unlock()
}

// FixedStepClock advances by Step on every read, giving deterministic
// frame deltas.
type FixedStepClock struct {
	Step float64
	now  float64
	read bool
}

func (c *FixedStepClock) Now() float64 {
	if c.read {
		c.now += c.Step
	}
	c.read = true
	return c.now
}

type Time struct {
	Elapsed  float64 // Sum of clamped deltas
	Dt       float64 // Clamped delta of the current frame
	RawDt    float64 // Unclamped clock delta
	Frame    uint64
	MaxDelta float64

	clock Clock
	last  float64
	begun bool
}

type TimeModule struct {
	Clock    Clock
	MaxDelta float64
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	clock := mod.Clock
	if clock == nil {
		clock = NewWallClock()
	}
	maxDelta := mod.MaxDelta
	if maxDelta <= 0 {
		maxDelta = particles.DefaultMaxDelta
	}
	cmd.AddResources(&Time{MaxDelta: maxDelta, clock: clock})
	app.UseSystem(System(timeSystem).InStage(Prelude))
}

// timeSystem runs first in every frame, so Update-stage systems only ever
// see the clamped delta.
func timeSystem(t *Time) {
	now := t.clock.Now()
	if !t.begun {
		t.begun = true
		t.last = now
	}
	raw := now - t.last
	t.last = now
	if raw < 0 {
		raw = 0
	}
	t.RawDt = raw
	t.Dt = min(raw, t.MaxDelta)
	t.Elapsed += t.Dt
	t.Frame++
}
