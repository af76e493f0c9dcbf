package particles

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrInvalidConfig = errors.New("particles: invalid config")

// DefaultMaxDelta bounds a single integration step. Larger frame deltas,
// e.g. after the window was hidden, are clamped to it.
const DefaultMaxDelta = 0.1

// SentinelY parks inactive particles far below the scene.
const SentinelY = -1000

// Buffers are the flat per-slot arrays the renderer reads. Every slot is
// rewritten on each update; inactive slots carry sentinel values.
type Buffers struct {
	Positions []float32 // xyz per slot
	Life      []float32
	Sizes     []float32
	Phases    []float32
}

// Particle is a read-only copy of one active slot.
type Particle struct {
	Index    int
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Age      float32
	Lifetime float32
	Life     float32
	Size     float32
	Phase    float32
}

// system holds the slot state shared by embers and smoke. Age is tracked
// per slot and normalized on demand; each particle type decides how the
// normalized age maps to its exported life value.
type system struct {
	pool     *Pool
	spawner  Accumulator
	rng      *rand.Rand
	maxDelta float64
	elapsed  float64

	pos      []mgl32.Vec3
	vel      []mgl32.Vec3
	age      []float32
	lifetime []float32
	size     []float32
	baseSize []float32
	phase    []float32
	spin     []float32

	buffers      Buffers
	exportLife   func(t float32) float32
	sentinelLife float32
	disposed     bool
}

func newSystem(capacity int, rate float64, seed int64, maxDelta float64, exportLife func(float32) float32, sentinelLife float32) *system {
	s := &system{
		pool:     NewPool(capacity),
		spawner:  Accumulator{Rate: rate},
		rng:      rand.New(rand.NewSource(seed)),
		maxDelta: maxDelta,
		pos:      make([]mgl32.Vec3, capacity),
		vel:      make([]mgl32.Vec3, capacity),
		age:      make([]float32, capacity),
		lifetime: make([]float32, capacity),
		size:     make([]float32, capacity),
		baseSize: make([]float32, capacity),
		phase:    make([]float32, capacity),
		spin:     make([]float32, capacity),
		buffers: Buffers{
			Positions: make([]float32, capacity*3),
			Life:      make([]float32, capacity),
			Sizes:     make([]float32, capacity),
			Phases:    make([]float32, capacity),
		},
		exportLife:   exportLife,
		sentinelLife: sentinelLife,
	}
	for i := 0; i < capacity; i++ {
		s.writeSentinel(i)
	}
	return s
}

// clampDelta maps negative or NaN deltas to zero and caps the rest.
func (s *system) clampDelta(dt float64) float64 {
	if math.IsNaN(dt) || dt <= 0 {
		return 0
	}
	if dt > s.maxDelta {
		return s.maxDelta
	}
	return dt
}

func (s *system) kill(i int) {
	s.pool.Release(i)
	s.vel[i] = mgl32.Vec3{}
	s.writeSentinel(i)
}

func (s *system) writeSentinel(i int) {
	s.pos[i] = mgl32.Vec3{0, SentinelY, 0}
	s.buffers.Positions[i*3] = 0
	s.buffers.Positions[i*3+1] = SentinelY
	s.buffers.Positions[i*3+2] = 0
	s.buffers.Life[i] = s.sentinelLife
	s.buffers.Sizes[i] = 0
	s.buffers.Phases[i] = 0
}

func (s *system) normalizedAge(i int) float32 {
	if s.lifetime[i] <= 0 {
		return 1
	}
	return s.age[i] / s.lifetime[i]
}

func (s *system) flush() {
	for i := range s.age {
		if !s.pool.Active(i) {
			s.writeSentinel(i)
			continue
		}
		p := s.pos[i]
		s.buffers.Positions[i*3] = p[0]
		s.buffers.Positions[i*3+1] = p[1]
		s.buffers.Positions[i*3+2] = p[2]
		s.buffers.Life[i] = s.exportLife(s.normalizedAge(i))
		s.buffers.Sizes[i] = s.size[i]
		s.buffers.Phases[i] = s.phase[i]
	}
}

func (s *system) uniform(min, max float64) float32 {
	return float32(min + (max-min)*s.rng.Float64())
}

// discPoint samples uniformly inside a disc of the given radius in XZ.
func (s *system) discPoint(radius float64) (float32, float32) {
	r := radius * math.Sqrt(s.rng.Float64())
	theta := 2 * math.Pi * s.rng.Float64()
	return float32(r * math.Cos(theta)), float32(r * math.Sin(theta))
}

// ActiveCount returns the number of live particles.
func (s *system) ActiveCount() int { return s.pool.ActiveCount() }

func (s *system) Capacity() int { return s.pool.Capacity() }

func (s *system) Stats() Stats { return s.pool.Stats() }

// Elapsed is the simulated time after delta clamping.
func (s *system) Elapsed() float64 { return s.elapsed }

// Buffers exposes the per-slot arrays. The slices are owned by the system
// and rewritten on every update; callers must treat them as read-only.
func (s *system) Buffers() Buffers { return s.buffers }

// ForEachActive calls fn with a copy of every active slot.
func (s *system) ForEachActive(fn func(Particle)) {
	for i := range s.age {
		if !s.pool.Active(i) {
			continue
		}
		fn(Particle{
			Index:    i,
			Position: s.pos[i],
			Velocity: s.vel[i],
			Age:      s.age[i],
			Lifetime: s.lifetime[i],
			Life:     s.exportLife(s.normalizedAge(i)),
			Size:     s.size[i],
			Phase:    s.phase[i],
		})
	}
}

func (s *system) Disposed() bool { return s.disposed }

// Dispose drops the slot arrays. Later updates are no-ops.
func (s *system) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.buffers = Buffers{}
	s.pos, s.vel = nil, nil
	s.age, s.lifetime, s.size, s.baseSize, s.phase, s.spin = nil, nil, nil, nil, nil, nil
}

func validateCommon(kind string, count int, rate, minLife, maxLife, minSize, maxSize, maxDelta float64) error {
	var errs []error
	if count <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s count must be > 0, got %d", ErrInvalidConfig, kind, count))
	}
	if rate < 0 {
		errs = append(errs, fmt.Errorf("%w: %s spawn rate must be >= 0, got %v", ErrInvalidConfig, kind, rate))
	}
	if minLife <= 0 || maxLife < minLife {
		errs = append(errs, fmt.Errorf("%w: %s life range must satisfy 0 < min <= max, got [%v, %v]", ErrInvalidConfig, kind, minLife, maxLife))
	}
	if minSize < 0 || maxSize < minSize {
		errs = append(errs, fmt.Errorf("%w: %s size range must satisfy 0 <= min <= max, got [%v, %v]", ErrInvalidConfig, kind, minSize, maxSize))
	}
	if maxDelta <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s max delta must be > 0, got %v", ErrInvalidConfig, kind, maxDelta))
	}
	return errors.Join(errs...)
}
