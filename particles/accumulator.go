package particles

// Accumulator turns a continuous spawn rate into whole spawns. Fractional
// remainders carry over between frames, so the long-run count tracks
// Rate*time whatever the frame timing.
type Accumulator struct {
	Rate float64
	acc  float64
}

// Advance adds Rate*dt and returns how many whole spawns are due.
func (a *Accumulator) Advance(dt float64) int {
	if dt <= 0 || a.Rate <= 0 {
		return 0
	}
	a.acc += a.Rate * dt
	n := 0
	for a.acc >= 1 {
		a.acc--
		n++
	}
	return n
}

// Pending is the fractional spawn carried into the next frame.
func (a *Accumulator) Pending() float64 { return a.acc }

func (a *Accumulator) Reset() { a.acc = 0 }
