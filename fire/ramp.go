package fire

// Stop is one color of a piecewise-linear ramp.
type Stop struct {
	At    float32
	Color [3]float32
}

type Ramp []Stop

// DefaultRamp runs from black through dark red, red, orange and yellow to
// white, a blackbody-like gradient indexed by flame temperature.
var DefaultRamp = Ramp{
	{At: 0.00, Color: [3]float32{0, 0, 0}},
	{At: 0.15, Color: [3]float32{0.35, 0.02, 0}},
	{At: 0.35, Color: [3]float32{0.85, 0.12, 0.02}},
	{At: 0.55, Color: [3]float32{1.0, 0.45, 0.05}},
	{At: 0.78, Color: [3]float32{1.0, 0.82, 0.25}},
	{At: 1.00, Color: [3]float32{1.0, 0.97, 0.85}},
}

// Color returns the ramp color at t, clamped to the first and last stops.
func (r Ramp) Color(t float32) [3]float32 {
	if len(r) == 0 {
		return [3]float32{}
	}
	if t <= r[0].At {
		return r[0].Color
	}
	for i := 1; i < len(r); i++ {
		if t <= r[i].At {
			a, b := r[i-1], r[i]
			span := b.At - a.At
			if span <= 0 {
				return b.Color
			}
			k := (t - a.At) / span
			return [3]float32{
				a.Color[0] + (b.Color[0]-a.Color[0])*k,
				a.Color[1] + (b.Color[1]-a.Color[1])*k,
				a.Color[2] + (b.Color[2]-a.Color[2])*k,
			}
		}
	}
	return r[len(r)-1].Color
}
