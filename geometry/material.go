package geometry

type Shading int

const (
	ShadingSmooth Shading = iota
	ShadingFlat
)

// Material is the static surface description of a procedural mesh.
// EmissiveStrength is multiplied by the fire intensity at render time.
type Material struct {
	Name             string
	Albedo           [3]float32
	Roughness        float32
	Emissive         [3]float32
	EmissiveStrength float32
	Shading          Shading

	gpu      Releaser
	disposed bool
}

func RockMaterial() *Material {
	return &Material{
		Name:      "rock",
		Albedo:    [3]float32{0.36, 0.34, 0.32},
		Roughness: 0.95,
		Shading:   ShadingFlat,
	}
}

// LogMaterial tints the charred wood with an ember glow near the fire.
func LogMaterial() *Material {
	return &Material{
		Name:             "log",
		Albedo:           [3]float32{0.24, 0.15, 0.09},
		Roughness:        0.85,
		Emissive:         [3]float32{1.0, 0.32, 0.06},
		EmissiveStrength: 0.35,
		Shading:          ShadingSmooth,
	}
}

func GroundMaterial() *Material {
	return &Material{
		Name:      "ground",
		Albedo:    [3]float32{0.16, 0.13, 0.1},
		Roughness: 1.0,
		Shading:   ShadingSmooth,
	}
}

func (m *Material) AttachGPU(r Releaser) {
	if m.gpu != nil && m.gpu != r {
		m.gpu.Release()
	}
	m.gpu = r
}

func (m *Material) GPU() Releaser { return m.gpu }

func (m *Material) Disposed() bool { return m.disposed }

func (m *Material) Dispose() {
	if m.disposed {
		return
	}
	m.disposed = true
	if m.gpu != nil {
		m.gpu.Release()
		m.gpu = nil
	}
}
