// Package camera implements the orbiting view around the fire.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Config struct {
	Target      [3]float32 `yaml:"target"`
	Distance    float32    `yaml:"distance"`
	MinDistance float32    `yaml:"min_distance"`
	MaxDistance float32    `yaml:"max_distance"`
	Yaw         float32    `yaml:"yaw"`
	Pitch       float32    `yaml:"pitch"`
	MinPitch    float32    `yaml:"min_pitch"`
	MaxPitch    float32    `yaml:"max_pitch"`
	FOV         float32    `yaml:"fov"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	AutoOrbit   float32    `yaml:"auto_orbit"`
	Sensitivity float32    `yaml:"sensitivity"`
	Damping     float32    `yaml:"damping"`
}

func DefaultConfig() Config {
	return Config{
		Target:      [3]float32{0, 0.6, 0},
		Distance:    5.5,
		MinDistance: 2.0,
		MaxDistance: 12,
		Yaw:         0.3,
		Pitch:       0.32,
		MinPitch:    0.05,
		MaxPitch:    1.2,
		FOV:         50,
		Near:        0.05,
		Far:         200,
		AutoOrbit:   0.05,
		Sensitivity: 0.005,
		Damping:     6,
	}
}

// Orbit looks at Target from a spherical offset. Y is up.
type Orbit struct {
	cfg Config

	target   mgl32.Vec3
	distance float32
	yaw      float32
	pitch    float32

	// Pending drag velocity, decayed each frame.
	yawVel   float32
	pitchVel float32
	zoomVel  float32

	aspect float32
	proj   mgl32.Mat4
}

func NewOrbit(cfg Config, width, height int) *Orbit {
	o := &Orbit{
		cfg:      cfg,
		target:   mgl32.Vec3(cfg.Target),
		distance: cfg.Distance,
		yaw:      cfg.Yaw,
		pitch:    cfg.Pitch,
	}
	o.Resize(width, height)
	return o
}

// Drag feeds a pointer delta in pixels.
func (o *Orbit) Drag(dx, dy float32) {
	o.yawVel += dx * o.cfg.Sensitivity * 60
	o.pitchVel += dy * o.cfg.Sensitivity * 60
}

func (o *Orbit) Zoom(delta float32) {
	o.zoomVel -= delta * 2
}

// Rotate turns the view by the given angles in radians without inertia.
func (o *Orbit) Rotate(yaw, pitch float32) {
	o.yaw += yaw
	o.pitch = clamp(o.pitch+pitch, o.cfg.MinPitch, o.cfg.MaxPitch)
}

// Reset returns to the configured view and drops pending motion.
func (o *Orbit) Reset() {
	o.target = mgl32.Vec3(o.cfg.Target)
	o.distance = o.cfg.Distance
	o.yaw, o.pitch = o.cfg.Yaw, o.cfg.Pitch
	o.yawVel, o.pitchVel, o.zoomVel = 0, 0, 0
}

func (o *Orbit) Update(dt float64) {
	if dt <= 0 {
		return
	}
	d := float32(dt)
	o.yaw += (o.cfg.AutoOrbit + o.yawVel) * d
	o.pitch += o.pitchVel * d
	o.distance += o.zoomVel * d

	decay := float32(math.Exp(-float64(o.cfg.Damping) * dt))
	o.yawVel *= decay
	o.pitchVel *= decay
	o.zoomVel *= decay

	o.pitch = clamp(o.pitch, o.cfg.MinPitch, o.cfg.MaxPitch)
	if o.cfg.MaxDistance > 0 {
		o.distance = clamp(o.distance, o.cfg.MinDistance, o.cfg.MaxDistance)
	}
	o.yaw = float32(math.Mod(float64(o.yaw), 2*math.Pi))
}

// Resize recomputes the projection. A zero height keeps the last aspect.
func (o *Orbit) Resize(width, height int) {
	if width > 0 && height > 0 {
		o.aspect = float32(width) / float32(height)
	} else if o.aspect == 0 {
		o.aspect = 16.0 / 9.0
	}
	o.proj = mgl32.Perspective(mgl32.DegToRad(o.cfg.FOV), o.aspect, o.cfg.Near, o.cfg.Far)
}

func (o *Orbit) Aspect() float32 { return o.aspect }

func (o *Orbit) Yaw() float32 { return o.yaw }

func (o *Orbit) Pitch() float32 { return o.pitch }

func (o *Orbit) Distance() float32 { return o.distance }

func (o *Orbit) Target() mgl32.Vec3 { return o.target }

func (o *Orbit) Position() mgl32.Vec3 {
	cp := float32(math.Cos(float64(o.pitch)))
	off := mgl32.Vec3{
		cp * float32(math.Sin(float64(o.yaw))),
		float32(math.Sin(float64(o.pitch))),
		cp * float32(math.Cos(float64(o.yaw))),
	}
	return o.target.Add(off.Mul(o.distance))
}

func (o *Orbit) Forward() mgl32.Vec3 {
	return o.target.Sub(o.Position()).Normalize()
}

// Right is the horizontal screen right vector, used to face billboards.
func (o *Orbit) Right() mgl32.Vec3 {
	return o.Forward().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

func (o *Orbit) View() mgl32.Mat4 {
	return mgl32.LookAtV(o.Position(), o.target, mgl32.Vec3{0, 1, 0})
}

func (o *Orbit) Projection() mgl32.Mat4 { return o.proj }

func (o *Orbit) ViewProjection() mgl32.Mat4 { return o.proj.Mul4(o.View()) }

// Frustum returns the six normalized planes of vp in the order Left,
// Right, Bottom, Top, Near, Far. A plane is Ax + By + Cz + D = 0.
func Frustum(vp mgl32.Mat4) [6]mgl32.Vec4 {
	row := func(r int) mgl32.Vec4 {
		return mgl32.Vec4{vp.At(r, 0), vp.At(r, 1), vp.At(r, 2), vp.At(r, 3)}
	}
	w := row(3)
	planes := [6]mgl32.Vec4{
		w.Add(row(0)), w.Sub(row(0)),
		w.Add(row(1)), w.Sub(row(1)),
		w.Add(row(2)), w.Sub(row(2)),
	}
	for i := range planes {
		n := planes[i].Vec3().Len()
		if n > 0 {
			planes[i] = planes[i].Mul(1 / n)
		}
	}
	return planes
}

// SphereVisible reports whether a bounding sphere touches the frustum.
func SphereVisible(planes [6]mgl32.Vec4, center mgl32.Vec3, radius float32) bool {
	for _, p := range planes {
		if p.Vec3().Dot(center)+p[3] < -radius {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
