package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestOrbit_PositionDistance(t *testing.T) {
	o := NewOrbit(DefaultConfig(), 1280, 720)
	d := o.Position().Sub(o.Target()).Len()
	assert.InDelta(t, float64(DefaultConfig().Distance), float64(d), 1e-4)
	assert.Greater(t, o.Position().Y(), o.Target().Y(), "default pitch looks down at the fire")
}

func TestOrbit_ResizeGuardsZeroHeight(t *testing.T) {
	o := NewOrbit(DefaultConfig(), 800, 400)
	assert.InDelta(t, 2.0, float64(o.Aspect()), 1e-6)
	before := o.Projection()

	o.Resize(800, 0)
	assert.InDelta(t, 2.0, float64(o.Aspect()), 1e-6)
	assert.Equal(t, before, o.Projection())

	o.Resize(400, 400)
	assert.InDelta(t, 1.0, float64(o.Aspect()), 1e-6)
	assert.NotEqual(t, before, o.Projection())

	z := NewOrbit(DefaultConfig(), 0, 0)
	assert.Greater(t, z.Aspect(), float32(0))
}

func TestOrbit_AutoOrbitAndDamping(t *testing.T) {
	cfg := DefaultConfig()
	o := NewOrbit(cfg, 640, 480)
	yaw := o.Yaw()
	o.Update(1)
	assert.InDelta(t, float64(yaw+cfg.AutoOrbit), float64(o.Yaw()), 1e-5)

	o.Drag(0, 10000)
	for i := 0; i < 600; i++ {
		o.Update(1.0 / 60)
	}
	assert.LessOrEqual(t, o.Pitch(), cfg.MaxPitch)
	assert.InDelta(t, 0, float64(o.pitchVel), 1e-3, "drag velocity decays")

	o.Zoom(-1000)
	o.Update(1)
	assert.LessOrEqual(t, o.Distance(), cfg.MaxDistance)
}

func TestFrustum_SphereVisible(t *testing.T) {
	o := NewOrbit(DefaultConfig(), 1280, 720)
	planes := Frustum(o.ViewProjection())
	assert.True(t, SphereVisible(planes, o.Target(), 0.5))

	behind := o.Position().Add(o.Position().Sub(o.Target()).Normalize().Mul(10))
	assert.False(t, SphereVisible(planes, behind, 0.5))
	assert.False(t, SphereVisible(planes, mgl32.Vec3{0, 0, 0}.Add(o.Forward().Mul(-1000)), 1))
}

func TestOrbit_RotateClampsPitch(t *testing.T) {
	cfg := DefaultConfig()
	cam := NewOrbit(cfg, 800, 600)
	cam.Rotate(0, 10)
	assert.Equal(t, cfg.MaxPitch, cam.Pitch())
	cam.Rotate(0, -10)
	assert.Equal(t, cfg.MinPitch, cam.Pitch())
}

func TestOrbit_Reset(t *testing.T) {
	cfg := DefaultConfig()
	o := NewOrbit(cfg, 800, 600)
	o.Drag(100, 40)
	o.Zoom(3)
	o.Update(0.5)
	o.Reset()
	assert.Equal(t, cfg.Yaw, o.Yaw())
	assert.Equal(t, cfg.Distance, o.Distance())
	o.Update(0.5)
	assert.InDelta(t, float64(cfg.Yaw+cfg.AutoOrbit*0.5), float64(o.Yaw()), 1e-5, "pending drag is dropped")
}
