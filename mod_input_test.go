package campfire

import (
	"testing"

	"github.com/gekko3d/campfire/camera"
	"github.com/stretchr/testify/assert"
)

func TestInput_ButtonEdges(t *testing.T) {
	in := &Input{}
	in.setButton(KeyH, true)
	assert.True(t, in.Pressed[KeyH])
	assert.True(t, in.JustPressed[KeyH])

	in.setButton(KeyH, true)
	assert.False(t, in.JustPressed[KeyH], "held keys are not pressed again")

	in.setButton(KeyH, false)
	assert.False(t, in.Pressed[KeyH])
	assert.True(t, in.JustReleased[KeyH])
}

func TestInput_MouseDelta(t *testing.T) {
	in := &Input{}
	in.moveMouse(100, 50)
	assert.Zero(t, in.MouseDeltaX, "first position has no delta")

	in.moveMouse(110, 45)
	assert.Equal(t, 10.0, in.MouseDeltaX)
	assert.Equal(t, -5.0, in.MouseDeltaY)
}

func TestSteerCamera_DragAndZoom(t *testing.T) {
	cam := camera.NewOrbit(camera.DefaultConfig(), 800, 600)
	in := &Input{}
	in.moveMouse(0, 0)
	in.setButton(MouseButtonLeft, true)
	in.moveMouse(40, 0)

	yaw := cam.Yaw()
	steerCamera(in, cam, 1.0/60)
	cam.Update(1.0 / 60)
	assert.Greater(t, cam.Yaw(), yaw)

	dist := cam.Distance()
	in.setButton(MouseButtonLeft, false)
	in.ScrollY = 3
	steerCamera(in, cam, 1.0/60)
	assert.Zero(t, in.ScrollY, "scroll is consumed")
	cam.Update(0.1)
	assert.Less(t, cam.Distance(), dist, "scrolling up zooms in")
}

func TestSteerCamera_KeysAndActions(t *testing.T) {
	cfg := camera.DefaultConfig()
	cam := camera.NewOrbit(cfg, 800, 600)
	in := &Input{}

	in.setButton(KeyRight, true)
	in.setButton(KeyUp, true)
	quit, hud := steerCamera(in, cam, 0.1)
	assert.False(t, quit)
	assert.False(t, hud)
	assert.InDelta(t, float64(cfg.Yaw)+0.12, float64(cam.Yaw()), 1e-5)
	assert.InDelta(t, float64(cfg.Pitch)+0.12, float64(cam.Pitch()), 1e-5)

	in.setButton(KeyRight, false)
	in.setButton(KeyUp, false)
	in.setButton(KeyR, true)
	steerCamera(in, cam, 0.1)
	assert.Equal(t, cfg.Yaw, cam.Yaw())
	assert.Equal(t, cfg.Pitch, cam.Pitch())

	in.setButton(KeyH, true)
	_, hud = steerCamera(in, cam, 0.1)
	assert.True(t, hud)

	in.setButton(KeyEscape, true)
	quit, _ = steerCamera(in, cam, 0.1)
	assert.True(t, quit)
}
