package campfire

import (
	"github.com/gekko3d/campfire/camera"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyEscape int = iota
	KeyQ
	KeyH
	KeyR
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyMinus
	KeyEqual
	MouseButtonLeft
	MouseButtonRight
	keyCount
)

// Input is the per-frame keyboard and mouse state of the window.
type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	ScrollY                  float64

	mouseSeen bool
}

// setButton records the state of key for this frame.
func (in *Input) setButton(key int, down bool) {
	in.JustPressed[key] = down && !in.Pressed[key]
	in.JustReleased[key] = !down && in.Pressed[key]
	in.Pressed[key] = down
}

func (in *Input) moveMouse(x, y float64) {
	if in.mouseSeen {
		in.MouseDeltaX = x - in.MouseX
		in.MouseDeltaY = y - in.MouseY
	}
	in.MouseX, in.MouseY = x, y
	in.mouseSeen = true
}

// endFrame clears the values accumulated by callbacks.
func (in *Input) endFrame() {
	in.ScrollY = 0
}

var keyToGlfw = map[int]glfw.Key{
	KeyEscape: glfw.KeyEscape,
	KeyQ:      glfw.KeyQ,
	KeyH:      glfw.KeyH,
	KeyR:      glfw.KeyR,
	KeyLeft:   glfw.KeyLeft,
	KeyRight:  glfw.KeyRight,
	KeyUp:     glfw.KeyUp,
	KeyDown:   glfw.KeyDown,
	KeyMinus:  glfw.KeyMinus,
	KeyEqual:  glfw.KeyEqual,
}

var buttonToGlfw = map[int]glfw.MouseButton{
	MouseButtonLeft:  glfw.MouseButtonLeft,
	MouseButtonRight: glfw.MouseButtonRight,
}

// inputSystem polls the window. Scroll arrives through the callback that
// ClientModule installs.
func inputSystem(state *clientState, input *Input, cmd *Commands) {
	glfw.PollEvents()
	win := state.window
	if win.ShouldClose() {
		cmd.Stop()
		return
	}

	for key, glfwKey := range keyToGlfw {
		input.setButton(key, win.GetKey(glfwKey) == glfw.Press)
	}
	for btn, glfwBtn := range buttonToGlfw {
		input.setButton(btn, win.GetMouseButton(glfwBtn) == glfw.Press)
	}
	input.moveMouse(win.GetCursorPos())
}

const (
	keyOrbitSpeed = 1.2 // radians per second
	keyZoomSpeed  = 4.0 // distance units per second
	scrollZoom    = 0.5
)

// steerCamera maps input onto the orbit camera: left drag orbits, scroll and
// -/= zoom, arrows orbit by keyboard. It reports the actions the app itself
// handles.
func steerCamera(in *Input, cam *camera.Orbit, dt float64) (quit, toggleHUD bool) {
	if in.Pressed[MouseButtonLeft] {
		cam.Drag(float32(in.MouseDeltaX), float32(in.MouseDeltaY))
	}
	if in.ScrollY != 0 {
		cam.Zoom(float32(in.ScrollY * scrollZoom))
	}

	step := float32(dt * keyOrbitSpeed)
	var yaw, pitch float32
	if in.Pressed[KeyLeft] {
		yaw -= step
	}
	if in.Pressed[KeyRight] {
		yaw += step
	}
	if in.Pressed[KeyUp] {
		pitch += step
	}
	if in.Pressed[KeyDown] {
		pitch -= step
	}
	if yaw != 0 || pitch != 0 {
		cam.Rotate(yaw, pitch)
	}

	zoom := float32(dt * keyZoomSpeed)
	if in.Pressed[KeyMinus] {
		cam.Zoom(-zoom)
	}
	if in.Pressed[KeyEqual] {
		cam.Zoom(zoom)
	}
	if in.JustPressed[KeyR] {
		cam.Reset()
	}

	quit = in.JustPressed[KeyEscape] || in.JustPressed[KeyQ]
	toggleHUD = in.JustPressed[KeyH]
	in.endFrame()
	return quit, toggleHUD
}

func cameraInputSystem(t *Time, input *Input, state *clientState, scene *Scene, cmd *Commands) {
	if scene.disposed {
		return
	}
	quit, toggleHUD := steerCamera(input, scene.Camera, t.RawDt)
	if toggleHUD {
		state.hud = !state.hud
	}
	if quit {
		cmd.Stop()
	}
}
