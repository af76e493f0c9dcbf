package campfire

import (
	"fmt"
	"runtime"

	"github.com/gekko3d/campfire/config"
	"github.com/gekko3d/campfire/render"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// ClientModule opens a GLFW window and draws the scene with WebGPU. It
// must be installed after SceneModule, from the main goroutine.
type ClientModule struct {
	Window config.WindowConfig
	Render config.RenderConfig
}

type clientState struct {
	app      *App
	window   *glfw.Window
	renderer *render.Renderer
	hud      bool
}

func (mod ClientModule) Install(app *App, cmd *Commands) {
	ensureSingleRenderer(app, "window")
	scene, ok := Resource[Scene](app)
	if !ok {
		panic("ClientModule requires SceneModule to be installed first")
	}

	// GLFW and the surface must stay on the thread that created them.
	runtime.LockOSThread()

	// https://github.com/go-gl/glfw
	if err := glfw.Init(); err != nil {
		panic(fmt.Errorf("campfire: initializing glfw: %w", err))
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(mod.Window.Width, mod.Window.Height, mod.Window.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		panic(fmt.Errorf("campfire: creating window: %w", err))
	}

	renderer, err := render.New(win, mod.Render, mod.Window.VSync)
	if err != nil {
		win.Destroy()
		glfw.Terminate()
		panic(fmt.Errorf("campfire: creating renderer: %w", err))
	}

	state := &clientState{app: app, window: win, renderer: renderer, hud: mod.Render.HUD}
	input := &Input{}
	cmd.AddResources(state, input)

	// Renderer resources go before the window they draw into.
	cmd.OnDispose("window", DisposeRenderer, func() {
		win.Destroy()
		glfw.Terminate()
	})
	cmd.OnDispose("renderer", DisposeRenderer, renderer.Dispose)

	win.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		if err := renderer.Resize(width, height); err != nil {
			app.Logger().Warnf("resizing renderer: %v", err)
		}
		scene.Camera.Resize(width, height)
	})
	win.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		input.ScrollY += yoff
	})
	fbw, fbh := win.GetFramebufferSize()
	scene.Camera.Resize(fbw, fbh)

	app.UseSystem(System(inputSystem).InStage(PreUpdate))
	app.UseSystem(System(cameraInputSystem).InStage(PreUpdate))
	app.UseSystem(System(renderSystem).InStage(Render))

	app.Logger().Infof("window %dx%d, post processing %v", fbw, fbh, mod.Render.Post.Enabled)
}

func renderSystem(t *Time, state *clientState, scene *Scene, cmd *Commands) {
	if scene.disposed || state.renderer.Disposed() {
		return
	}
	var hud []string
	if state.hud {
		hud = state.hudLines(scene)
	}
	if err := state.renderer.Render(scene.RenderFrame(t.Elapsed, hud)); err != nil {
		cmd.Fail(fmt.Errorf("rendering: %w", err))
	}
}

func (s *clientState) hudLines(scene *Scene) []string {
	lines := []string{scene.Status()}
	if stats, ok := s.app.LastFrameStats(); ok {
		lines = append(lines, fmt.Sprintf("fps %.0f  frame %.2f ms", stats.FPS, stats.FrameMeanMS))
	}
	return append(lines, "drag orbit  scroll zoom  R reset  H hud  Esc quit")
}

// GLFWClock reads the GLFW timer. It is only valid once ClientModule has
// initialized GLFW.
type GLFWClock struct{}

func (GLFWClock) Now() float64 { return glfw.GetTime() }
