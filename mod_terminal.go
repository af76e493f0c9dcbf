package campfire

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/campfire/fire"
	"github.com/gekko3d/campfire/termview"
)

// TerminalModule draws the scene in the terminal. It takes over App.Run:
// the terminal loop ticks the app at FPS until the user quits or Stop is
// called.
type TerminalModule struct {
	FPS    int
	Screen tcell.Screen // nil opens the real terminal
}

func (mod TerminalModule) Install(app *App, cmd *Commands) {
	ensureSingleRenderer(app, "terminal")
	scene, ok := Resource[Scene](app)
	if !ok {
		panic("TerminalModule requires SceneModule to be installed first")
	}
	app.driver = &terminalDriver{fps: mod.FPS, screen: mod.Screen, scene: scene}
}

type terminalDriver struct {
	fps    int
	screen tcell.Screen
	scene  *Scene
}

func (d *terminalDriver) Drive(app *App) error {
	screen := d.screen
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return fmt.Errorf("opening terminal: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-app.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	err := termview.Run(ctx, screen, &terminalSource{app: app, scene: d.scene}, d.fps)
	app.Stop()
	return err
}

type terminalSource struct {
	app   *App
	scene *Scene
}

func (s *terminalSource) Tick() { s.app.Tick() }

func (s *terminalSource) Frame() termview.Frame { return s.scene.TerminalFrame() }

func (s *terminalSource) Model() *fire.Model { return s.scene.FireModel }
