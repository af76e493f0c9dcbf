package campfire

import (
	"fmt"

	"github.com/gekko3d/campfire/config"
)

// SceneModule builds the Scene and schedules its per-frame updates.
type SceneModule struct {
	Config *config.Config
}

func (mod SceneModule) Install(app *App, cmd *Commands) {
	cfg := mod.Config
	if cfg == nil {
		cfg = config.Default()
	}
	scene, err := NewScene(cfg)
	if err != nil {
		panic(fmt.Errorf("campfire: building scene: %w", err))
	}
	cmd.AddResources(scene)

	// Each part is disposed by the app in reverse order of registration.
	for _, part := range scene.parts {
		cmd.OnDispose(part.name, DisposeScene, part.dispose)
	}
	cmd.OnDispose("scene", DisposeScene, func() { scene.disposed = true })

	app.UseSystem(System(cameraSystem).InStage(Update))
	app.UseSystem(System(lightSystem).InStage(Update))
	app.UseSystem(System(fireSystem).InStage(Update))
	app.UseSystem(System(particleSystem).InStage(Update))
	app.UseSystem(System(skySystem).InStage(Update))

	app.Logger().Infof("scene ready: %d meshes, %d ember slots, %d smoke slots, %d stars",
		scene.Campfire.NodeCount(), scene.Embers.Capacity(), scene.Smoke.Capacity(), scene.Sky.Count())
}

func cameraSystem(t *Time, s *Scene) {
	if s.disposed {
		return
	}
	s.Camera.Update(t.Dt)
}

func lightSystem(t *Time, s *Scene) {
	if s.disposed {
		return
	}
	s.updateLight(t.Dt)
}

func fireSystem(t *Time, s *Scene) {
	if s.disposed {
		return
	}
	s.Fire.Update(t.Dt)
}

func particleSystem(t *Time, s *Scene) {
	if s.disposed {
		return
	}
	s.Embers.Update(t.Dt)
	s.Smoke.Update(t.Dt)
}

func skySystem(t *Time, s *Scene) {
	if s.disposed {
		return
	}
	s.Sky.Update(t.Dt)
}
