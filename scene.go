package campfire

import (
	"fmt"

	"github.com/gekko3d/campfire/camera"
	"github.com/gekko3d/campfire/config"
	"github.com/gekko3d/campfire/fire"
	"github.com/gekko3d/campfire/geometry"
	"github.com/gekko3d/campfire/lighting"
	"github.com/gekko3d/campfire/particles"
	"github.com/gekko3d/campfire/render"
	"github.com/gekko3d/campfire/sky"
	"github.com/gekko3d/campfire/telemetry"
	"github.com/gekko3d/campfire/termview"
)

// Scene is the campfire context object. It owns every simulated component
// and is installed as a resource by SceneModule.
type Scene struct {
	Config *config.Config

	Campfire  *geometry.Group
	Embers    *particles.Embers
	Smoke     *particles.Smoke
	Fire      *fire.State
	FireModel *fire.Model
	FireLight *lighting.FireLight
	Moonlight *lighting.Moonlight
	Ambient   *lighting.Ambient
	Sky       *sky.Starfield
	Camera    *camera.Orbit

	perm     []uint32
	parts    []scenePart
	disposed bool
}

type scenePart struct {
	name    string
	dispose func()
}

// NewScene builds every component from cfg. When one fails, the parts
// already built are disposed before the error is returned.
func NewScene(cfg *config.Config) (_ *Scene, err error) {
	s := &Scene{Config: cfg}
	defer func() {
		if err != nil {
			s.Dispose()
		}
	}()
	sc := cfg.Scene

	if s.Campfire, err = geometry.CreateCampfire(sc.Campfire); err != nil {
		return nil, fmt.Errorf("building campfire geometry: %w", err)
	}
	s.track("campfire geometry", func() { geometry.DisposeGroup(s.Campfire) })

	embersCfg := sc.Embers
	embersCfg.MaxDelta = min(embersCfg.MaxDelta, cfg.Time.MaxDelta)
	if s.Embers, err = particles.NewEmbers(embersCfg); err != nil {
		return nil, fmt.Errorf("creating embers: %w", err)
	}
	s.track("embers", s.Embers.Dispose)

	smokeCfg := sc.Smoke
	smokeCfg.MaxDelta = min(smokeCfg.MaxDelta, cfg.Time.MaxDelta)
	if s.Smoke, err = particles.NewSmoke(smokeCfg); err != nil {
		return nil, fmt.Errorf("creating smoke: %w", err)
	}
	s.track("smoke", s.Smoke.Dispose)

	if s.Fire, err = fire.NewState(sc.Fire); err != nil {
		return nil, fmt.Errorf("creating fire: %w", err)
	}
	s.FireModel = fire.NewModel(sc.Fire.Seed)
	s.perm = s.FireModel.Noise().Permutation()
	s.track("fire", s.Fire.Dispose)

	if s.FireLight, err = lighting.NewFireLight(sc.FireLight); err != nil {
		return nil, fmt.Errorf("creating fire light: %w", err)
	}
	s.track("fire light", s.FireLight.Dispose)

	s.Moonlight = lighting.NewMoonlight(sc.Moonlight)
	s.track("moonlight", s.Moonlight.Dispose)
	s.Ambient = lighting.NewAmbient(sc.Ambient)
	s.track("ambient", s.Ambient.Dispose)

	if s.Sky, err = sky.NewStarfield(sc.Sky); err != nil {
		return nil, fmt.Errorf("creating starfield: %w", err)
	}
	s.track("starfield", s.Sky.Dispose)

	s.Camera = camera.NewOrbit(sc.Camera, cfg.Window.Width, cfg.Window.Height)
	return s, nil
}

func (s *Scene) track(name string, fn func()) {
	s.parts = append(s.parts, scenePart{name: name, dispose: fn})
}

// updateLight runs before fireSystem so the flame intensity follows the
// current flicker.
func (s *Scene) updateLight(dt float64) {
	s.FireLight.Update(dt)
	s.Fire.SetIntensity(s.Config.Scene.Fire.Intensity * (0.8 + 0.2*s.FireLight.Energy()))
}

// Layers returns the uniforms of every flame layer for the current frame.
func (s *Scene) Layers() []fire.LayerUniforms {
	out := make([]fire.LayerUniforms, s.Fire.LayerCount())
	for i := range out {
		out[i] = s.Fire.Uniforms(i)
	}
	return out
}

func (s *Scene) Sample() telemetry.Sample {
	return telemetry.Sample{
		Embers:         s.Embers.ActiveCount(),
		Smoke:          s.Smoke.ActiveCount(),
		DroppedSpawns:  s.Embers.Stats().Dropped + s.Smoke.Stats().Dropped,
		LightIntensity: s.FireLight.Intensity(),
		FireIntensity:  s.Fire.Intensity(),
	}
}

func (s *Scene) Status() string {
	return fmt.Sprintf("embers %d/%d  smoke %d/%d  light %.2f",
		s.Embers.ActiveCount(), s.Embers.Capacity(),
		s.Smoke.ActiveCount(), s.Smoke.Capacity(),
		s.FireLight.Intensity())
}

// TerminalFrame is the state the terminal preview draws.
func (s *Scene) TerminalFrame() termview.Frame {
	f := termview.Frame{Layers: s.Layers(), Status: s.Status()}
	s.Embers.ForEachActive(func(p particles.Particle) {
		f.Embers = append(f.Embers, p)
	})
	return f
}

// RenderFrame snapshots the scene for the GPU renderer.
func (s *Scene) RenderFrame(elapsed float64, hud []string) *render.Frame {
	return &render.Frame{
		Time:        elapsed,
		Camera:      s.Camera,
		FireLight:   s.FireLight,
		Moonlight:   s.Moonlight,
		Ambient:     s.Ambient,
		Sky:         s.Sky,
		Fire:        s.Fire,
		Campfire:    s.Campfire,
		Embers:      s.Embers.Buffers(),
		Smoke:       s.Smoke.Buffers(),
		Permutation: s.perm,
		HUD:         hud,
	}
}

// PartNames lists the disposable components in construction order.
func (s *Scene) PartNames() []string {
	names := make([]string, len(s.parts))
	for i, p := range s.parts {
		names[i] = p.name
	}
	return names
}

func (s *Scene) Disposed() bool { return s.disposed }

// Dispose releases the components in reverse construction order.
func (s *Scene) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	for i := len(s.parts) - 1; i >= 0; i-- {
		s.parts[i].dispose()
	}
}
