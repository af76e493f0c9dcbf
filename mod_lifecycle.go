package campfire

// LifecycleModule stops the app once it has run for Frames ticks or
// Seconds of clamped scene time, whichever comes first. Zero disables a
// limit.
type LifecycleModule struct {
	Frames  uint64
	Seconds float64
}

type lifetime struct {
	frames  uint64
	seconds float64
}

func (mod LifecycleModule) Install(app *App, cmd *Commands) {
	if mod.Frames == 0 && mod.Seconds <= 0 {
		return
	}
	cmd.AddResources(&lifetime{frames: mod.Frames, seconds: mod.Seconds})
	app.UseSystem(System(lifetimeSystem).InStage(Finale))
}

func lifetimeSystem(t *Time, lt *lifetime, cmd *Commands) {
	if (lt.frames > 0 && t.Frame >= lt.frames) || (lt.seconds > 0 && t.Elapsed >= lt.seconds) {
		cmd.Logger().Debugf("lifetime reached after %d frames, %.2fs", t.Frame, t.Elapsed)
		cmd.Stop()
	}
}
