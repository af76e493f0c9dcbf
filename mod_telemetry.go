package campfire

import (
	"github.com/gekko3d/campfire/telemetry"
)

// TelemetryModule times each stage and, when Path is set, writes one CSV
// row of frame statistics per Interval.
type TelemetryModule struct {
	Path     string
	Interval float64
}

type telemetryState struct {
	window   *telemetry.Window
	recorder *telemetry.Recorder
	last     telemetry.FrameStats
	failed   bool
}

func (mod TelemetryModule) Install(app *App, cmd *Commands) {
	rec, err := telemetry.CreateRecorder(mod.Path)
	if err != nil {
		app.Logger().Warnf("telemetry disabled: %v", err)
	}
	state := &telemetryState{window: telemetry.NewWindow(mod.Interval), recorder: rec}
	cmd.AddResources(telemetry.NewProfiler(), state)
	cmd.OnDispose("telemetry", DisposeScene, func() {
		if err := state.recorder.Close(); err != nil {
			app.Logger().Warnf("closing telemetry: %v", err)
		}
	})
	app.UseSystem(System(telemetrySystem).InStage(Finale))
}

func telemetrySystem(t *Time, scene *Scene, prof *telemetry.Profiler, state *telemetryState, cmd *Commands) {
	sample := scene.Sample()
	prof.SetCount("embers", sample.Embers)
	prof.SetCount("smoke", sample.Smoke)

	row, ok := state.window.Observe(t.RawDt, sample)
	if !ok {
		return
	}
	state.last = row
	cmd.Logger().Debugf("fps %.1f  frame %.2f±%.2f ms  embers %d  smoke %d",
		row.FPS, row.FrameMeanMS, row.FrameStdMS, row.Embers, row.Smoke)
	if state.failed {
		return
	}
	if err := state.recorder.Write(row); err != nil {
		state.failed = true
		cmd.Logger().Errorf("writing telemetry: %v", err)
	}
}

// LastFrameStats returns the most recent completed interval.
func (app *App) LastFrameStats() (telemetry.FrameStats, bool) {
	state, ok := Resource[telemetryState](app)
	if !ok || state.last.Frames == 0 {
		return telemetry.FrameStats{}, false
	}
	return state.last, true
}
