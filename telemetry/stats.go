// Package telemetry aggregates frame timings into per-interval rows and
// writes them as CSV.
package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FrameStats is one aggregated interval.
type FrameStats struct {
	Elapsed        float64 `csv:"elapsed_s"`
	Frames         int     `csv:"frames"`
	FPS            float64 `csv:"fps"`
	FrameMeanMS    float64 `csv:"frame_mean_ms"`
	FrameStdMS     float64 `csv:"frame_std_ms"`
	FrameP95MS     float64 `csv:"frame_p95_ms"`
	Embers         int     `csv:"embers"`
	Smoke          int     `csv:"smoke"`
	DroppedSpawns  uint64  `csv:"dropped_spawns"`
	LightIntensity float64 `csv:"light_intensity"`
	FireIntensity  float64 `csv:"fire_intensity"`
}

// Sample is the scene state observed at the end of a frame.
type Sample struct {
	Embers         int
	Smoke          int
	DroppedSpawns  uint64
	LightIntensity float64
	FireIntensity  float64
}

// Window collects frame durations until an interval of frame time has
// passed, then emits a FrameStats row.
type Window struct {
	interval float64
	elapsed  float64
	span     float64
	frames   []float64
}

func NewWindow(interval float64) *Window {
	if interval <= 0 {
		interval = 1
	}
	return &Window{interval: interval, frames: make([]float64, 0, 128)}
}

// Observe records one frame of length dt seconds. It returns a row and
// true when the interval closes; the row carries the latest sample.
func (w *Window) Observe(dt float64, s Sample) (FrameStats, bool) {
	if dt < 0 {
		dt = 0
	}
	w.elapsed += dt
	w.span += dt
	w.frames = append(w.frames, dt*1000)
	if w.span < w.interval {
		return FrameStats{}, false
	}

	row := summarize(w.frames, w.span)
	row.Elapsed = w.elapsed
	row.Embers = s.Embers
	row.Smoke = s.Smoke
	row.DroppedSpawns = s.DroppedSpawns
	row.LightIntensity = s.LightIntensity
	row.FireIntensity = s.FireIntensity

	w.span = 0
	w.frames = w.frames[:0]
	return row, true
}

func summarize(frameMS []float64, span float64) FrameStats {
	row := FrameStats{Frames: len(frameMS)}
	if len(frameMS) == 0 {
		return row
	}
	if span > 0 {
		row.FPS = float64(len(frameMS)) / span
	}
	if len(frameMS) > 1 {
		row.FrameMeanMS, row.FrameStdMS = stat.MeanStdDev(frameMS, nil)
	} else {
		row.FrameMeanMS = frameMS[0]
	}
	sorted := append([]float64(nil), frameMS...)
	sort.Float64s(sorted)
	row.FrameP95MS = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	return row
}
