package telemetry

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow_EmitsPerInterval(t *testing.T) {
	w := NewWindow(1)
	s := Sample{Embers: 420, Smoke: 75, DroppedSpawns: 3, LightIntensity: 2.4, FireIntensity: 1}

	var rows []FrameStats
	for i := 0; i < 150; i++ {
		// Alternate 15ms and 18.33ms frames.
		dt := 0.015
		if i%2 == 1 {
			dt = 0.055 / 3
		}
		if row, ok := w.Observe(dt, s); ok {
			rows = append(rows, row)
		}
	}
	require.Len(t, rows, 2)

	r := rows[0]
	assert.InDelta(t, 60, r.FPS, 2)
	assert.InDelta(t, (15+55.0/3)/2, r.FrameMeanMS, 0.05)
	assert.Greater(t, r.FrameStdMS, 1.0)
	assert.InDelta(t, 55.0/3, r.FrameP95MS, 1e-6)
	assert.Equal(t, 420, r.Embers)
	assert.Equal(t, uint64(3), r.DroppedSpawns)
	assert.Greater(t, rows[1].Elapsed, rows[0].Elapsed)
}

func TestWindow_SingleLongFrame(t *testing.T) {
	w := NewWindow(0.5)
	row, ok := w.Observe(2, Sample{})
	require.True(t, ok)
	assert.Equal(t, 1, row.Frames)
	assert.InDelta(t, 2000, row.FrameMeanMS, 1e-9)
	assert.Zero(t, row.FrameStdMS)
	assert.InDelta(t, 0.5, row.FPS, 1e-9)
}

func TestRecorder_HeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(&buf)
	require.NoError(t, r.Write(FrameStats{Elapsed: 1, Frames: 60, FPS: 60, Embers: 10}))
	require.NoError(t, r.Write(FrameStats{Elapsed: 2, Frames: 59, FPS: 59, Embers: 12}))
	assert.Equal(t, 2, r.Rows())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "elapsed_s,frames,fps"))
	assert.Equal(t, 1, strings.Count(buf.String(), "elapsed_s"))

	var back []FrameStats
	require.NoError(t, gocsv.UnmarshalString(buf.String(), &back))
	require.Len(t, back, 2)
	assert.Equal(t, 12, back[1].Embers)
}

func TestRecorder_FileAndNil(t *testing.T) {
	var nilRec *Recorder
	assert.NoError(t, nilRec.Write(FrameStats{}))
	assert.NoError(t, nilRec.Close())

	none, err := CreateRecorder("")
	require.NoError(t, err)
	assert.Nil(t, none)

	path := filepath.Join(t.TempDir(), "out", "frames.csv")
	r, err := CreateRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.Write(FrameStats{Frames: 1}))
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "frame_p95_ms")
}

func TestProfiler(t *testing.T) {
	p := NewProfiler()
	clock := time.Unix(0, 0)
	p.now = func() time.Time { return clock }

	p.BeginScope("update")
	clock = clock.Add(3 * time.Millisecond)
	p.EndScope("update")
	p.BeginScope("render")
	clock = clock.Add(5 * time.Millisecond)
	p.EndScope("render")
	p.EndScope("never-begun")
	p.SetCount("embers", 42)

	assert.Equal(t, 3*time.Millisecond, p.Scope("update"))
	assert.Equal(t, 42, p.Count("embers"))

	s := p.String()
	assert.Less(t, strings.Index(s, "update"), strings.Index(s, "render"))
	assert.Contains(t, s, "5.00 ms")
	assert.NotContains(t, s, "never-begun")

	p.Reset()
	assert.Zero(t, p.Scope("render"))
}
