package termview

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/campfire/fire"
	"github.com/gekko3d/campfire/particles"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLayers(t *testing.T) (*fire.Model, []fire.LayerUniforms, *fire.State) {
	t.Helper()
	s, err := fire.NewState(fire.DefaultConfig())
	require.NoError(t, err)
	s.Update(0.5)
	layers := make([]fire.LayerUniforms, s.LayerCount())
	for i := range layers {
		layers[i] = s.Uniforms(i)
	}
	return fire.NewModel(s.Config().Seed), layers, s
}

func TestRasterize_AboveFlameIsEmpty(t *testing.T) {
	m, layers, _ := testLayers(t)
	const w, h = 60, 30
	grid := Rasterize(w, h, m, layers, nil)
	require.Len(t, grid, h)

	// The view spans 1.5 flame heights, so the top quarter is above the tip.
	for row := 0; row < h/4; row++ {
		for col := 0; col < w; col++ {
			assert.True(t, grid[row][col].Empty, "row %d col %d", row, col)
		}
	}

	lit := 0
	for row := h / 2; row < h; row++ {
		for col := 0; col < w; col++ {
			if !grid[row][col].Empty {
				lit++
			}
		}
	}
	assert.Greater(t, lit, 0, "the lower half shows flame")
}

func TestRasterize_ZeroIntensityIsDark(t *testing.T) {
	m, layers, _ := testLayers(t)
	for i := range layers {
		layers[i].Intensity = 0
	}
	for _, row := range Rasterize(40, 20, m, layers, nil) {
		for _, c := range row {
			assert.True(t, c.Empty)
		}
	}
}

func TestRasterize_Embers(t *testing.T) {
	_, layers, _ := testLayers(t)
	embers := []particles.Particle{
		{Position: mgl32.Vec3{0, 2.2, 0}, Life: 0.9},
		{Position: mgl32.Vec3{100, 2.2, 0}, Life: 0.9},
		{Position: mgl32.Vec3{0, particles.SentinelY, 0}, Life: 0},
	}
	grid := Rasterize(40, 20, nil, layers, embers)

	drawn := 0
	for _, row := range grid {
		for _, c := range row {
			if !c.Empty {
				drawn++
				assert.Equal(t, '*', c.Rune)
			}
		}
	}
	assert.Equal(t, 1, drawn, "off-screen and parked embers are skipped")
}

func TestRasterize_Degenerate(t *testing.T) {
	assert.Nil(t, Rasterize(0, 10, nil, nil, nil))
	grid := Rasterize(3, 2, nil, nil, nil)
	assert.Len(t, grid, 2)
	assert.Len(t, grid[0], 3)
}

type fakeSource struct {
	model  *fire.Model
	layers []fire.LayerUniforms
	ticks  int
}

func (f *fakeSource) Tick()              { f.ticks++ }
func (f *fakeSource) Model() *fire.Model { return f.model }
func (f *fakeSource) Frame() Frame {
	return Frame{Layers: f.layers, Status: "embers 0"}
}

func TestRun_StopsOnContext(t *testing.T) {
	m, layers, _ := testLayers(t)
	src := &fakeSource{model: m, layers: layers}
	screen := tcell.NewSimulationScreen("UTF-8")

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	require.NoError(t, Run(ctx, screen, src, 60))
	assert.Greater(t, src.ticks, 0)
}
