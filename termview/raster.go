// Package termview draws the fire in a terminal using the CPU flame model.
package termview

import (
	"math"

	"github.com/gekko3d/campfire/fire"
	"github.com/gekko3d/campfire/particles"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// glyphs from faint to dense.
const glyphs = " .:-=+*#%@"

// Cell is one terminal character of the preview.
type Cell struct {
	Rune  rune
	Color colorful.Color
	Empty bool
}

var background = colorful.Color{R: 0.02, G: 0.02, B: 0.04}

// cellAspect is the height of a terminal cell relative to its width.
const cellAspect = 2.0

// viewport maps cells to flame-local coordinates: the flame base sits on
// the bottom row and the view spans one and a half flame heights.
type viewport struct {
	w, h       int
	spanY      float64
	spanX      float64
	baseMargin float64
}

func newViewport(w, h int, flameHeight float64) viewport {
	spanY := flameHeight * 1.5
	return viewport{
		w:          w,
		h:          h,
		spanY:      spanY,
		spanX:      spanY * float64(w) / (float64(h) * cellAspect),
		baseMargin: spanY * 0.04,
	}
}

func (v viewport) world(col, row int) (x, y float64) {
	x = ((float64(col)+0.5)/float64(v.w) - 0.5) * v.spanX
	y = (1-(float64(row)+0.5)/float64(v.h))*v.spanY - v.baseMargin
	return x, y
}

func (v viewport) cell(p mgl32.Vec3) (col, row int, ok bool) {
	fx := float64(p[0])/v.spanX + 0.5
	fy := 1 - (float64(p[1])+v.baseMargin)/v.spanY
	col = int(math.Floor(fx * float64(v.w)))
	row = int(math.Floor(fy * float64(v.h)))
	return col, row, col >= 0 && col < v.w && row >= 0 && row < v.h
}

// Rasterize shades a w by h grid from the flame layers, composited
// additively, then overlays embers. It has no side effects.
func Rasterize(w, h int, m *fire.Model, layers []fire.LayerUniforms, embers []particles.Particle) [][]Cell {
	if w <= 0 || h <= 0 {
		return nil
	}
	grid := make([][]Cell, h)
	for row := range grid {
		grid[row] = make([]Cell, w)
		for col := range grid[row] {
			grid[row][col] = Cell{Rune: ' ', Color: background, Empty: true}
		}
	}

	var flameHeight float64
	for _, u := range layers {
		flameHeight = math.Max(flameHeight, float64(u.Height*u.Scale[1]))
	}
	if flameHeight <= 0 {
		flameHeight = 1
	}
	vp := newViewport(w, h, flameHeight)

	if m != nil {
		for row := 0; row < h; row++ {
			for col := 0; col < w; col++ {
				x, y := vp.world(col, row)
				if c, ok := shade(m, layers, x, y); ok {
					grid[row][col] = c
				}
			}
		}
	}

	for _, p := range embers {
		col, row, ok := vp.cell(p.Position)
		if !ok {
			continue
		}
		r := '.'
		if p.Life > 0.5 {
			r = '*'
		}
		rgb := fire.DefaultRamp.Color(0.45 + 0.55*p.Life)
		hot := colorful.Color{R: float64(rgb[0]), G: float64(rgb[1]), B: float64(rgb[2])}
		grid[row][col] = Cell{Rune: r, Color: background.BlendRgb(hot, 0.4+0.6*float64(p.Life)).Clamped()}
	}
	return grid
}

func shade(m *fire.Model, layers []fire.LayerUniforms, x, y float64) (Cell, bool) {
	var r, g, b, a float64
	for _, u := range layers {
		if u.Scale[0] <= 0 || u.Scale[1] <= 0 {
			continue
		}
		local := mgl32.Vec3{float32(x) / u.Scale[0], float32(y) / u.Scale[1], 0}
		f := m.Fragment(local, u)
		if f.Discard {
			continue
		}
		fa := float64(f.Alpha)
		r += float64(f.Color[0]) * fa
		g += float64(f.Color[1]) * fa
		b += float64(f.Color[2]) * fa
		a += fa
	}
	if a <= 0 {
		return Cell{}, false
	}
	a = math.Min(a, 1)
	hot := colorful.Color{R: r, G: g, B: b}.Clamped()
	idx := 1 + int(a*float64(len(glyphs)-2)+0.5)
	if idx >= len(glyphs) {
		idx = len(glyphs) - 1
	}
	return Cell{
		Rune:  rune(glyphs[idx]),
		Color: background.BlendRgb(hot, math.Sqrt(a)).Clamped(),
	}, true
}
