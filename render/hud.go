package render

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	atlasSize      = 512
	textVertexSize = 32
	hudMargin      = 10
)

type TextVertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color [4]float32
}

type TextItem struct {
	Text     string
	Position [2]float32 // pixels from the top-left corner
	Scale    float32
	Color    [4]float32
}

type GlyphInfo struct {
	UVMin [2]float32
	UVMax [2]float32
	Size  [2]float32
	Off   [2]float32
	Adv   float32
}

// HUD is the glyph atlas of the overlay text, rasterized once from the
// embedded Go Mono font.
type HUD struct {
	Atlas  *image.Alpha
	Glyphs map[rune]GlyphInfo
	Face   font.Face
}

func NewHUD(size float64) (*HUD, error) {
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}

	atlas := image.NewAlpha(image.Rect(0, 0, atlasSize, atlasSize))
	glyphs := make(map[rune]GlyphInfo)

	x, y := 2, 2
	rowHeight := 0

	for r := rune(32); r < 127; r++ {
		bounds, mask, maskp, adv, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}

		w := bounds.Dx()
		h := bounds.Dy()

		if x+w >= atlasSize {
			x = 2
			y += rowHeight + 4
			rowHeight = 0
		}
		if y+h >= atlasSize {
			break
		}

		draw.Draw(atlas, image.Rect(x, y, x+w, y+h), mask, maskp, draw.Src)

		glyphs[r] = GlyphInfo{
			UVMin: [2]float32{float32(x) / atlasSize, float32(y) / atlasSize},
			UVMax: [2]float32{float32(x+w) / atlasSize, float32(y+h) / atlasSize},
			Size:  [2]float32{float32(w), float32(h)},
			Off:   [2]float32{float32(bounds.Min.X), float32(bounds.Min.Y)},
			Adv:   float32(adv) / 64.0,
		}

		x += w + 4
		if h > rowHeight {
			rowHeight = h
		}
	}

	return &HUD{Atlas: atlas, Glyphs: glyphs, Face: face}, nil
}

// Layout stacks lines in the top-left corner.
func (h *HUD) Layout(lines []string, scale float32, color [4]float32) []TextItem {
	items := make([]TextItem, 0, len(lines))
	y := float32(hudMargin)
	step := h.LineHeight(scale)
	for _, line := range lines {
		items = append(items, TextItem{
			Text:     line,
			Position: [2]float32{hudMargin, y},
			Scale:    scale,
			Color:    color,
		})
		y += step
	}
	return items
}

// BuildVertices emits six vertices per visible glyph in clip space.
func (h *HUD) BuildVertices(items []TextItem, screenW, screenH int) []TextVertex {
	if screenW <= 0 || screenH <= 0 {
		return nil
	}
	vertices := make([]TextVertex, 0, len(items)*6)

	sw := float32(screenW)
	sh := float32(screenH)
	metrics := h.Face.Metrics()
	ascent := float32(metrics.Ascent.Ceil())
	lineHeight := float32(metrics.Height.Ceil())

	for _, item := range items {
		startX := item.Position[0]
		posX := startX
		posY := item.Position[1] + ascent*item.Scale

		for _, r := range item.Text {
			if r == '\n' {
				posX = startX
				posY += lineHeight * item.Scale
				continue
			}

			g, ok := h.Glyphs[r]
			if !ok {
				continue
			}
			if g.Size[0] == 0 || g.Size[1] == 0 {
				posX += g.Adv * item.Scale
				continue
			}

			x0 := (posX+g.Off[0]*item.Scale)/sw*2.0 - 1.0
			y0 := 1.0 - (posY+g.Off[1]*item.Scale)/sh*2.0
			x1 := (posX+(g.Off[0]+g.Size[0])*item.Scale)/sw*2.0 - 1.0
			y1 := 1.0 - (posY+(g.Off[1]+g.Size[1])*item.Scale)/sh*2.0

			vertices = append(vertices,
				TextVertex{Pos: [2]float32{x0, y0}, UV: [2]float32{g.UVMin[0], g.UVMin[1]}, Color: item.Color},
				TextVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.UVMax[0], g.UVMin[1]}, Color: item.Color},
				TextVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.UVMin[0], g.UVMax[1]}, Color: item.Color},

				TextVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.UVMax[0], g.UVMin[1]}, Color: item.Color},
				TextVertex{Pos: [2]float32{x1, y1}, UV: [2]float32{g.UVMax[0], g.UVMax[1]}, Color: item.Color},
				TextVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.UVMin[0], g.UVMax[1]}, Color: item.Color},
			)

			posX += g.Adv * item.Scale
		}
	}

	return vertices
}

func (h *HUD) MeasureText(text string, scale float32) (float32, float32) {
	if h == nil {
		return 0, 0
	}
	lineHeight := h.LineHeight(scale)

	maxW := float32(0)
	currentW := float32(0)
	lines := 1

	for _, r := range text {
		if r == '\n' {
			maxW = max(maxW, currentW)
			currentW = 0
			lines++
			continue
		}
		if g, ok := h.Glyphs[r]; ok {
			currentW += g.Adv * scale
		}
	}

	return max(maxW, currentW), lineHeight * float32(lines)
}

func (h *HUD) LineHeight(scale float32) float32 {
	if h == nil {
		return 0
	}
	return float32(h.Face.Metrics().Height.Ceil()) * scale
}

func textVertexBytes(vs []TextVertex) []byte {
	out := make([]byte, 0, len(vs)*textVertexSize)
	put := func(v float32) {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	for _, v := range vs {
		put(v.Pos[0])
		put(v.Pos[1])
		put(v.UV[0])
		put(v.UV[1])
		for _, c := range v.Color {
			put(c)
		}
	}
	return out
}
