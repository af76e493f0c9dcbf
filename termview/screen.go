package termview

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/campfire/fire"
	"github.com/gekko3d/campfire/particles"
)

// Frame is what the preview needs from the scene after a tick.
type Frame struct {
	Layers []fire.LayerUniforms
	Embers []particles.Particle
	Status string
}

// Source advances the simulation and exposes its current state.
type Source interface {
	Tick()
	Frame() Frame
	Model() *fire.Model
}

// Run draws src on screen at fps until ctx is cancelled or the user presses
// Esc, q or Ctrl-C. It initializes and finalizes the screen itself.
func Run(ctx context.Context, screen tcell.Screen, src Source, fps int) error {
	if fps <= 0 {
		fps = 30
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				if quitKey(ev) {
					return nil
				}
			}
		case <-ticker.C:
			src.Tick()
			draw(screen, src.Model(), src.Frame())
		}
	}
}

func quitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

func draw(screen tcell.Screen, m *fire.Model, f Frame) {
	w, h := screen.Size()
	statusRows := 0
	if f.Status != "" && h > 2 {
		statusRows = 1
	}
	grid := Rasterize(w, h-statusRows, m, f.Layers, f.Embers)

	screen.Clear()
	for row, cells := range grid {
		for col, c := range cells {
			if c.Empty {
				continue
			}
			r, g, b := c.Color.RGB255()
			style := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
			screen.SetContent(col, row, c.Rune, nil, style)
		}
	}
	if statusRows > 0 {
		style := tcell.StyleDefault.Foreground(tcell.ColorGray)
		for i, r := range []rune(f.Status) {
			if i >= w {
				break
			}
			screen.SetContent(i, h-1, r, nil, style)
		}
	}
	screen.Show()
}
