package campfire

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalModule_RunsUntilStopped(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	app := newTestApp(t, nil, TerminalModule{FPS: 120, Screen: screen}, LifecycleModule{Frames: 10})

	require.NoError(t, app.Run())
	assert.GreaterOrEqual(t, app.Frames(), uint64(10))

	scene, _ := Resource[Scene](app)
	f := scene.TerminalFrame()
	assert.Len(t, f.Layers, scene.Fire.LayerCount())
	assert.NotEmpty(t, f.Status)
}

func TestTerminalModule_RequiresScene(t *testing.T) {
	builder := NewAppBuilder().UseModule(TerminalModule{FPS: 30})
	assert.Panics(t, func() { builder.Build() })
}

func TestTerminalModule_SingleFrontEnd(t *testing.T) {
	builder := NewAppBuilder().UseModule(
		SceneModule{},
		TerminalModule{FPS: 30},
		TerminalModule{FPS: 30},
	)
	assert.PanicsWithValue(t, "Multiple renderers installed: terminal and terminal", func() { builder.Build() })
}
