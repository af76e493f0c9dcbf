package campfire

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

func TestApp_addResources(t *testing.T) {
	app := newApp()

	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)
	got, ok := Resource[MockResource2](app)
	require.True(t, ok)
	assert.Same(t, resource2, got)

	assert.Panics(t, func() { app.addResources(MockResource1{}) }, "resources must be pointers")
}

func TestApp_TickRunsStagesInOrder(t *testing.T) {
	app := newApp()
	var order []string
	rec := func(name string) func() {
		return func() { order = append(order, name) }
	}
	app.UseSystem(System(rec("render")).InStage(Render))
	app.UseSystem(System(rec("update")))
	app.UseSystem(System(rec("prelude")).InStage(Prelude))
	app.UseSystem(System(rec("finale")).InStage(Finale))
	app.UseSystem(System(rec("update2")).InStage(Update))

	app.Tick()
	assert.Equal(t, []string{"prelude", "update", "update2", "render", "finale"}, order)
	assert.Equal(t, uint64(1), app.Frames())
}

func TestApp_SystemsReceiveResources(t *testing.T) {
	app := newApp()
	res := NewMockResource1("a")
	app.addResources(res)

	var seen *MockResource1
	var gotCmd bool
	app.UseSystem(System(func(r *MockResource1, cmd *Commands) {
		seen = r
		gotCmd = cmd != nil
	}))
	app.Tick()
	assert.Same(t, res, seen)
	assert.True(t, gotCmd)
}

func TestApp_UnresolvedDependencyPanics(t *testing.T) {
	app := newApp()
	var buf bytes.Buffer
	app.addResources(newLogger("", false, &buf, &buf))
	app.UseSystem(System(func(r *MockResource2) {}))

	assert.Panics(t, app.Tick)
	assert.Contains(t, buf.String(), "Unable to resolve System dependency")
	assert.Contains(t, buf.String(), "MockResource2")
}

func TestApp_UseSystemRejectsNonFunctions(t *testing.T) {
	app := newApp()
	assert.Panics(t, func() { app.UseSystem(System(42)) })
	assert.Panics(t, func() { app.UseSystem(System(func() {}).InStage(Stage{Name: "Nope"})) })
}

func TestApp_UseStage(t *testing.T) {
	app := newApp()
	extra := Stage{Name: "Simulate"}
	app.UseStage(extra, AfterStage(Update))
	assert.Equal(t, []string{"Prelude", "PreUpdate", "Update", "Simulate", "PostUpdate", "PreRender", "Render", "PostRender", "Finale"}, app.Stages())

	assert.Panics(t, func() { app.UseStage(extra, BeforeStage(Render)) })
	assert.Panics(t, func() { app.UseStage(Stage{Name: "X"}, BeforeStage(Stage{Name: "Missing"})) })
}

func TestApp_RunUntilStop(t *testing.T) {
	app := newApp()
	app.UseSystem(System(func(cmd *Commands) {
		if cmd.app.Frames() == 4 {
			cmd.Stop()
		}
	}))
	require.NoError(t, app.Run())
	assert.Equal(t, uint64(5), app.Frames())
	assert.True(t, app.Stopped())

	// Stop is idempotent.
	assert.NotPanics(t, app.Stop)
}

func TestApp_DisposeOrder(t *testing.T) {
	app := newApp()
	cmd := app.Commands()
	var order []string
	push := func(name string) func() { return func() { order = append(order, name) } }

	cmd.OnDispose("window", DisposeRenderer, push("window"))
	cmd.OnDispose("campfire geometry", DisposeScene, push("campfire geometry"))
	cmd.OnDispose("renderer", DisposeRenderer, push("renderer"))
	cmd.OnDispose("embers", DisposeScene, push("embers"))
	cmd.OnDispose("broken", DisposeScene, func() { panic("boom") })

	app.Dispose()
	assert.Equal(t, []string{"embers", "campfire geometry", "renderer", "window"}, order)
	assert.True(t, app.Disposed())
	assert.True(t, app.Stopped())

	app.Dispose()
	assert.Len(t, order, 4, "second Dispose is a no-op")

	app.Tick()
	assert.Zero(t, app.Frames(), "a disposed app does not tick")
	assert.Panics(t, func() { cmd.OnDispose("late", DisposeScene, func() {}) })
}

func TestApp_LoggerFallback(t *testing.T) {
	var nilApp *App
	assert.NotNil(t, nilApp.Logger())

	app := newApp()
	assert.IsType(t, &nopLogger{}, app.Logger())

	var out, errOut bytes.Buffer
	app.addResources(newLogger("test", false, &out, &errOut))
	l := app.Logger()
	l.Debugf("hidden")
	l.Infof("hello %d", 1)
	l.Errorf("bad")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[test] INFO: hello 1")
	assert.True(t, strings.Contains(errOut.String(), "[test] ERROR: bad"))

	l.SetDebug(true)
	l.Debugf("shown")
	assert.Contains(t, out.String(), "DEBUG: shown")
}

func TestEnsureSingleRenderer(t *testing.T) {
	app := newApp()
	ensureSingleRenderer(app, "terminal")
	tag, ok := Resource[RendererTag](app)
	require.True(t, ok)
	assert.Equal(t, "terminal", tag.Name)

	assert.PanicsWithValue(t, "Multiple renderers installed: terminal and window", func() {
		ensureSingleRenderer(app, "window")
	})
}

func TestApp_FailStopsRun(t *testing.T) {
	app := newApp()
	first := errors.New("device lost")
	app.UseSystem(System(func(cmd *Commands) {
		cmd.Fail(first)
		cmd.Fail(errors.New("second"))
	}).InStage(Render))

	err := app.Run()
	assert.ErrorIs(t, err, first)
	assert.Equal(t, uint64(1), app.Frames())
}

func TestApp_FailLogsWithFrame(t *testing.T) {
	app := newApp()
	var out, errOut bytes.Buffer
	app.addResources(newLogger("", true, &out, &errOut))
	app.UseSystem(System(func(cmd *Commands) {
		if cmd.app.Frames() == 2 {
			cmd.Fail(errors.New("surface lost"))
			cmd.Fail(errors.New("late"))
		}
	}).InStage(Render))

	require.Error(t, app.Run())
	assert.Contains(t, errOut.String(), "ERROR: frame 2: surface lost")
	assert.NotContains(t, errOut.String(), "late")
	assert.Contains(t, out.String(), "DEBUG: frame 2: ignoring later failure: late")
}
