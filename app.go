// Package campfire wires the procedural campfire scene into a frame loop:
// modules install resources and systems, and every tick runs the systems
// stage by stage.
package campfire

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"

	"github.com/gekko3d/campfire/telemetry"
)

type systemFn any

type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	disposers []disposer

	stopOnce sync.Once
	done     chan struct{}
	disposed bool
	frames   uint64
	driver   Driver
	err      error
}

// Driver takes over the loop in Run, e.g. a terminal front end that owns
// its own event loop and calls Tick itself.
type Driver interface {
	Drive(app *App) error
}

func newApp() *App {
	app := &App{
		stages:    []Stage{Prelude, PreUpdate, Update, PostUpdate, PreRender, Render, PostRender, Finale},
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
		done:      make(chan struct{}),
	}
	for _, s := range app.stages {
		app.systems[s.Name] = make([]systemFn, 0)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{app: app}
}

// Tick runs one frame through every stage in order.
func (app *App) Tick() {
	if app.disposed {
		return
	}
	prof, _ := Resource[telemetry.Profiler](app)
	for _, stage := range app.stages {
		if prof != nil {
			prof.BeginScope(stage.Name)
		}
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
		if prof != nil {
			prof.EndScope(stage.Name)
		}
	}
	app.frames++
}

// Frames counts completed ticks.
func (app *App) Frames() uint64 { return app.frames }

// Run ticks until Stop is called, or hands the loop to an installed Driver.
// It returns the error passed to Commands.Fail, if any.
func (app *App) Run() error {
	if app.driver != nil {
		if err := app.driver.Drive(app); err != nil {
			return err
		}
		return app.err
	}
	for !app.Stopped() {
		app.Tick()
	}
	return app.err
}

func (app *App) Stop() {
	app.stopOnce.Do(func() { close(app.done) })
}

// Done is closed once Stop has been called.
func (app *App) Done() <-chan struct{} { return app.done }

func (app *App) Stopped() bool {
	select {
	case <-app.done:
		return true
	default:
		return false
	}
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Ptr {
			panic(fmt.Sprintf("resource %s must be a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}
		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the installed resource of type *T.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())
	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Ptr {
			panic(app.unresolved(systemValue, systemType, argType))
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, ok := app.resources[underlyingType]; ok {
			args[i] = reflect.ValueOf(resource)
		} else {
			panic(app.unresolved(systemValue, systemType, argType))
		}
	}
	systemValue.Call(args)
}

func (app *App) unresolved(systemValue reflect.Value, systemType, argType reflect.Type) string {
	msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		runtime.FuncForPC(systemValue.Pointer()).Name(),
		fmt.Sprint(systemType),
		fmt.Sprint(argType),
	)
	app.Logger().Errorf("%s", msg)
	return msg
}
