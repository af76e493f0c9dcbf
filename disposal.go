package campfire

import (
	"fmt"
)

// DisposeClass orders teardown: scene resources go first, in reverse
// registration order, and renderer resources last.
type DisposeClass int

const (
	DisposeScene DisposeClass = iota
	DisposeRenderer
)

type disposer struct {
	name  string
	class DisposeClass
	fn    func()
}

func (app *App) onDispose(name string, class DisposeClass, fn func()) {
	if app.disposed {
		panic(fmt.Sprintf("registering disposer %q on a disposed app", name))
	}
	app.disposers = append(app.disposers, disposer{name: name, class: class, fn: fn})
}

// Dispose stops the loop and releases everything registered through
// OnDispose. A panicking disposer is logged and does not stop the others.
// Calling Dispose again does nothing.
func (app *App) Dispose() {
	if app.disposed {
		return
	}
	app.Stop()
	app.disposed = true

	for _, class := range []DisposeClass{DisposeScene, DisposeRenderer} {
		for i := len(app.disposers) - 1; i >= 0; i-- {
			d := app.disposers[i]
			if d.class != class {
				continue
			}
			app.runDisposer(d)
		}
	}
	app.disposers = nil
}

func (app *App) runDisposer(d disposer) {
	defer func() {
		if r := recover(); r != nil {
			app.Logger().Errorf("disposing %s: %v", d.name, r)
		}
	}()
	app.Logger().Debugf("disposing %s", d.name)
	d.fn()
}

func (app *App) Disposed() bool { return app.disposed }
