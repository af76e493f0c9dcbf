package campfire

type Module interface {
	Install(app *App, cmd *Commands)
}

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: newApp()}
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)
	return b
}

// Build installs the modules in order. A module that panics leaves the
// disposers registered so far to run before the panic propagates.
func (b *AppBuilder) Build() *App {
	app := b.app
	commands := &Commands{app: app}

	defer func() {
		if r := recover(); r != nil {
			app.Dispose()
			panic(r)
		}
	}()
	for _, module := range b.modules {
		module.Install(app, commands)
	}
	return app
}
