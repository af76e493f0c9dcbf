package campfire

type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

// OnDispose registers fn to run when the app is disposed.
func (cmd *Commands) OnDispose(name string, class DisposeClass, fn func()) *Commands {
	cmd.app.onDispose(name, class, fn)
	return cmd
}

// Stop ends Run after the current tick.
func (cmd *Commands) Stop() {
	cmd.app.Stop()
}

// Fail stops the app and makes Run return err. Only the first failure is
// kept.
func (cmd *Commands) Fail(err error) {
	first := cmd.app.err == nil
	if first {
		cmd.app.err = err
	}
	cmd.app.logFailure(err, first)
	cmd.app.Stop()
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
