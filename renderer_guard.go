package campfire

import (
	"fmt"
)

// RendererTag marks that a front end (window or terminal) has been
// installed. An app drives exactly one.
type RendererTag struct {
	Name string
}

func ensureSingleRenderer(app *App, name string) {
	if app == nil {
		panic("ensureSingleRenderer: app is nil")
	}
	if tag, ok := Resource[RendererTag](app); ok {
		app.Logger().Errorf("Multiple renderers installed: %s and %s", tag.Name, name)
		panic(fmt.Sprintf("Multiple renderers installed: %s and %s", tag.Name, name))
	}
	app.addResources(&RendererTag{Name: name})
}
