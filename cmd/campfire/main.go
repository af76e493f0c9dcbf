package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/gekko3d/campfire"
	"github.com/gekko3d/campfire/config"
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "Path to a YAML config overlay (empty = built-in defaults)")
	mode := flag.String("mode", "window", "Front end: window, term or headless")
	seed := flag.Int64("seed", 0, "Seed for every random source (0 = keep configured seeds, -1 = time-based)")
	telemetryPath := flag.String("telemetry", "", "Write per-second frame statistics to this CSV file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	frames := flag.Uint64("frames", 0, "Stop after N frames (0 = unlimited; headless defaults to 600)")
	dumpConfig := flag.String("dump-config", "", "Write the effective config to this path and exit")
	flag.Parse()

	if err := run(*configPath, *mode, *seed, *telemetryPath, *debug, *frames, *dumpConfig); err != nil {
		fmt.Fprintf(os.Stderr, "campfire: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, mode string, seed int64, telemetryPath string, debug bool, frames uint64, dumpConfig string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	switch {
	case seed == -1:
		cfg = cfg.WithSeed(time.Now().UnixNano())
	case seed != 0:
		cfg = cfg.WithSeed(seed)
	}
	if telemetryPath != "" {
		cfg.Telemetry.Path = telemetryPath
	}
	if debug {
		cfg.Log.Debug = true
	}
	if dumpConfig != "" {
		return cfg.WriteYAML(dumpConfig)
	}

	modules := []campfire.Module{
		campfire.LoggingModule{Prefix: cfg.Log.Prefix, Debug: cfg.Log.Debug},
	}
	switch mode {
	case "window":
		modules = append(modules,
			campfire.TimeModule{Clock: campfire.GLFWClock{}, MaxDelta: cfg.Time.MaxDelta},
			campfire.SceneModule{Config: cfg},
			campfire.TelemetryModule{Path: cfg.Telemetry.Path, Interval: cfg.Telemetry.Interval},
			campfire.ClientModule{Window: cfg.Window, Render: cfg.Render},
		)
	case "term":
		modules = append(modules,
			campfire.TimeModule{MaxDelta: cfg.Time.MaxDelta},
			campfire.SceneModule{Config: cfg},
			campfire.TelemetryModule{Path: cfg.Telemetry.Path, Interval: cfg.Telemetry.Interval},
			campfire.TerminalModule{FPS: cfg.Terminal.FPS},
		)
	case "headless":
		if frames == 0 {
			frames = 600
		}
		modules = append(modules,
			campfire.TimeModule{Clock: &campfire.FixedStepClock{Step: 1.0 / 60}, MaxDelta: cfg.Time.MaxDelta},
			campfire.SceneModule{Config: cfg},
			campfire.TelemetryModule{Path: cfg.Telemetry.Path, Interval: cfg.Telemetry.Interval},
		)
	default:
		return fmt.Errorf("unknown mode %q (want window, term or headless)", mode)
	}
	modules = append(modules, campfire.LifecycleModule{Frames: frames})

	app := campfire.NewAppBuilder().UseModule(modules...).Build()
	defer app.Dispose()

	if err := app.Run(); err != nil {
		return err
	}
	if stats, ok := app.LastFrameStats(); ok {
		app.Logger().Infof("last interval: %.1f fps, %d embers, %d smoke", stats.FPS, stats.Embers, stats.Smoke)
	}
	app.Logger().Infof("stopped after %d frames", app.Frames())
	return nil
}
