package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/ttacon/chalk"
	"go.uber.org/zap"

	"github.com/lixenwraith/flocking-geese/audio"
	"github.com/lixenwraith/flocking-geese/config"
	"github.com/lixenwraith/flocking-geese/constant"
	"github.com/lixenwraith/flocking-geese/core"
	"github.com/lixenwraith/flocking-geese/engine"
	"github.com/lixenwraith/flocking-geese/flock"
	"github.com/lixenwraith/flocking-geese/render"
	"github.com/lixenwraith/flocking-geese/status"
	"github.com/lixenwraith/flocking-geese/vizserver"
	"github.com/lixenwraith/flocking-geese/vmath"
)

var (
	configFlag   = flag.String("config", "", "Config file (.toml, .yaml, .yml)")
	sizeFlag     = flag.Int("size", -1, "Initial flock size, overrides config")
	seedFlag     = flag.Uint64("seed", 0, "Random seed, overrides config (0 keeps config)")
	headlessFlag = flag.Bool("headless", false, "Run without the terminal UI until interrupted")
	vizFlag      = flag.String("viz", "", "Serve the viz feed on this address, overrides config")
	debugFlag    = flag.Bool("debug", false, "Log at debug level")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, chalk.Red.Color("flocking-geese: "+err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyFlags(cfg); err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg.Logging, *debugFlag, !*headlessFlag)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closeLog()
	defer log.Sync()

	seed := cfg.Flock.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	f := flock.New(
		flock.WithParams(cfg.Goose),
		flock.WithSeed(seed),
		flock.WithPolicy(cfg.NeighborPolicy()),
		flock.WithSpatialIndex(cfg.Flock.SpatialIndex),
	)
	log.Info("flock configured",
		zap.Int("size", cfg.Flock.Size),
		zap.Uint64("seed", seed),
		zap.Stringer("policy", f.Policy()),
		zap.Bool("spatial_index", cfg.Flock.SpatialIndex),
		zap.Duration("tick_interval", cfg.Sim.TickInterval),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := status.NewRegistry()
	var (
		cs  *engine.ClockScheduler
		sim *engine.Simulation
	)
	if *headlessFlag {
		printBanner(cfg, seed)
		cs, sim, err = runHeadless(ctx, cfg, f, reg, log)
	} else {
		cs, sim, err = runTerminal(ctx, cfg, f, reg, log)
	}
	if sim != nil {
		printSummary(cs, sim, reg)
	}
	return err
}

// applyFlags layers command-line overrides onto cfg
func applyFlags(cfg *config.Config) error {
	if *sizeFlag >= 0 {
		cfg.Flock.Size = *sizeFlag
	}
	if *seedFlag != 0 {
		cfg.Flock.Seed = *seedFlag
	}
	if *vizFlag != "" {
		cfg.Viz.Enabled = true
		cfg.Viz.Addr = *vizFlag
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("flags: %w", err)
	}
	return nil
}

// startViz attaches the viz feed to sim when enabled
// Must run before the scheduler starts
func startViz(ctx context.Context, cfg *config.Config, sim *engine.Simulation, reg *status.Registry, log *zap.Logger) {
	if !cfg.Viz.Enabled {
		return
	}
	vlog := log.Named("viz")
	hub := vizserver.NewHub(vlog)
	sim.Observe(hub.Publish)

	svc := vizserver.NewService(cfg.Viz.Addr, hub, reg, vlog)
	core.Go(func() {
		if err := svc.ListenAndServe(ctx); err != nil {
			vlog.Error("viz server stopped", zap.Error(err))
		}
	})
}

func runHeadless(ctx context.Context, cfg *config.Config, f *flock.Flock, reg *status.Registry, log *zap.Logger) (*engine.ClockScheduler, *engine.Simulation, error) {
	bounds := vmath.NewRect(0, 0, constant.BoundsWidth, constant.BoundsHeight)
	sim, err := engine.NewSimulation(f, bounds, reg, log.Named("sim"),
		engine.WithSounder(audio.NewHonker(cfg.Audio, log.Named("audio"))),
		engine.WithTicksPerFrame(cfg.Sim.TicksPerFrame),
	)
	if err != nil {
		return nil, nil, err
	}
	if err := sim.ResetCentered(cfg.Flock.Size); err != nil {
		return nil, nil, err
	}
	startViz(ctx, cfg, sim, reg, log)

	cs := engine.NewClockScheduler(cfg.Sim.TickInterval, sim.Step, log.Named("scheduler"))
	h, err := cs.Start(ctx)
	if err != nil {
		return nil, nil, err
	}

	fmt.Println(chalk.Green.Color("running headless, ctrl-c to stop"))
	<-h.Done()
	return cs, sim, cs.Stop(h)
}

func runTerminal(ctx context.Context, cfg *config.Config, f *flock.Flock, reg *status.Registry, log *zap.Logger) (*engine.ClockScheduler, *engine.Simulation, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, nil, fmt.Errorf("init screen: %w", err)
	}
	core.SetCrashScreen(screen)
	defer screen.Fini()

	screen.EnableMouse()
	screen.HideCursor()

	var statusLine *render.StatusLine
	if cfg.Render.Status {
		statusLine = render.NewStatusLine(keyLegend)
	}
	surface := render.NewTerminalSurface(screen, cfg.Goose.MaxSpeed, statusLine)
	bounds := surface.FieldBounds(cfg.Render.CellWidth, cfg.Render.CellHeight)
	if bounds.IsEmpty() {
		bounds = vmath.NewRect(0, 0, constant.BoundsWidth, constant.BoundsHeight)
	}

	honker := audio.NewHonker(cfg.Audio, log.Named("audio"))
	defer honker.Close()

	sim, err := engine.NewSimulation(f, bounds, reg, log.Named("sim"),
		engine.WithCanvas(surface),
		engine.WithSounder(honker),
		engine.WithTicksPerFrame(cfg.Sim.TicksPerFrame),
	)
	if err != nil {
		return nil, nil, err
	}
	if err := sim.ResetCentered(cfg.Flock.Size); err != nil {
		return nil, nil, err
	}
	startViz(ctx, cfg, sim, reg, log)

	cs := engine.NewClockScheduler(cfg.Sim.TickInterval, sim.Step, log.Named("scheduler"))
	h, err := cs.Start(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer cs.Stop(h)

	// PollEvent returns nil once the screen is finalized
	events := make(chan tcell.Event, constant.CommandQueueSize)
	core.Go(func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	})

	for {
		select {
		case <-h.Done():
			return cs, sim, nil
		case ev, ok := <-events:
			if !ok {
				return cs, sim, nil
			}
			if !handleEvent(ev, screen, cs, sim, surface, cfg, log) {
				return cs, sim, nil
			}
		}
	}
}

// handleEvent posts work for ev to the scheduler; false means quit
func handleEvent(ev tcell.Event, screen tcell.Screen, cs *engine.ClockScheduler, sim *engine.Simulation,
	surface *render.TerminalSurface, cfg *config.Config, log *zap.Logger) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		act := keyAction(ev)
		switch act {
		case actionQuit:
			return false
		case actionNone:
		default:
			cs.Post(func() { applyAction(sim, act, log) })
		}

	case *tcell.EventMouse:
		index, ok := mouseAttractor(ev.Buttons())
		if !ok {
			break
		}
		x, y := ev.Position()
		cs.Post(func() {
			pos, inField := surface.CellToWorld(x, y)
			if !inField {
				return
			}
			if err := sim.SetAttractor(index, pos); err != nil {
				log.Warn("set attractor", zap.Error(err))
			}
		})

	case *tcell.EventResize:
		screen.Sync()
		cs.Post(func() {
			bounds := surface.FieldBounds(cfg.Render.CellWidth, cfg.Render.CellHeight)
			if bounds.IsEmpty() {
				return
			}
			if err := sim.Resize(bounds); err != nil {
				log.Warn("resize", zap.Error(err))
			}
		})
	}
	return true
}

func printBanner(cfg *config.Config, seed uint64) {
	fmt.Println(chalk.Bold.TextStyle("flocking-geese"))
	fmt.Printf("  %s %d  %s %d  %s %s\n",
		chalk.Cyan.Color("geese"), cfg.Flock.Size,
		chalk.Cyan.Color("seed"), seed,
		chalk.Cyan.Color("policy"), cfg.Flock.Policy)
	if cfg.Viz.Enabled {
		fmt.Printf("  %s http://%s/\n", chalk.Cyan.Color("viz"), cfg.Viz.Addr)
	}
}

func printSummary(cs *engine.ClockScheduler, sim *engine.Simulation, reg *status.Registry) {
	stats := sim.Stats()
	fmt.Println(chalk.Bold.TextStyle("flocking-geese stopped"))
	fmt.Printf("  %s %d  %s %d  %s %.1f  %s %s  %s %s\n",
		chalk.Cyan.Color("ticks"), reg.Ints.Get(engine.MetricTicks).Load(),
		chalk.Cyan.Color("geese"), stats.Geese,
		chalk.Cyan.Color("fps"), stats.FPS,
		chalk.Cyan.Color("sim time"), stats.SimTime.Round(time.Millisecond),
		chalk.Cyan.Color("paused"), stats.Paused.Round(time.Millisecond))
	if cs != nil && cs.Errors() > 0 {
		fmt.Println(chalk.Yellow.Color(fmt.Sprintf("  %d of %d passes failed, see log", cs.Errors(), cs.Passes())))
	}
}
