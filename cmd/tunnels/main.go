package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/generals-tunnels/internal/config"
	"github.com/mitchelldurbincs/generals-tunnels/internal/game"
	"github.com/mitchelldurbincs/generals-tunnels/internal/game/core"
	"github.com/mitchelldurbincs/generals-tunnels/internal/game/events"
	"github.com/mitchelldurbincs/generals-tunnels/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/generals-tunnels/internal/game/mapgen"
	"github.com/mitchelldurbincs/generals-tunnels/internal/pathfind/teleport"
	"github.com/mitchelldurbincs/generals-tunnels/internal/ruledata"
)

var (
	configPath   = flag.String("config", "", "Path to config file")
	scenarioPath = flag.String("scenario", "", "Scenario or save file to load (overrides scenario.path)")
	unitID       = flag.String("unit", "", "Unit to resolve tunnels for (default: first unit with a teleport ability)")
	viewerSide   = flag.Int("viewer", 0, "Observing side (default: the unit's own side)")
	seeAll       = flag.Bool("see-all", false, "Ignore fog and look units up with full knowledge")
	ignoreUnits  = flag.Bool("ignore-units", false, "Resolve tunnel geometry as if the board were empty")
	checkVision  = flag.Bool("check-vision", false, "Only use tunnels vision travels through")
	savePath     = flag.String("save", "", "Write the session snapshot here (overrides scenario.save_path)")
	logLevel     = flag.String("log-level", "", "Log level (debug, info, warn, error)")
	generate     = flag.Bool("generate", false, "Generate a demo scenario instead of loading one")
	watch        = flag.Bool("watch", false, "Re-run the query whenever the config file changes")
)

func main() {
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		if err := config.LoadEnvironmentConfig(env); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load %s config: %v\n", env, err)
			os.Exit(1)
		}
	}
	cfg := config.Get()

	level := cfg.Log.Level
	if *logLevel != "" {
		level = *logLevel
	}
	setupLogging(level, cfg.Log.Format)

	scenario, err := loadScenario(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load scenario")
	}

	bus := events.NewEventBus()
	eventLogger := subscribers.NewLoggerSubscriber("event_logger", log.Logger, zerolog.DebugLevel)
	eventLogger.SetDevMode(cfg.Development.VerboseLogging)
	bus.Subscribe(eventLogger)
	summary := events.NewRecorder("summary", events.TypeTunnelAdded, events.TypeTunnelRemoved, events.TypeDiagnostic)
	bus.Subscribe(summary)

	sessionCfg := game.DefaultSessionConfig(log.Logger)
	sessionCfg.EventBus = bus
	session, err := game.NewSession(scenario, sessionCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start session")
	}

	if err := run(session, cfg); err != nil {
		log.Error().Err(err).Msg("Tunnel query failed")
		_ = session.Close()
		os.Exit(1)
	}

	if *watch {
		watchConfig(session)
	}

	if path := firstNonEmpty(*savePath, cfg.Scenario.SavePath); path != "" {
		if err := ruledata.Save(path, session.Snapshot()); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to save session")
		}
		log.Info().Str("path", path).Msg("Session saved")
	}

	if err := session.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close session")
	}
	log.Info().
		Int("tunnels_added", summary.Count(events.TypeTunnelAdded)).
		Int("tunnels_removed", summary.Count(events.TypeTunnelRemoved)).
		Int("diagnostics", summary.Count(events.TypeDiagnostic)).
		Msg("Done")
}

// watchConfig re-runs the query on every config change until interrupted
func watchConfig(session *game.Session) {
	var (
		mu      sync.Mutex
		stopped bool
	)
	config.WatchConfig(func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		log.Info().Str("path", config.ConfigFilePath()).Msg("Config changed, re-resolving tunnels")
		if err := run(session, config.Get()); err != nil {
			log.Error().Err(err).Msg("Tunnel query failed")
		}
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	log.Info().Msg("Watching config, press Ctrl+C to stop")
	<-sigChan

	// let a running query finish before the session is saved and closed
	mu.Lock()
	stopped = true
	mu.Unlock()
}

func run(session *game.Session, cfg *config.Config) error {
	unit, err := pickUnit(session)
	if err != nil {
		return err
	}
	side := *viewerSide
	if side == 0 {
		side = unit.Side
	}
	viewer, err := session.Team(side)
	if err != nil {
		return err
	}

	opts := teleport.Options{
		SeeAll:      *seeAll || cfg.Pathfind.SeeAll,
		IgnoreUnits: *ignoreUnits || cfg.Pathfind.IgnoreUnits,
		CheckVision: *checkVision || cfg.Pathfind.CheckVision,
	}
	m, err := session.TeleportLocations(unit, viewer, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Tunnels for %s (side %d) seen by side %d:\n", unit.ID, unit.Side, viewer.Side)
	if m.Len() == 0 {
		fmt.Println("  none")
	}
	fmt.Print(game.FormatAdjacency(m))
	if cfg.Development.RenderBoard {
		fmt.Println()
		fmt.Print(game.RenderTunnels(session.Board().Map(), m))
	}
	return nil
}

// pickUnit returns the -unit flag's unit or the first unit that can teleport
func pickUnit(session *game.Session) (*core.Unit, error) {
	if *unitID != "" {
		return session.Unit(*unitID)
	}
	units := session.Board().Units().All()
	for _, u := range units {
		if len(u.Abilities(core.AbilityTeleport)) > 0 {
			return u, nil
		}
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: scenario has no units", core.ErrUnitNotFound)
	}
	return units[0], nil
}

func loadScenario(cfg *config.Config) (*ruledata.Record, error) {
	path := firstNonEmpty(*scenarioPath, cfg.Scenario.Path)
	if path != "" && !*generate {
		log.Info().Str("path", path).Msg("Loading scenario")
		return ruledata.Load(path)
	}

	mapCfg := mapgen.DefaultMapConfig(cfg.Mapgen.Width, cfg.Mapgen.Height, 2)
	mapCfg.CaveRatio = cfg.Mapgen.CaveRatio
	mapCfg.VillageRatio = cfg.Mapgen.VillageRatio
	mapCfg.WallRatio = cfg.Mapgen.WallRatio
	mapCfg.Fog = cfg.Fog.Enabled

	log.Info().
		Int("width", mapCfg.Width).
		Int("height", mapCfg.Height).
		Int64("seed", cfg.Mapgen.Seed).
		Msg("Generating scenario")
	rng := rand.New(rand.NewSource(cfg.Mapgen.Seed))
	return mapgen.NewGenerator(mapCfg, rng).GenerateScenario("generated")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func setupLogging(level, format string) {
	// Parse log level
	var lvl zerolog.Level
	switch level {
	case "debug":
		lvl = zerolog.DebugLevel
	case "info":
		lvl = zerolog.InfoLevel
	case "warn":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	default:
		lvl = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(lvl)

	if os.Getenv("APP_ENV") == "production" || format == "json" {
		// JSON output for production
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		// Pretty console output for development
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
}
