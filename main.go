package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/sentry/config"
	"github.com/milk9111/sentry/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "game config file (missing file means defaults)")
	debug := flag.Bool("debug", false, "enable debug overlays and debug logging")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *levelName != "" {
		cfg.Simulation.Level = *levelName
	}
	if *debug {
		cfg.Debug.Enabled = true
		cfg.Debug.Gizmos = true
		cfg.Debug.NavGrid = true
		cfg.Logging = logger.DevelopmentConfig()
	}

	zl, err := logger.NewZapLogger(cfg.LoggerConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetWindowSize(cfg.Display.ScreenWidth, cfg.Display.ScreenHeight)
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	ebiten.SetTPS(cfg.Simulation.TPS)

	game, err := NewGame(cfg, zl)
	if err != nil {
		zl.Error("start game", logger.F("error", err))
		return
	}
	defer game.Close()

	// Mouse look needs the cursor locked to the window.
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		zl.Error("run game", logger.F("error", err))
	}
}
