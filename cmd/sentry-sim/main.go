package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/milk9111/sentry/config"
	"github.com/milk9111/sentry/ecs"
	"github.com/milk9111/sentry/ecs/entity"
	"github.com/milk9111/sentry/ecs/system"
	"github.com/milk9111/sentry/levels"
	"github.com/milk9111/sentry/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "game config file (missing file means defaults)")
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional)")
	ticks := flag.Int("ticks", 600, "number of fixed steps to simulate")
	seed := flag.Uint64("seed", 0, "random seed for enemy patrols (0 keeps the config seed)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn or error")
	approach := flag.Bool("approach", false, "walk the player toward the nearest enemy")
	snapshot := flag.Bool("snapshot", true, "print a YAML snapshot of the final state")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *levelName != "" {
		cfg.Simulation.Level = *levelName
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LoggerConfig().Level
	if *logLevel != "" {
		logCfg.Level = *logLevel
	}
	zl, err := logger.NewZapLogger(logCfg)
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	if err := run(cfg, zl, *ticks, *approach, *snapshot); err != nil {
		zl.Error("simulation failed", logger.F("error", err))
		_ = zl.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger, ticks int, approach, snapshot bool) error {
	w, totals, err := simulate(cfg, log, ticks, approach)
	if err != nil {
		return err
	}

	log.Info("simulation finished",
		logger.F("level", cfg.Simulation.Level),
		logger.F("ticks", ticks),
		logger.F("seconds", w.Now()),
		logger.F("behaviour_changes", totals.changes),
		logger.F("projectiles_fired", totals.fired),
		logger.F("projectile_hits", totals.hits),
		logger.F("player_hits", totals.playerHits),
		logger.F("jumps", totals.jumps),
	)

	if snapshot {
		data, err := system.TakeSnapshot(w).YAML()
		if err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		if _, err := os.Stdout.Write(data); err != nil {
			return err
		}
	}
	return nil
}

func simulate(cfg *config.Config, log logger.Logger, ticks int, approach bool) (*ecs.World, tally, error) {
	var totals tally
	lvl, err := levels.Load(cfg.Simulation.Level)
	if err != nil {
		return nil, totals, err
	}
	w := ecs.NewWorld()
	if _, err := entity.LoadLevel(w, lvl, log, cfg.Simulation.Seed); err != nil {
		return nil, totals, err
	}

	sched := system.NewPipeline(&pilot{world: w, enabled: approach, dt: cfg.Dt()})
	totals.player, _ = entity.Player(w)
	for i := 0; i < ticks; i++ {
		sched.Step(w, cfg.Dt())
		totals.add(w.Events().Drain())
	}
	return w, totals, nil
}

type tally struct {
	player     ecs.Entity
	changes    int
	fired      int
	hits       int
	playerHits int
	jumps      int
}

func (t *tally) add(events []ecs.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case ecs.EventBehaviourChanged:
			t.changes++
		case ecs.EventProjectileFired:
			t.fired++
		case ecs.EventProjectileHit:
			t.hits++
			if hit, ok := ev.Data.(system.ProjectileHit); ok && t.player.Valid() && hit.Target == t.player {
				t.playerHits++
			}
		case ecs.EventPlayerJumped:
			t.jumps++
		}
	}
}
