package main

import (
	"fmt"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/milk9111/sentry/config"
	"github.com/milk9111/sentry/ecs"
	"github.com/milk9111/sentry/ecs/component"
	"github.com/milk9111/sentry/ecs/entity"
	"github.com/milk9111/sentry/ecs/system"
	"github.com/milk9111/sentry/levels"
	"github.com/milk9111/sentry/logger"
	"github.com/milk9111/sentry/prefabs"
)

type Game struct {
	cfg *config.Config
	log logger.Logger

	world  *ecs.World
	sched  *ecs.Scheduler
	render *system.RenderSystem
	input  *system.EbitenInput

	paused  bool
	quit    bool
	pauseUI *ebitenui.UI

	watcher      *prefabs.Watcher
	clipboardOK  bool
	levelName    string
	statusText   string
	statusFrames int
}

func NewGame(cfg *config.Config, log logger.Logger) (*Game, error) {
	g := &Game{
		cfg:       cfg,
		log:       log,
		render:    system.NewRenderSystem(cfg.Display.PixelsPerM, cfg.Debug.Gizmos, cfg.Debug.NavGrid),
		input:     &system.EbitenInput{},
		levelName: cfg.Simulation.Level,
	}
	g.sched = system.NewPipeline(g.input)
	g.pauseUI = NewPauseUI(g)

	if err := g.loadLevel(); err != nil {
		return nil, err
	}

	if err := clipboard.Init(); err != nil {
		log.Warn("clipboard unavailable; F2 snapshots are logged instead", logger.F("error", err))
	} else {
		g.clipboardOK = true
	}

	if cfg.Simulation.HotReload {
		w, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"), levels.Dir)
		if err != nil {
			log.Warn("hot reload disabled", logger.F("error", err))
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

// loadLevel replaces the world with a fresh copy of the current level.
func (g *Game) loadLevel() error {
	lvl, err := levels.Load(g.levelName)
	if err != nil {
		return err
	}
	w := ecs.NewWorld()
	if _, err := entity.LoadLevel(w, lvl, g.log, g.cfg.Simulation.Seed); err != nil {
		return err
	}
	g.world = w
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.setPaused(!g.paused)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.render.Gizmos = !g.render.Gizmos
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		g.copySnapshot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.render.NavGrid = !g.render.NavGrid
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.requestReload()
	}

	g.applyReloads()
	if g.statusFrames > 0 {
		g.statusFrames--
	}

	if g.paused {
		g.pauseUI.Update()
		return nil
	}
	g.sched.Step(g.world, g.cfg.Dt())
	g.world.Events().Drain()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Draw(g.world, screen)
	if g.statusFrames > 0 {
		b := screen.Bounds()
		drawStatus(screen, g.statusText, b.Dy()-24)
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Display.ScreenWidth, g.cfg.Display.ScreenHeight
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
	if paused {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
		return
	}
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)
}

// requestReload queues a level restart for the next frame.
func (g *Game) requestReload() {
	e := ecs.CreateEntity(g.world)
	_ = ecs.Add(g.world, e, component.ReloadRequestComponent.Kind(), &component.ReloadRequest{})
}

func (g *Game) copySnapshot() {
	data, err := system.TakeSnapshot(g.world).YAML()
	if err != nil {
		g.log.Error("snapshot", logger.F("error", err))
		return
	}
	if !g.clipboardOK {
		g.log.Info("snapshot", logger.F("yaml", string(data)))
		g.status("snapshot logged")
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.status(fmt.Sprintf("snapshot copied (%d bytes)", len(data)))
}

func (g *Game) status(text string) {
	g.statusText = text
	g.statusFrames = 2 * g.cfg.Simulation.TPS
}
