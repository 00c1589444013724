package system

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/sentry/common"
	"github.com/milk9111/sentry/controller"
	"github.com/milk9111/sentry/ecs"
	"github.com/milk9111/sentry/ecs/component"
	"github.com/milk9111/sentry/ecs/entity"
	"github.com/milk9111/sentry/physics"
)

const (
	facingLength = 1.2
	cameraFollow = 0.2
)

var (
	groundColor     color.Color = colornames.Darkslategray
	solidColor      color.Color = colornames.Lightslategray
	playerColor     color.Color = colornames.Deepskyblue
	enemyColor      color.Color = colornames.Orangered
	projectileColor color.Color = colornames.White
	blockedColor                = color.NRGBA{R: 0xff, G: 0x30, B: 0x30, A: 0x30}
	pathColor                   = color.NRGBA{R: 0x60, G: 0xff, B: 0x60, A: 0xc0}
)

// RenderSystem draws a top-down view of the simulation: +X to the right and
// +Z up the screen, centred on the player.
type RenderSystem struct {
	PixelsPerM float64
	Gizmos     bool
	NavGrid    bool

	camX, camZ float64
	hasCam     bool
}

func NewRenderSystem(pixelsPerM float64, gizmos, navGrid bool) *RenderSystem {
	if pixelsPerM <= 0 {
		pixelsPerM = 20
	}
	return &RenderSystem{PixelsPerM: pixelsPerM, Gizmos: gizmos, NavGrid: navGrid}
}

// Update does nothing; drawing happens in Draw.
func (r *RenderSystem) Update(w *ecs.World) {}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	services, err := entity.Services(w)
	if err != nil {
		return
	}

	view := r.view(w, screen)
	if r.NavGrid && services.Grid != nil {
		half := services.Grid.CellSize() / 2
		for _, c := range services.Grid.Blocked() {
			x, y := view.toScreen(c.X()-half, c.Z()+half)
			size := float32(services.Grid.CellSize() * view.ppm)
			vector.FillRect(screen, x, y, size, size, blockedColor, false)
		}
	}

	cp.DrawSpace(services.Scene.Space(), &sceneDrawer{screen: screen, view: view})

	ecs.ForEach2(w, component.NavAgentComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, agent *component.NavAgent, t *component.Transform) {
		if !r.NavGrid || agent.Agent == nil {
			return
		}
		prev := t.Position
		for _, wp := range agent.Agent.Path() {
			view.line(screen, prev, wp, pathColor)
			prev = wp
		}
	})

	if r.Gizmos {
		ecs.ForEach2(w, component.EnemyBrainComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, brain *component.EnemyBrain, t *component.Transform) {
			if brain.Controller == nil {
				return
			}
			spheres := brain.Controller.Config.Gizmos(t.Position)
			if g, ok := ecs.Get(w, e, component.GizmosComponent.Kind()); ok {
				spheres[0].Color = toRGBA(g.AttackColor)
				spheres[1].Color = toRGBA(g.SightColor)
			}
			for _, s := range spheres {
				view.circle(screen, s.Center, s.Radius, s.Color)
			}
		})
	}

	ecs.ForEach(w, component.TransformComponent.Kind(), func(e ecs.Entity, t *component.Transform) {
		if !ecs.Has(w, e, component.BodyComponent.Kind()) {
			return
		}
		tip := t.Position.Add(controller.Forward(t.Yaw, 0).Mul(facingLength))
		view.line(screen, t.Position, tip, projectileColor)
	})

	ebitenutil.DebugPrintAt(screen, r.hud(w), 8, 8)
}

func (r *RenderSystem) hud(w *ecs.World) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TPS %.0f  t=%.2fs  frame %d\n", ebiten.ActualTPS(), w.Now(), w.Frame())
	if player, ok := entity.Player(w); ok {
		t, _ := ecs.Get(w, player, component.TransformComponent.Kind())
		cam, _ := ecs.Get(w, player, component.CameraComponent.Kind())
		grounded := false
		if m, ok := ecs.Get(w, player, component.PlayerMotorComponent.Kind()); ok && m.Controller != nil {
			grounded = m.Controller.State.Grounded
		}
		pitch := 0.0
		if cam != nil {
			pitch = cam.Pitch
		}
		if t != nil {
			fmt.Fprintf(&b, "player (%.1f, %.1f, %.1f) yaw %.0f pitch %.0f grounded %v\n",
				t.Position.X(), t.Position.Y(), t.Position.Z(), t.Yaw, pitch, grounded)
		}
	}
	ecs.ForEach(w, component.EnemyBrainComponent.Kind(), func(e ecs.Entity, brain *component.EnemyBrain) {
		if brain.Controller == nil {
			return
		}
		s := brain.Controller.State
		fmt.Fprintf(&b, "enemy %s: %s attacks %d\n", e, s.Behaviour, s.Attacks)
	})
	return b.String()
}

type topDownView struct {
	camX, camZ float64
	ppm        float64
	halfW      float64
	halfH      float64
}

func (r *RenderSystem) view(w *ecs.World, screen *ebiten.Image) topDownView {
	b := screen.Bounds()
	if player, ok := entity.Player(w); ok {
		if t, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
			if !r.hasCam {
				r.camX, r.camZ = t.Position.X(), t.Position.Z()
				r.hasCam = true
			}
			r.camX = common.Lerp(r.camX, t.Position.X(), cameraFollow)
			r.camZ = common.Lerp(r.camZ, t.Position.Z(), cameraFollow)
		}
	}
	return topDownView{camX: r.camX, camZ: r.camZ, ppm: r.PixelsPerM, halfW: float64(b.Dx()) / 2, halfH: float64(b.Dy()) / 2}
}

func (v topDownView) toScreen(x, z float64) (float32, float32) {
	return float32(v.halfW + (x-v.camX)*v.ppm), float32(v.halfH - (z-v.camZ)*v.ppm)
}

func (v topDownView) line(screen *ebiten.Image, a, b mgl64.Vec3, clr color.Color) {
	x1, y1 := v.toScreen(a.X(), a.Z())
	x2, y2 := v.toScreen(b.X(), b.Z())
	vector.StrokeLine(screen, x1, y1, x2, y2, 1, clr, true)
}

func (v topDownView) circle(screen *ebiten.Image, center mgl64.Vec3, radius float64, clr color.Color) {
	x, y := v.toScreen(center.X(), center.Z())
	vector.StrokeCircle(screen, x, y, float32(radius*v.ppm), 1, clr, true)
}

// sceneDrawer maps chipmunk's debug callbacks onto the top-down view. The
// chipmunk Y axis is world Z.
type sceneDrawer struct {
	screen *ebiten.Image
	view   topDownView
}

func (d *sceneDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	x, y := d.view.toScreen(pos.X, pos.Y)
	vector.StrokeCircle(d.screen, x, y, float32(radius*d.view.ppm), 1.5, toNRGBA(fill), true)
}

func (d *sceneDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.segment(a, b, toNRGBA(fill))
}

func (d *sceneDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.segment(a, b, toNRGBA(outline))
}

func (d *sceneDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	clr := toNRGBA(fill)
	for i := 0; i < count; i++ {
		d.segment(verts[i], verts[(i+1)%count], clr)
	}
}

func (d *sceneDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	x, y := d.view.toScreen(pos.X, pos.Y)
	vector.FillCircle(d.screen, x, y, float32(math.Max(size, 2)), toNRGBA(fill), true)
}

func (d *sceneDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *sceneDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

// ShapeColor colours a shape by its collision layer.
func (d *sceneDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	c, ok := shape.UserData.(*physics.Collider)
	if !ok {
		return toFColor(groundColor)
	}
	switch {
	case c.Layer.Has(physics.LayerPlayer):
		return toFColor(playerColor)
	case c.Layer.Has(physics.LayerEnemy):
		return toFColor(enemyColor)
	case c.Layer.Has(physics.LayerProjectile):
		return toFColor(projectileColor)
	case c.Layer.Has(physics.LayerSolid):
		return toFColor(solidColor)
	default:
		return toFColor(groundColor)
	}
}

func (d *sceneDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *sceneDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *sceneDrawer) Data() interface{} {
	return nil
}

func (d *sceneDrawer) segment(a, b cp.Vector, clr color.Color) {
	x1, y1 := d.view.toScreen(a.X, a.Y)
	x2, y2 := d.view.toScreen(b.X, b.Y)
	vector.StrokeLine(d.screen, x1, y1, x2, y2, 1, clr, true)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func toFColor(clr color.Color) cp.FColor {
	c := color.NRGBAModel.Convert(clr).(color.NRGBA)
	return cp.FColor{R: float32(c.R) / 255, G: float32(c.G) / 255, B: float32(c.B) / 255, A: float32(c.A) / 255}
}

func toRGBA(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{}
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
