// Package renderer draws read-only game frames with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/landonWcummings/landoncummings.com-sub000/camera"
	"github.com/landonWcummings/landoncummings.com-sub000/components"
	"github.com/landonWcummings/landoncummings.com-sub000/game"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
)

// Palette
var (
	ColorBackground = rl.Color{R: 24, G: 26, B: 34, A: 255}
	ColorGridLine   = rl.Color{R: 40, G: 44, B: 56, A: 255}
	ColorActor      = rl.Color{R: 240, G: 240, B: 250, A: 255}
	ColorActorDead  = rl.Color{R: 250, G: 90, B: 90, A: 255}
	ColorProjectile = rl.Color{R: 255, G: 200, B: 60, A: 255}
	ColorCheckpoint = rl.Color{R: 110, G: 200, B: 255, A: 160}
	ColorTarget     = rl.Color{R: 110, G: 255, B: 160, A: 255}
)

// TileColor returns the fill color for a tile kind. Empty tiles are not
// drawn and return a zero color.
func TileColor(k level.TileKind) rl.Color {
	switch k {
	case level.Empty:
		return rl.Color{}
	case level.Ground:
		return rl.Color{R: 96, G: 72, B: 52, A: 255}
	case level.Block:
		return rl.Color{R: 110, G: 112, B: 124, A: 255}
	case level.Lava:
		return rl.Color{R: 230, G: 70, B: 30, A: 255}
	case level.Bounce:
		return rl.Color{R: 80, G: 220, B: 120, A: 255}
	case level.Turret:
		return rl.Color{R: 150, G: 60, B: 170, A: 255}
	case level.Start:
		return rl.Color{R: 60, G: 120, B: 230, A: 120}
	case level.Finish:
		return rl.Color{R: 250, G: 215, B: 70, A: 200}
	default:
		return rl.Magenta
	}
}

// LevelRenderer draws a grid, the actor and live projectiles.
type LevelRenderer struct {
	ShowGrid        bool
	ShowCheckpoints bool
}

// NewLevelRenderer creates a renderer with checkpoints shown.
func NewLevelRenderer() *LevelRenderer {
	return &LevelRenderer{ShowCheckpoints: true}
}

// DrawFrame renders one frame. It never modifies f.
func (r *LevelRenderer) DrawFrame(f game.Frame, cam *camera.Camera) {
	r.DrawGrid(f.Grid, cam)

	if r.ShowCheckpoints {
		for _, cp := range f.Checkpoints {
			sx, sy := cam.WorldToScreen(float32(cp.X), float32(cp.Y))
			rl.DrawCircleLines(int32(sx), int32(sy), cam.Scale(6), ColorCheckpoint)
		}
		tx, ty := cam.WorldToScreen(float32(f.Target.X), float32(f.Target.Y))
		rl.DrawCircleV(rl.Vector2{X: tx, Y: ty}, cam.Scale(4), ColorTarget)
	}

	for _, p := range f.Projectiles {
		drawBox(cam, p.Body.Box(p.Pos), ColorProjectile)
	}

	color := ColorActor
	if f.Actor.TouchedHazard {
		color = ColorActorDead
	}
	drawBox(cam, f.Actor.Box(), color)
}

// DrawGrid renders the tiles visible through cam.
func (r *LevelRenderer) DrawGrid(g *level.Grid, cam *camera.Camera) {
	if g == nil {
		return
	}
	size := float32(level.CellSize)
	half := size / 2
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			cx, cy := level.CellCenter(level.C(x, y))
			if !cam.IsVisible(float32(cx), float32(cy), half, half) {
				continue
			}
			sx, sy := cam.WorldToScreen(float32(cx)-half, float32(cy)-half)
			rect := rl.Rectangle{X: sx, Y: sy, Width: cam.Scale(size), Height: cam.Scale(size)}

			k := g.At(x, y)
			if k != level.Empty {
				rl.DrawRectangleRec(rect, TileColor(k))
			}
			if k == level.Turret {
				if dir, ok := g.TurretDirection(level.C(x, y)); ok {
					drawTurretBarrel(cam, cx, cy, dir)
				}
			}
			if r.ShowGrid {
				rl.DrawRectangleLinesEx(rect, 1, ColorGridLine)
			}
		}
	}
}

func drawTurretBarrel(cam *camera.Camera, cx, cy float64, dir level.Direction) {
	dx, dy := dir.Vector()
	reach := level.CellSize / 2
	from := rl.Vector2{}
	from.X, from.Y = cam.WorldToScreen(float32(cx), float32(cy))
	to := rl.Vector2{}
	to.X, to.Y = cam.WorldToScreen(float32(cx+dx*reach), float32(cy+dy*reach))
	rl.DrawLineEx(from, to, cam.Scale(4), rl.Black)
}

func drawBox(cam *camera.Camera, b components.Box, color rl.Color) {
	sx, sy := cam.WorldToScreen(float32(b.MinX), float32(b.MinY))
	rl.DrawRectangleRec(rl.Rectangle{
		X:      sx,
		Y:      sy,
		Width:  cam.Scale(float32(b.MaxX - b.MinX)),
		Height: cam.Scale(float32(b.MaxY - b.MinY)),
	}, color)
}
