package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/landonWcummings/landoncummings.com-sub000/components"
	"github.com/landonWcummings/landoncummings.com-sub000/config"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
)

// ProjectileParams holds turret fire settings.
type ProjectileParams struct {
	DT            float64
	FireInterval  int // ticks between volleys, shared by every turret
	Speed         float64
	HalfLength    float64
	HalfThickness float64
}

// NewProjectileParams extracts projectile settings from the config.
func NewProjectileParams(cfg *config.Config) ProjectileParams {
	return ProjectileParams{
		DT:            cfg.Physics.DT,
		FireInterval:  cfg.Projectiles.FireInterval,
		Speed:         cfg.Projectiles.Speed,
		HalfLength:    cfg.Projectiles.HalfLength,
		HalfThickness: cfg.Projectiles.HalfThickness,
	}
}

// ProjectileSystem owns the live projectiles of one episode. Each projectile
// is an entity in a private ECS world, so rollouts running on different
// goroutines never share state.
type ProjectileSystem struct {
	grid    *level.Grid
	params  ProjectileParams
	turrets []level.TurretSpec

	world  *ecs.World
	mapper *ecs.Map3[components.Position, components.Velocity, components.ProjectileBody]
	filter *ecs.Filter3[components.Position, components.Velocity, components.ProjectileBody]

	// Reusable removal buffer (cleared every tick)
	toRemove []ecs.Entity
}

// NewProjectileSystem creates an empty projectile world for the grid.
func NewProjectileSystem(g *level.Grid, params ProjectileParams) *ProjectileSystem {
	world := ecs.NewWorld()
	return &ProjectileSystem{
		grid:    g,
		params:  params,
		turrets: g.Turrets(),
		world:   world,
		mapper:  ecs.NewMap3[components.Position, components.Velocity, components.ProjectileBody](world),
		filter:  ecs.NewFilter3[components.Position, components.Velocity, components.ProjectileBody](world),
	}
}

// Update runs one projectile tick: spawn on the volley cadence, advance and
// expire, then test the actor box. The box must be the actor's position
// before its own physics step for the same tick. Returns true on a hit.
func (ps *ProjectileSystem) Update(tick int, actor components.Box) bool {
	if ps.params.FireInterval > 0 && tick%ps.params.FireInterval == 0 {
		ps.spawnVolley()
	}
	ps.advance()
	return ps.Hits(actor)
}

// spawnVolley fires one projectile from every turret, just outside the
// turret cell's firing face.
func (ps *ProjectileSystem) spawnVolley() {
	for _, t := range ps.turrets {
		dx, dy := t.Dir.Vector()
		cx, cy := level.CellCenter(t.Cell)

		body := components.ProjectileBody{HalfW: ps.params.HalfThickness, HalfH: ps.params.HalfLength, Dir: t.Dir}
		if t.Dir.Horizontal() {
			body.HalfW, body.HalfH = ps.params.HalfLength, ps.params.HalfThickness
		}
		offset := level.CellSize/2 + ps.params.HalfLength
		pos := components.Position{X: cx + dx*offset, Y: cy + dy*offset}
		vel := components.Velocity{X: dx * ps.params.Speed, Y: dy * ps.params.Speed}
		ps.mapper.NewEntity(&pos, &vel, &body)
	}
}

// advance moves every projectile and removes those that left the grid or
// entered a blocking cell other than a turret.
func (ps *ProjectileSystem) advance() {
	ps.toRemove = ps.toRemove[:0]

	query := ps.filter.Query()
	for query.Next() {
		pos, vel, _ := query.Get()
		pos.X += vel.X * ps.params.DT
		pos.Y += vel.Y * ps.params.DT

		c := level.CellAt(pos.X, pos.Y)
		if !ps.grid.InBounds(c.X, c.Y) {
			ps.toRemove = append(ps.toRemove, query.Entity())
			continue
		}
		if k := ps.grid.At(c.X, c.Y); k.IsBlocking() && k != level.Turret {
			ps.toRemove = append(ps.toRemove, query.Entity())
		}
	}

	// Remove after iteration completes
	for _, e := range ps.toRemove {
		ps.world.RemoveEntity(e)
	}
}

// Hits reports whether any live projectile overlaps box.
func (ps *ProjectileSystem) Hits(box components.Box) bool {
	hit := false
	query := ps.filter.Query()
	for query.Next() {
		if hit {
			continue // drain so the query closes
		}
		pos, _, body := query.Get()
		if body.Box(*pos).Overlaps(box) {
			hit = true
		}
	}
	return hit
}

// Reset removes every live projectile.
func (ps *ProjectileSystem) Reset() {
	ps.toRemove = ps.toRemove[:0]
	query := ps.filter.Query()
	for query.Next() {
		ps.toRemove = append(ps.toRemove, query.Entity())
	}
	for _, e := range ps.toRemove {
		ps.world.RemoveEntity(e)
	}
}

// Count returns the number of live projectiles.
func (ps *ProjectileSystem) Count() int {
	n := 0
	query := ps.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Snapshot appends a copy of every live projectile to dst. Renderers draw
// from the copy and never touch the world.
func (ps *ProjectileSystem) Snapshot(dst []components.Projectile) []components.Projectile {
	query := ps.filter.Query()
	for query.Next() {
		pos, vel, body := query.Get()
		dst = append(dst, components.Projectile{Pos: *pos, Vel: *vel, Body: *body})
	}
	return dst
}
