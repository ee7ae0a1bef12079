package systems

import (
	"testing"

	"github.com/landonWcummings/landoncummings.com-sub000/components"
	"github.com/landonWcummings/landoncummings.com-sub000/config"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
)

// far is a box nowhere near any test projectile.
var far = components.BoxAround(-1000, -1000, 1, 1)

func turretGrid(t *testing.T, rows []string, turrets ...level.TurretSpec) *level.Grid {
	t.Helper()
	g := mustGrid(t, rows...)
	for _, ts := range turrets {
		g.SetTurret(ts.Cell.X, ts.Cell.Y, ts.Dir)
	}
	return g
}

func TestProjectileCadence(t *testing.T) {
	params := NewProjectileParams(config.Default())
	params.FireInterval = 10
	g := turretGrid(t, []string{
		"........................................",
		"T.......................................",
		"========================================",
	}, level.TurretSpec{Cell: level.C(0, 1), Dir: level.DirRight})

	ps := NewProjectileSystem(g, params)
	tests := []struct {
		tick int
		want int
	}{
		{0, 1},
		{1, 1},
		{9, 1},
		{10, 2},
		{20, 3},
	}
	next := 0
	for _, tc := range tests {
		for ; next <= tc.tick; next++ {
			ps.Update(next, far)
		}
		if got := ps.Count(); got != tc.want {
			t.Errorf("after tick %d: %d projectiles, want %d", tc.tick, got, tc.want)
		}
	}
}

func TestProjectileExpiry(t *testing.T) {
	params := NewProjectileParams(config.Default())
	params.FireInterval = 1000

	tests := []struct {
		name    string
		rows    []string
		turret  level.TurretSpec
		ticks   int
		wantNum int
	}{
		{
			name:    "stopped by wall",
			rows:    []string{"........", "T..#....", "========"},
			turret:  level.TurretSpec{Cell: level.C(0, 1), Dir: level.DirRight},
			ticks:   60,
			wantNum: 0,
		},
		{
			name:    "leaves grid",
			rows:    []string{".....", "....T", "====="},
			turret:  level.TurretSpec{Cell: level.C(4, 1), Dir: level.DirRight},
			ticks:   1,
			wantNum: 0,
		},
		{
			name:    "passes through turret",
			rows:    []string{"................", "T....T..........", "================"},
			turret:  level.TurretSpec{Cell: level.C(0, 1), Dir: level.DirRight},
			ticks:   45,
			wantNum: 1,
		},
		{
			name:    "fires upward into open sky",
			rows:    []string{"...", "...", "...", "...", ".T.", "==="},
			turret:  level.TurretSpec{Cell: level.C(1, 4), Dir: level.DirUp},
			ticks:   5,
			wantNum: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := turretGrid(t, tc.rows, tc.turret)
			ps := NewProjectileSystem(g, params)
			for i := 0; i < tc.ticks; i++ {
				ps.Update(i, far)
			}
			if got := ps.Count(); got != tc.wantNum {
				t.Errorf("%d projectiles live, want %d", got, tc.wantNum)
			}
		})
	}
}

func TestProjectileOrientedBody(t *testing.T) {
	params := NewProjectileParams(config.Default())
	g := turretGrid(t, []string{
		"...",
		".T.",
		"...",
		"...",
		"===",
	}, level.TurretSpec{Cell: level.C(1, 1), Dir: level.DirDown})

	ps := NewProjectileSystem(g, params)
	ps.Update(0, far)
	snap := ps.Snapshot(nil)
	if len(snap) != 1 {
		t.Fatalf("got %d projectiles, want 1", len(snap))
	}
	b := snap[0].Body
	if b.HalfH != params.HalfLength || b.HalfW != params.HalfThickness {
		t.Errorf("vertical projectile body = %+v, want long axis on y", b)
	}
	if snap[0].Vel.Y <= 0 || snap[0].Vel.X != 0 {
		t.Errorf("velocity = %+v, want straight down", snap[0].Vel)
	}
}

// TestProjectileHitUsesPreStepBox checks that a projectile overlapping the
// actor's box at the start of a tick registers even when the actor's move
// for that tick would carry it clear.
func TestProjectileHitUsesPreStepBox(t *testing.T) {
	phys := testParams()
	params := NewProjectileParams(config.Default())
	g := turretGrid(t, []string{
		"..........",
		"T.........",
		"==========",
	}, level.TurretSpec{Cell: level.C(0, 1), Dir: level.DirRight})

	// After tick 0 the projectile spans x in [36, 48]. Put the actor's
	// reduced box 1 unit inside its leading edge, standing on the floor.
	pre := components.ActorState{
		X:        47 - phys.CollisionInset + phys.HalfW,
		Y:        2*level.CellSize - phys.HalfH,
		HalfW:    phys.HalfW,
		HalfH:    phys.HalfH,
		OnGround: true,
	}
	post := Step(g, pre, components.Right, phys)

	ps := NewProjectileSystem(g, params)
	if !ps.Update(0, pre.Box().Inset(phys.CollisionInset)) {
		t.Fatal("projectile overlapping pre-step box was not detected")
	}
	if ps.Hits(post.Box().Inset(phys.CollisionInset)) {
		t.Fatal("test setup: post-step box should already be clear of the projectile")
	}
}

func TestProjectileReset(t *testing.T) {
	params := NewProjectileParams(config.Default())
	params.FireInterval = 1
	g := turretGrid(t, []string{
		"..........",
		"T........T",
		"==========",
	},
		level.TurretSpec{Cell: level.C(0, 1), Dir: level.DirRight},
		level.TurretSpec{Cell: level.C(9, 1), Dir: level.DirLeft},
	)

	ps := NewProjectileSystem(g, params)
	for i := 0; i < 5; i++ {
		ps.Update(i, far)
	}
	if ps.Count() == 0 {
		t.Fatal("expected live projectiles before reset")
	}
	ps.Reset()
	if got := ps.Count(); got != 0 {
		t.Errorf("after Reset: %d projectiles, want 0", got)
	}
	if got := len(ps.Snapshot(nil)); got != 0 {
		t.Errorf("after Reset: snapshot has %d entries, want 0", got)
	}
}
