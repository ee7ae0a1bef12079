package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/landonWcummings/landoncummings.com-sub000/components"
	"github.com/landonWcummings/landoncummings.com-sub000/config"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
)

func testParams() PhysicsParams {
	return NewPhysicsParams(config.Default())
}

func mustGrid(t *testing.T, rows ...string) *level.Grid {
	t.Helper()
	lv, err := level.FromRows("test", rows, nil)
	if err != nil {
		t.Fatalf("FromRows() failed: %v", err)
	}
	return lv.Grid
}

func spawn(t *testing.T, g *level.Grid, p PhysicsParams) components.ActorState {
	t.Helper()
	c, ok := g.StartCell()
	if !ok {
		t.Fatal("grid has no start tile")
	}
	return components.SpawnActor(c, p.HalfW, p.HalfH)
}

func TestStepLandsOnGround(t *testing.T) {
	p := testParams()
	g := mustGrid(t,
		"......",
		".S..F.",
		"======",
	)
	s := spawn(t, g, p)
	for i := 0; i < 60; i++ {
		s = Step(g, s, components.NoOp, p)
	}
	if !s.OnGround {
		t.Fatal("actor should be grounded after falling onto floor")
	}
	if s.VY != 0 {
		t.Errorf("VY = %v, want 0 while grounded", s.VY)
	}
	if got := s.Y + s.HalfH; math.Abs(got-2*level.CellSize) > 1e-9 {
		t.Errorf("feet at %v, want %v", got, 2*level.CellSize)
	}
}

func TestStepWallStopsHorizontal(t *testing.T) {
	p := testParams()
	g := mustGrid(t,
		"#.....",
		"#S..F.",
		"======",
	)
	s := spawn(t, g, p)
	for i := 0; i < 60; i++ {
		s = Step(g, s, components.Left, p)
	}
	if got := s.X - s.HalfW; math.Abs(got-level.CellSize) > 1e-9 {
		t.Errorf("left edge at %v, want wall face %v", got, level.CellSize)
	}
	if s.VX != 0 {
		t.Errorf("VX = %v, want 0 against wall", s.VX)
	}
}

func TestStepBounce(t *testing.T) {
	p := testParams()
	g := mustGrid(t,
		"......",
		"......",
		".S..F.",
		"=^====",
	)
	s := spawn(t, g, p)
	bounced := false
	for i := 0; i < 60 && !bounced; i++ {
		s = Step(g, s, components.NoOp, p)
		if s.VY < 0 {
			bounced = true
		}
	}
	if !bounced {
		t.Fatal("actor never bounced")
	}
	if s.VY != -p.BounceSpeed {
		t.Errorf("VY = %v, want %v", s.VY, -p.BounceSpeed)
	}
	if s.OnGround {
		t.Error("bounce must leave actor airborne")
	}
}

func TestStepJumpOnlyWhenGrounded(t *testing.T) {
	p := testParams()
	g := mustGrid(t,
		"......",
		"......",
		"......",
		".S..F.",
		"======",
	)
	s := spawn(t, g, p)

	// Still falling from spawn: jump must not fire
	s = Step(g, s, components.Jump, p)
	if s.VY < 0 {
		t.Fatalf("jump fired in mid-air, VY = %v", s.VY)
	}

	for !s.OnGround {
		s = Step(g, s, components.NoOp, p)
	}
	s = Step(g, s, components.Jump, p)
	if s.VY >= 0 {
		t.Errorf("grounded jump did not launch, VY = %v", s.VY)
	}
}

func TestStepCeilingStopsRise(t *testing.T) {
	p := testParams()
	g := mustGrid(t,
		"######",
		"......",
		".S..F.",
		"======",
	)
	s := spawn(t, g, p)
	for !s.OnGround {
		s = Step(g, s, components.NoOp, p)
	}
	for i := 0; i < 40; i++ {
		s = Step(g, s, components.Jump, p)
		if top := s.Y - s.HalfH; top < level.CellSize-1e-9 {
			t.Fatalf("tick %d: head at %v passed ceiling at %v", i, top, level.CellSize)
		}
	}
}

func TestStepTerminalFlags(t *testing.T) {
	p := testParams()
	tests := []struct {
		name       string
		rows       []string
		action     components.Action
		wantHazard bool
		wantFinish bool
	}{
		{"lava below", []string{"...", ".S.", "~~~", "===", ".F."}, components.NoOp, true, false},
		{"finish right", []string{"....", ".SF.", "===="}, components.Right, false, true},
		{"idle on ground", []string{"....", ".S.F", "===="}, components.NoOp, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := mustGrid(t, tc.rows...)
			s := spawn(t, g, p)
			for i := 0; i < 60 && !s.Terminal(); i++ {
				s = Step(g, s, tc.action, p)
			}
			if s.TouchedHazard != tc.wantHazard {
				t.Errorf("TouchedHazard = %v, want %v", s.TouchedHazard, tc.wantHazard)
			}
			if s.ReachedFinish != tc.wantFinish {
				t.Errorf("ReachedFinish = %v, want %v", s.ReachedFinish, tc.wantFinish)
			}
		})
	}
}

func TestStepDeterminism(t *testing.T) {
	p := testParams()
	g := mustGrid(t,
		"............",
		"......##....",
		".S....##..F.",
		"===~~=====^=",
	)
	rng := rand.New(rand.NewSource(7))
	actions := make([]components.Action, 600)
	for i := range actions {
		actions[i] = components.Action(rng.Intn(int(components.NumActions)))
	}

	run := func() []components.ActorState {
		s := spawn(t, g, p)
		out := make([]components.ActorState, 0, len(actions))
		for _, a := range actions {
			s = Step(g, s, a, p)
			out = append(out, s)
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("tick %d diverged: %+v vs %+v", i, a[i], b[i])
		}
	}
}

// randomGrid paints a random level with a start and finish on free cells.
func randomGrid(rng *rand.Rand, w, h int) *level.Grid {
	palette := []level.TileKind{
		level.Empty, level.Empty, level.Empty, level.Empty, level.Empty,
		level.Ground, level.Block, level.Lava, level.Bounce, level.Turret,
	}
	g := level.NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, palette[rng.Intn(len(palette))])
		}
	}
	g.Set(rng.Intn(w), rng.Intn(h), level.Start)
	for {
		x, y := rng.Intn(w), rng.Intn(h)
		if g.At(x, y) != level.Start {
			g.Set(x, y, level.Finish)
			break
		}
	}
	return g
}

func TestStepNeverOverlapsSolid(t *testing.T) {
	p := testParams()
	for seed := int64(1); seed <= 40; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g := randomGrid(rng, 14, 9)
		s := spawn(t, g, p)

		a := components.NoOp
		for tick := 0; tick < 600; tick++ {
			if tick%5 == 0 {
				a = components.Action(rng.Intn(int(components.NumActions)))
			}
			s = Step(g, s, a, p)
			if OverlapsSolid(g, s, p.CollisionInset) {
				t.Fatalf("seed %d tick %d: actor overlaps solid tile at (%.3f, %.3f)", seed, tick, s.X, s.Y)
			}
		}
	}
}

func BenchmarkStep(b *testing.B) {
	p := NewPhysicsParams(config.Default())
	lv, _ := level.FromRows("bench", []string{
		"................",
		".S..........#.F.",
		"=====~~=========",
	}, nil)
	c, _ := lv.Grid.StartCell()
	s := components.SpawnActor(c, p.HalfW, p.HalfH)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s = Step(lv.Grid, s, components.RightJump, p)
		if s.Terminal() {
			s = components.SpawnActor(c, p.HalfW, p.HalfH)
		}
	}
}
