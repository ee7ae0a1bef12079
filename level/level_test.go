package level

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	data := []byte(`
name: corridor
rows:
  - "........"
  - ".S...T.F"
  - "==~~^==="
turrets:
  - {x: 5, y: 1, dir: up}
`)
	lv, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if lv.Name != "corridor" {
		t.Errorf("name = %q, want corridor", lv.Name)
	}
	g := lv.Grid
	if g.Width() != 8 || g.Height() != 3 {
		t.Fatalf("size = %dx%d, want 8x3", g.Width(), g.Height())
	}

	tests := []struct {
		x, y int
		want TileKind
	}{
		{1, 1, Start},
		{7, 1, Finish},
		{5, 1, Turret},
		{2, 2, Lava},
		{4, 2, Bounce},
		{0, 2, Ground},
		{0, 0, Empty},
		{-1, 0, Block}, // outside reads as Block
		{0, 3, Block},
	}
	for _, tc := range tests {
		if got := g.At(tc.x, tc.y); got != tc.want {
			t.Errorf("At(%d,%d) = %s, want %s", tc.x, tc.y, got, tc.want)
		}
	}

	dir, ok := g.TurretDirection(C(5, 1))
	if !ok || dir != DirUp {
		t.Errorf("turret direction = %v (ok=%v), want up", dir, ok)
	}
}

func TestParseRejectsUnknownGlyph(t *testing.T) {
	_, err := FromRows("bad", []string{"S?F"}, nil)
	if err == nil {
		t.Fatal("expected error for unknown glyph")
	}
}

func TestParseRejectsStrayTurretEntry(t *testing.T) {
	_, err := FromRows("bad", []string{"S.F"}, []YAMLTurret{{X: 1, Y: 0, Dir: "left"}})
	if err == nil {
		t.Fatal("expected error for turret entry on empty tile")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name          string
		rows          []string
		wantErr       bool
		wantMissing   []TileKind
		wantDuplicate []TileKind
	}{
		{"valid", []string{"S.F", "==="}, false, nil, nil},
		{"missing both", []string{"...", "==="}, true, []TileKind{Start, Finish}, nil},
		{"missing finish", []string{"S..", "==="}, true, []TileKind{Finish}, nil},
		{"two starts", []string{"SSF", "==="}, true, nil, []TileKind{Start}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lv, err := FromRows(tc.name, tc.rows, nil)
			if err != nil {
				t.Fatalf("FromRows() failed: %v", err)
			}
			err = Validate(lv.Grid)
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if len(verr.Missing) != len(tc.wantMissing) {
				t.Errorf("missing = %v, want %v", verr.Missing, tc.wantMissing)
			}
			if len(verr.Duplicate) != len(tc.wantDuplicate) {
				t.Errorf("duplicate = %v, want %v", verr.Duplicate, tc.wantDuplicate)
			}
			for _, k := range tc.wantMissing {
				if !strings.Contains(err.Error(), k.String()) {
					t.Errorf("error %q does not name %s", err.Error(), k)
				}
			}
		})
	}
}

func TestClassificationExhaustive(t *testing.T) {
	for k := TileKind(0); k < NumTileKinds; k++ {
		// Must not panic for any known kind.
		_ = k.IsBlocking()
		_ = k.IsHazard()
		_ = k.IsFinish()
		_ = k.IsBounce()
	}
	if Lava.IsBlocking() {
		t.Error("lava must not block")
	}
	if !Turret.IsBlocking() || !Bounce.IsBlocking() {
		t.Error("turret and bounce tiles must block")
	}
	if Bounce.IsHazard() || !Lava.IsHazard() {
		t.Error("only lava is a hazard tile")
	}
	if !Ground.IsSolidGround() || Lava.IsSolidGround() || Empty.IsSolidGround() {
		t.Error("standable classification wrong")
	}
}

func TestHashStableAcrossRoundTrip(t *testing.T) {
	lv, err := FromRows("x", []string{"S.T.F", "====="}, []YAMLTurret{{X: 2, Y: 0, Dir: "down"}})
	if err != nil {
		t.Fatalf("FromRows() failed: %v", err)
	}
	data, err := Encode(lv)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if Hash(lv.Grid) != Hash(back.Grid) {
		t.Error("hash changed after encode/parse")
	}

	back.Grid.SetTurret(2, 0, DirUp)
	if Hash(lv.Grid) == Hash(back.Grid) {
		t.Error("hash ignores turret direction")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := NewGrid(3, 1)
	g.Set(0, 0, Start)
	c := g.Clone()
	c.Set(0, 0, Lava)
	if g.At(0, 0) != Start {
		t.Error("Clone shares cell storage")
	}
}

func TestBundledLevelsValid(t *testing.T) {
	paths, err := filepath.Glob("../levels/*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no bundled levels found")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			lv, err := Load(path)
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			if err := Validate(lv.Grid); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}
