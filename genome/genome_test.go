package genome

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/landonWcummings/landoncummings.com-sub000/components"
	"github.com/landonWcummings/landoncummings.com-sub000/neural"
)

func TestActionSequenceDecideClampsToLast(t *testing.T) {
	g := NewActionSequence([]components.Action{components.Right, components.Jump, components.Left}, 4)

	tests := []struct {
		tick int
		want components.Action
	}{
		{0, components.Right},
		{3, components.Right},
		{4, components.Jump},
		{8, components.Left},
		{11, components.Left},
		{500, components.Left},
	}
	for _, tt := range tests {
		obs := neural.Observation{Tick: tt.tick}
		if got := g.Decide(&obs); got != tt.want {
			t.Errorf("tick %d: got %v, want %v", tt.tick, got, tt.want)
		}
	}
}

func TestDecideInvalidActionPanics(t *testing.T) {
	g := NewActionSequence([]components.Action{components.NumActions + 3}, 1)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on out-of-range action")
		}
	}()
	g.Decide(&neural.Observation{})
}

func TestNeuralDecideDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	g := Random(rng, NeuralPolicy, 0, 0)
	obs := neural.Observation{PosX: 0.2, VelX: -0.4, TargetDX: 0.7, OnGround: 1}

	first := g.Decide(&obs)
	for i := 0; i < 10; i++ {
		if got := g.Decide(&obs); got != first {
			t.Fatalf("decision changed: %v then %v", first, got)
		}
	}
	if !first.Valid() {
		t.Errorf("decision %v is not a valid action", first)
	}
}

func TestMutateReturnsNewGenome(t *testing.T) {
	for _, kind := range []Representation{ActionSequence, NeuralPolicy} {
		t.Run(kind.String(), func(t *testing.T) {
			rng := rand.New(rand.NewSource(11))
			parent := Random(rng, kind, 50, 6)
			snapshot := parent.Clone()

			child := parent.Mutate(rng, 1.0, 0.5)
			if child == parent {
				t.Fatal("Mutate returned the parent")
			}
			if !parent.Equal(snapshot) {
				t.Error("Mutate changed the parent")
			}
		})
	}
}

func TestMutateZeroRateIsIdentity(t *testing.T) {
	for _, kind := range []Representation{ActionSequence, NeuralPolicy} {
		t.Run(kind.String(), func(t *testing.T) {
			rng := rand.New(rand.NewSource(5))
			parent := Random(rng, kind, 40, 6)
			child := parent.Mutate(rng, 0, 0.5)
			if !child.Equal(parent) {
				t.Error("zero-rate mutation changed the genome")
			}
		})
	}
}

func TestRandomActionsInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := Random(rng, ActionSequence, 1000, 6)
	seen := make(map[components.Action]bool)
	for _, a := range g.Actions {
		if !a.Valid() {
			t.Fatalf("invalid action %d", a)
		}
		seen[a] = true
	}
	if len(seen) != int(components.NumActions) {
		t.Errorf("saw %d distinct actions in 1000 draws, want %d", len(seen), components.NumActions)
	}
}

func TestParseRepresentation(t *testing.T) {
	tests := []struct {
		in      string
		want    Representation
		wantErr bool
	}{
		{"actions", ActionSequence, false},
		{"neural", NeuralPolicy, false},
		{"neural_policy", NeuralPolicy, false},
		{"genetic", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseRepresentation(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("%q: got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCodecRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for _, kind := range []Representation{ActionSequence, NeuralPolicy} {
		t.Run(kind.String(), func(t *testing.T) {
			g := Random(rng, kind, 30, 5)
			data, err := Marshal(g)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			back, err := Unmarshal(data)
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !back.Equal(g) {
				t.Error("round trip changed the genome")
			}

			// Decisions must survive the round trip too
			obs := neural.Observation{Tick: 17, PosX: -0.3, TargetDX: 0.5, Obstacle: 0.25}
			if back.Decide(&obs) != g.Decide(&obs) {
				t.Error("decoded genome decides differently")
			}
		})
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		version bool
	}{
		{"bad json", `{`, false},
		{"old version", `{"version":0,"kind":"actions","actions":[1]}`, true},
		{"unknown kind", `{"version":1,"kind":"tree"}`, false},
		{"action out of range", `{"version":1,"kind":"actions","macro_ticks":2,"actions":[1,9]}`, false},
		{"missing weights", `{"version":1,"kind":"neural"}`, false},
		{"short weights", `{"version":1,"kind":"neural","weights":{"w1":[1],"b1":[],"w2":[],"b2":[]}}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrVersionMismatch); got != tt.version {
				t.Errorf("errors.Is(ErrVersionMismatch) = %v, want %v", got, tt.version)
			}
		})
	}
}
