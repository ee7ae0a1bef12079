package neural

import (
	"encoding/json"
	"math/rand"
	"testing"
)

func testInputs() [NumInputs]float64 {
	return [NumInputs]float64{-0.5, 0.25, 1, -1, 0.3, -0.2, 1, -0.7}
}

func TestForwardRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nn := NewPolicy(rng)
	in := testInputs()

	out := nn.Forward(&in)
	for i, v := range out {
		if v <= 0 || v >= 1 {
			t.Errorf("output %d = %f, want in (0,1)", i, v)
		}
	}
}

func TestForwardDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nn := NewPolicy(rng)
	in := testInputs()

	a := nn.Forward(&in)
	b := nn.Forward(&in)
	if a != b {
		t.Errorf("Forward not deterministic: %v vs %v", a, b)
	}
	if act := nn.ForwardWithCapture(&in); act.Outputs != a {
		t.Errorf("ForwardWithCapture outputs %v, Forward %v", act.Outputs, a)
	}
}

func TestDecideThresholds(t *testing.T) {
	nn := &Policy{}
	// Zero weights: hidden = 0.5; outputs follow the output biases alone
	nn.B2 = [NumOutputs]float64{2, -2, 0.1}
	in := testInputs()

	left, right, jump := nn.Decide(&in)
	if !left || right || !jump {
		t.Errorf("Decide() = (%v, %v, %v), want (true, false, true)", left, right, jump)
	}
}

func TestMutateSparse(t *testing.T) {
	tests := []struct {
		name      string
		rate      float64
		wantAll   bool
		wantNone  bool
		magnitude float64
	}{
		{"zero rate", 0, false, true, 0.5},
		{"full rate", 1, true, false, 0.5},
	}

	total := NumHidden*NumInputs + NumHidden + NumOutputs*NumHidden + NumOutputs
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(1))
			nn := NewPolicy(rng)
			orig := nn.Clone()

			n := nn.MutateSparse(rng, tc.rate, tc.magnitude)
			if tc.wantNone && (n != 0 || *nn != *orig) {
				t.Errorf("rate 0 changed %d parameters", n)
			}
			if tc.wantAll && n != total {
				t.Errorf("rate 1 changed %d parameters, want %d", n, total)
			}
			for i := range nn.W1 {
				for j := range nn.W1[i] {
					if d := nn.W1[i][j] - orig.W1[i][j]; d > tc.magnitude || d < -tc.magnitude {
						t.Fatalf("W1[%d][%d] moved by %f, beyond magnitude %f", i, j, d, tc.magnitude)
					}
				}
			}
		})
	}
}

func TestCloneIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	nn := NewPolicy(rng)
	c := nn.Clone()
	c.W1[0][0] += 1
	if nn.W1[0][0] == c.W1[0][0] {
		t.Error("Clone shares weight storage")
	}
}

// TestWeightsRoundTrip encodes a policy through JSON and checks the decoded
// network produces identical outputs.
func TestWeightsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	nn := NewPolicy(rng)
	in := testInputs()
	before := nn.Forward(&in)

	data, err := json.Marshal(nn.MarshalWeights())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var pw PolicyWeights
	if err := json.Unmarshal(data, &pw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	back, err := UnmarshalWeights(pw)
	if err != nil {
		t.Fatalf("UnmarshalWeights: %v", err)
	}

	if after := back.Forward(&in); after != before {
		t.Errorf("outputs changed across round trip: %v vs %v", before, after)
	}
	if *back != *nn {
		t.Error("weights changed across round trip")
	}
}

func TestUnmarshalWeightsRejectsWrongShape(t *testing.T) {
	pw := (&Policy{}).MarshalWeights()
	pw.B1 = pw.B1[:NumHidden-1]
	if _, err := UnmarshalWeights(pw); err == nil {
		t.Error("expected error for truncated b1")
	}
}

func BenchmarkForward(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	nn := NewPolicy(rng)
	in := testInputs()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		nn.Forward(&in)
	}
}
