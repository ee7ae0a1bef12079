// Package neural provides the fixed-topology feedforward policy network.
package neural

import (
	"fmt"
	"math"
	"math/rand"
)

// Network dimensions (compile-time constants for array sizing).
const (
	NumInputs  = 8  // position (2), velocity (2), target offset (2), ground, obstacle
	NumHidden  = 12 // single hidden layer
	NumOutputs = 3  // left, right, jump
)

// Output indices.
const (
	OutLeft = iota
	OutRight
	OutJump
)

// DecisionThreshold is the activation above which an output is held.
const DecisionThreshold = 0.5

// Policy is a two-layer feedforward network with sigmoid activations on
// both layers. Weights and biases are its only state.
type Policy struct {
	W1 [NumHidden][NumInputs]float64  // input -> hidden weights
	B1 [NumHidden]float64             // hidden biases
	W2 [NumOutputs][NumHidden]float64 // hidden -> output weights
	B2 [NumOutputs]float64            // output biases
}

// NewPolicy creates a randomly initialized network.
func NewPolicy(rng *rand.Rand) *Policy {
	nn := &Policy{}
	// Xavier initialization
	scale1 := math.Sqrt(2.0 / float64(NumInputs))
	scale2 := math.Sqrt(2.0 / float64(NumHidden))

	for i := range nn.W1 {
		for j := range nn.W1[i] {
			nn.W1[i][j] = rng.NormFloat64() * scale1
		}
		nn.B1[i] = 0
	}

	for i := range nn.W2 {
		for j := range nn.W2[i] {
			nn.W2[i][j] = rng.NormFloat64() * scale2
		}
		nn.B2[i] = rng.NormFloat64() * 0.5
	}

	return nn
}

// Forward computes the three sigmoid outputs.
func (nn *Policy) Forward(inputs *[NumInputs]float64) [NumOutputs]float64 {
	var hidden [NumHidden]float64
	for i := 0; i < NumHidden; i++ {
		sum := nn.B1[i]
		for j := 0; j < NumInputs; j++ {
			sum += nn.W1[i][j] * inputs[j]
		}
		hidden[i] = sigmoid(sum)
	}

	var outputs [NumOutputs]float64
	for i := 0; i < NumOutputs; i++ {
		sum := nn.B2[i]
		for j := 0; j < NumHidden; j++ {
			sum += nn.W2[i][j] * hidden[j]
		}
		outputs[i] = sigmoid(sum)
	}
	return outputs
}

// Decide thresholds each output independently. Left and right may both be
// held; the caller decides how to resolve that.
func (nn *Policy) Decide(inputs *[NumInputs]float64) (left, right, jump bool) {
	out := nn.Forward(inputs)
	return out[OutLeft] > DecisionThreshold, out[OutRight] > DecisionThreshold, out[OutJump] > DecisionThreshold
}

// Activations holds captured intermediate layer values.
type Activations struct {
	Inputs  [NumInputs]float64
	Hidden  [NumHidden]float64
	Outputs [NumOutputs]float64
}

// ForwardWithCapture computes the network output and captures all layer
// activations for display.
func (nn *Policy) ForwardWithCapture(inputs *[NumInputs]float64) Activations {
	var act Activations
	act.Inputs = *inputs

	for i := 0; i < NumHidden; i++ {
		sum := nn.B1[i]
		for j := 0; j < NumInputs; j++ {
			sum += nn.W1[i][j] * inputs[j]
		}
		act.Hidden[i] = sigmoid(sum)
	}
	for i := 0; i < NumOutputs; i++ {
		sum := nn.B2[i]
		for j := 0; j < NumHidden; j++ {
			sum += nn.W2[i][j] * act.Hidden[j]
		}
		act.Outputs[i] = sigmoid(sum)
	}
	return act
}

// MutateSparse perturbs each weight and bias independently with probability
// rate by a uniform amount in [-magnitude, +magnitude]. Returns the number
// of parameters changed.
func (nn *Policy) MutateSparse(rng *rand.Rand, rate, magnitude float64) int {
	count := 0
	perturb := func(v *float64) {
		if rng.Float64() < rate {
			*v += (rng.Float64()*2 - 1) * magnitude
			count++
		}
	}

	for i := range nn.W1 {
		for j := range nn.W1[i] {
			perturb(&nn.W1[i][j])
		}
		perturb(&nn.B1[i])
	}
	for i := range nn.W2 {
		for j := range nn.W2[i] {
			perturb(&nn.W2[i][j])
		}
		perturb(&nn.B2[i])
	}
	return count
}

// Clone creates a deep copy of the network.
func (nn *Policy) Clone() *Policy {
	clone := *nn
	return &clone
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// PolicyWeights holds flattened network weights for serialization.
type PolicyWeights struct {
	W1 []float64 `json:"w1"` // [NumHidden * NumInputs]
	B1 []float64 `json:"b1"` // [NumHidden]
	W2 []float64 `json:"w2"` // [NumOutputs * NumHidden]
	B2 []float64 `json:"b2"` // [NumOutputs]
}

// MarshalWeights flattens the network weights for JSON serialization.
func (nn *Policy) MarshalWeights() PolicyWeights {
	pw := PolicyWeights{
		W1: make([]float64, NumHidden*NumInputs),
		B1: make([]float64, NumHidden),
		W2: make([]float64, NumOutputs*NumHidden),
		B2: make([]float64, NumOutputs),
	}

	for i := 0; i < NumHidden; i++ {
		for j := 0; j < NumInputs; j++ {
			pw.W1[i*NumInputs+j] = nn.W1[i][j]
		}
	}
	copy(pw.B1, nn.B1[:])

	for i := 0; i < NumOutputs; i++ {
		for j := 0; j < NumHidden; j++ {
			pw.W2[i*NumHidden+j] = nn.W2[i][j]
		}
	}
	copy(pw.B2, nn.B2[:])

	return pw
}

// UnmarshalWeights restores network weights from flattened form. Every
// slice must have exactly the length of the fixed topology.
func UnmarshalWeights(pw PolicyWeights) (*Policy, error) {
	switch {
	case len(pw.W1) != NumHidden*NumInputs:
		return nil, fmt.Errorf("neural: w1 has %d values, want %d", len(pw.W1), NumHidden*NumInputs)
	case len(pw.B1) != NumHidden:
		return nil, fmt.Errorf("neural: b1 has %d values, want %d", len(pw.B1), NumHidden)
	case len(pw.W2) != NumOutputs*NumHidden:
		return nil, fmt.Errorf("neural: w2 has %d values, want %d", len(pw.W2), NumOutputs*NumHidden)
	case len(pw.B2) != NumOutputs:
		return nil, fmt.Errorf("neural: b2 has %d values, want %d", len(pw.B2), NumOutputs)
	}

	nn := &Policy{}
	for i := 0; i < NumHidden; i++ {
		for j := 0; j < NumInputs; j++ {
			nn.W1[i][j] = pw.W1[i*NumInputs+j]
		}
	}
	copy(nn.B1[:], pw.B1)

	for i := 0; i < NumOutputs; i++ {
		for j := 0; j < NumHidden; j++ {
			nn.W2[i][j] = pw.W2[i*NumHidden+j]
		}
	}
	copy(nn.B2[:], pw.B2)

	return nn, nil
}
