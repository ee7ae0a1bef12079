package genome

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/landonWcummings/landoncummings.com-sub000/components"
	"github.com/landonWcummings/landoncummings.com-sub000/neural"
)

// CodecVersion is written into every encoded genome.
const CodecVersion = 1

// ErrVersionMismatch is returned when decoding a genome written by a
// different codec version.
var ErrVersionMismatch = errors.New("genome: codec version mismatch")

type record struct {
	Version    int                   `json:"version"`
	Kind       string                `json:"kind"`
	MacroTicks int                   `json:"macro_ticks,omitempty"`
	Actions    []int                 `json:"actions,omitempty"`
	Weights    *neural.PolicyWeights `json:"weights,omitempty"`
}

// Marshal encodes a genome as JSON.
func Marshal(g *Genome) ([]byte, error) {
	r := record{Version: CodecVersion, Kind: g.Kind.String()}
	switch g.Kind {
	case ActionSequence:
		r.MacroTicks = g.MacroTicks
		r.Actions = make([]int, len(g.Actions))
		for i, a := range g.Actions {
			r.Actions[i] = int(a)
		}
	case NeuralPolicy:
		w := g.Policy.MarshalWeights()
		r.Weights = &w
	default:
		return nil, fmt.Errorf("genome: cannot encode representation %d", uint8(g.Kind))
	}
	return json.Marshal(r)
}

// Unmarshal decodes a genome written by Marshal.
func Unmarshal(data []byte) (*Genome, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("genome: decoding: %w", err)
	}
	if r.Version != CodecVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, r.Version, CodecVersion)
	}
	kind, err := ParseRepresentation(r.Kind)
	if err != nil {
		return nil, err
	}

	switch kind {
	case ActionSequence:
		actions := make([]components.Action, len(r.Actions))
		for i, v := range r.Actions {
			if v < 0 || v >= int(components.NumActions) {
				return nil, fmt.Errorf("genome: action %d at step %d out of range", v, i)
			}
			actions[i] = components.Action(v)
		}
		return NewActionSequence(actions, r.MacroTicks), nil
	default:
		if r.Weights == nil {
			return nil, errors.New("genome: neural policy without weights")
		}
		p, err := neural.UnmarshalWeights(*r.Weights)
		if err != nil {
			return nil, err
		}
		return NewNeuralPolicy(p), nil
	}
}
