// Package genome defines the two searchable controller representations and
// their mutation operators.
package genome

import (
	"fmt"
	"math/rand"

	"github.com/landonWcummings/landoncummings.com-sub000/components"
	"github.com/landonWcummings/landoncummings.com-sub000/neural"
)

// Representation tags which variant a Genome holds.
type Representation uint8

const (
	ActionSequence Representation = iota
	NeuralPolicy
)

func (r Representation) String() string {
	switch r {
	case ActionSequence:
		return "actions"
	case NeuralPolicy:
		return "neural"
	default:
		return fmt.Sprintf("representation(%d)", uint8(r))
	}
}

// ParseRepresentation converts a config name to a Representation.
func ParseRepresentation(s string) (Representation, error) {
	switch s {
	case "actions", "action_sequence":
		return ActionSequence, nil
	case "neural", "neural_policy":
		return NeuralPolicy, nil
	}
	return 0, fmt.Errorf("genome: unknown representation %q", s)
}

// Genome is a tagged union over the two representations. A genome is never
// modified after construction; Mutate returns a new one.
type Genome struct {
	Kind Representation

	// ActionSequence: one action per macro-step of MacroTicks ticks.
	Actions    []components.Action
	MacroTicks int

	// NeuralPolicy
	Policy *neural.Policy
}

// NewActionSequence wraps an action list. The slice is copied.
func NewActionSequence(actions []components.Action, macroTicks int) *Genome {
	if macroTicks < 1 {
		macroTicks = 1
	}
	out := make([]components.Action, len(actions))
	copy(out, actions)
	return &Genome{Kind: ActionSequence, Actions: out, MacroTicks: macroTicks}
}

// NewNeuralPolicy wraps a network.
func NewNeuralPolicy(p *neural.Policy) *Genome {
	return &Genome{Kind: NeuralPolicy, Policy: p}
}

// Random creates a fresh genome. length and macroTicks only apply to
// action sequences.
func Random(rng *rand.Rand, kind Representation, length, macroTicks int) *Genome {
	switch kind {
	case ActionSequence:
		actions := make([]components.Action, length)
		for i := range actions {
			actions[i] = randomAction(rng)
		}
		return &Genome{Kind: ActionSequence, Actions: actions, MacroTicks: max(macroTicks, 1)}
	case NeuralPolicy:
		return NewNeuralPolicy(neural.NewPolicy(rng))
	default:
		panic(fmt.Sprintf("genome: unknown representation %d", uint8(kind)))
	}
}

// Decide picks the action for one tick.
func (g *Genome) Decide(obs *neural.Observation) components.Action {
	switch g.Kind {
	case ActionSequence:
		if len(g.Actions) == 0 {
			return components.NoOp
		}
		i := obs.Tick / g.MacroTicks
		if i >= len(g.Actions) {
			i = len(g.Actions) - 1
		}
		a := g.Actions[i]
		if !a.Valid() {
			panic(fmt.Sprintf("genome: action %d at step %d out of range", uint8(a), i))
		}
		return a
	case NeuralPolicy:
		in := obs.Vector()
		return components.ActionFromInput(g.Policy.Decide(&in))
	default:
		panic(fmt.Sprintf("genome: unknown representation %d", uint8(g.Kind)))
	}
}

// Mutate returns a mutated copy. Action sequences resample each action with
// probability rate; policies perturb each weight and bias with probability
// rate by up to magnitude.
func (g *Genome) Mutate(rng *rand.Rand, rate, magnitude float64) *Genome {
	switch g.Kind {
	case ActionSequence:
		child := g.Clone()
		for i := range child.Actions {
			if rng.Float64() < rate {
				child.Actions[i] = randomAction(rng)
			}
		}
		return child
	case NeuralPolicy:
		child := g.Clone()
		child.Policy.MutateSparse(rng, rate, magnitude)
		return child
	default:
		panic(fmt.Sprintf("genome: unknown representation %d", uint8(g.Kind)))
	}
}

// Clone returns a deep copy.
func (g *Genome) Clone() *Genome {
	out := &Genome{Kind: g.Kind, MacroTicks: g.MacroTicks}
	if g.Actions != nil {
		out.Actions = make([]components.Action, len(g.Actions))
		copy(out.Actions, g.Actions)
	}
	if g.Policy != nil {
		out.Policy = g.Policy.Clone()
	}
	return out
}

// Equal reports whether two genomes encode the same controller.
func (g *Genome) Equal(o *Genome) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.Kind != o.Kind {
		return false
	}
	switch g.Kind {
	case ActionSequence:
		if g.MacroTicks != o.MacroTicks || len(g.Actions) != len(o.Actions) {
			return false
		}
		for i := range g.Actions {
			if g.Actions[i] != o.Actions[i] {
				return false
			}
		}
		return true
	case NeuralPolicy:
		return *g.Policy == *o.Policy
	default:
		return false
	}
}

func randomAction(rng *rand.Rand) components.Action {
	return components.Action(rng.Intn(int(components.NumActions)))
}
