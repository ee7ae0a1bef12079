// Package components defines the plain data shared by the simulation systems:
// actor state, actions, and the ECS components projectiles are built from.
package components

import "fmt"

// Action is one of the six input combinations an actor can hold for a tick.
type Action uint8

const (
	NoOp Action = iota
	Left
	Right
	Jump
	LeftJump
	RightJump
	NumActions
)

// ActionFromInput folds independent left/right/jump flags into an Action.
// Holding both directions cancels horizontal movement.
func ActionFromInput(left, right, jump bool) Action {
	if left && right {
		left, right = false, false
	}
	switch {
	case left && jump:
		return LeftJump
	case right && jump:
		return RightJump
	case left:
		return Left
	case right:
		return Right
	case jump:
		return Jump
	default:
		return NoOp
	}
}

// MovesLeft reports whether the action holds left.
func (a Action) MovesLeft() bool {
	switch a {
	case Left, LeftJump:
		return true
	case NoOp, Right, Jump, RightJump:
		return false
	default:
		panic(fmt.Sprintf("components: invalid action %d", uint8(a)))
	}
}

// MovesRight reports whether the action holds right.
func (a Action) MovesRight() bool {
	switch a {
	case Right, RightJump:
		return true
	case NoOp, Left, Jump, LeftJump:
		return false
	default:
		panic(fmt.Sprintf("components: invalid action %d", uint8(a)))
	}
}

// Jumps reports whether the action holds jump.
func (a Action) Jumps() bool {
	switch a {
	case Jump, LeftJump, RightJump:
		return true
	case NoOp, Left, Right:
		return false
	default:
		panic(fmt.Sprintf("components: invalid action %d", uint8(a)))
	}
}

// Valid reports whether a is one of the six defined actions.
func (a Action) Valid() bool {
	return a < NumActions
}

func (a Action) String() string {
	switch a {
	case NoOp:
		return "noop"
	case Left:
		return "left"
	case Right:
		return "right"
	case Jump:
		return "jump"
	case LeftJump:
		return "left+jump"
	case RightJump:
		return "right+jump"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}
