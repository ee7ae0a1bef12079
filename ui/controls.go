package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Command is a toolbar request for the viewer to act on.
type Command uint8

const (
	CommandNone Command = iota
	CommandPlay
	CommandTrain
	CommandReplay
	CommandStop
)

func (c Command) String() string {
	switch c {
	case CommandPlay:
		return "play"
	case CommandTrain:
		return "train"
	case CommandReplay:
		return "replay"
	case CommandStop:
		return "stop"
	default:
		return "none"
	}
}

// ToolbarState controls which buttons are live.
type ToolbarState struct {
	Training    bool
	HasSolution bool
}

const (
	buttonWidth  = 90
	buttonHeight = 28
	buttonGap    = 8
)

// Toolbar is the row of mode buttons at the top right of the window.
type Toolbar struct {
	x, y float32
}

// NewToolbar creates a toolbar anchored at (x, y).
func NewToolbar(x, y float32) *Toolbar {
	return &Toolbar{x: x, y: y}
}

// SetPosition updates the toolbar anchor.
func (t *Toolbar) SetPosition(x, y float32) {
	t.x = x
	t.y = y
}

// Width returns the pixel width of the full button row.
func (t *Toolbar) Width() float32 {
	return 4*buttonWidth + 3*buttonGap
}

// Draw renders the buttons and returns the one clicked this frame.
func (t *Toolbar) Draw(state ToolbarState) Command {
	cmd := CommandNone
	rect := func(i int) rl.Rectangle {
		return rl.Rectangle{X: t.x + float32(i)*(buttonWidth+buttonGap), Y: t.y, Width: buttonWidth, Height: buttonHeight}
	}

	if gui.Button(rect(0), "Play") {
		cmd = CommandPlay
	}
	if gui.Button(rect(1), toggleText(state.Training, "Training...", "Train")) && !state.Training {
		cmd = CommandTrain
	}
	if !state.HasSolution {
		gui.Disable()
	}
	if gui.Button(rect(2), "Replay") {
		cmd = CommandReplay
	}
	gui.Enable()

	if !state.Training {
		gui.Disable()
	}
	if gui.Button(rect(3), "Stop") {
		cmd = CommandStop
	}
	gui.Enable()

	return cmd
}

// SpeedSlider draws the replay speed slider below the toolbar and
// returns the new multiplier.
func (t *Toolbar) SpeedSlider(speed float32) float32 {
	y := t.y + buttonHeight + buttonGap
	rl.DrawText("Speed", int32(t.x), int32(y+4), 12, rl.LightGray)
	return gui.SliderBar(
		rl.Rectangle{X: t.x + 50, Y: y, Width: t.Width() - 100, Height: 20},
		"0.25x", "4x",
		speed, 0.25, 4,
	)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
