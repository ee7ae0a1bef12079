package ui

import "testing"

func TestCommandString(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{CommandNone, "none"},
		{CommandPlay, "play"},
		{CommandTrain, "train"},
		{CommandReplay, "replay"},
		{CommandStop, "stop"},
		{Command(99), "none"},
	}
	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("Command(%d).String() = %q, want %q", tt.cmd, got, tt.want)
		}
	}
}

func TestToolbarWidth(t *testing.T) {
	tb := NewToolbar(0, 0)
	if got, want := tb.Width(), float32(4*buttonWidth+3*buttonGap); got != want {
		t.Errorf("Width() = %v, want %v", got, want)
	}
}

func TestToggleText(t *testing.T) {
	if got := toggleText(true, "a", "b"); got != "a" {
		t.Errorf("toggleText(true) = %q", got)
	}
	if got := toggleText(false, "a", "b"); got != "b" {
		t.Errorf("toggleText(false) = %q", got)
	}
}
