package game

import (
	"math"

	"github.com/landonWcummings/landoncummings.com-sub000/components"
	"github.com/landonWcummings/landoncummings.com-sub000/genome"
	"github.com/landonWcummings/landoncummings.com-sub000/level"
	"github.com/landonWcummings/landoncummings.com-sub000/neural"
)

// InputSource supplies live controls for human play.
type InputSource interface {
	Input() (left, right, jump bool)
}

// InputFunc adapts a function to InputSource.
type InputFunc func() (left, right, jump bool)

// Input implements InputSource.
func (f InputFunc) Input() (left, right, jump bool) { return f() }

// Mode selects where a session's actions come from.
type Mode uint8

const (
	ModePlay   Mode = iota // InputSource
	ModeReplay             // Genome.Decide
)

func (m Mode) String() string {
	if m == ModeReplay {
		return "replay"
	}
	return "play"
}

// Frame is a read-only copy of the session state for renderers.
type Frame struct {
	Grid        *level.Grid
	Actor       components.ActorState
	Projectiles []components.Projectile
	Checkpoints []components.Position
	Target      components.Position
	Tick        int
	Deaths      int
	Finished    bool
	Mode        Mode
}

// Session runs an episode in real time. Advance feeds it wall-clock time
// and it runs exactly one simulation tick per DT of accumulated time,
// whatever the display refresh rate.
//
// A death respawns the actor and clears projectiles. Reaching the finish
// ends the session.
type Session struct {
	course *Course
	roll   *rollout
	mode   Mode
	input  InputSource
	genome *genome.Genome

	// Genome replays that run past horizon without finishing restart.
	horizon int

	accumulator float64
	maxCatchUp  int
	deaths      int
	finished    bool

	projectiles []components.Projectile // reusable snapshot buffer
}

// NewPlaySession starts human play on c.
func NewPlaySession(c *Course, input InputSource, maxCatchUp int) *Session {
	return &Session{
		course:     c,
		roll:       newRollout(c),
		mode:       ModePlay,
		input:      input,
		maxCatchUp: max(maxCatchUp, 1),
	}
}

// NewReplaySession replays gen on c. horizon bounds each attempt; zero
// means unbounded.
func NewReplaySession(c *Course, gen *genome.Genome, horizon, maxCatchUp int) *Session {
	return &Session{
		course:     c,
		roll:       newRollout(c),
		mode:       ModeReplay,
		genome:     gen,
		horizon:    horizon,
		maxCatchUp: max(maxCatchUp, 1),
	}
}

// Advance adds elapsed seconds of real time and runs every whole tick
// owed, at most maxCatchUp of them. Time beyond the cap is dropped so a
// slow frame cannot snowball. Returns the number of ticks run.
func (s *Session) Advance(elapsed float64) int {
	if s.finished || elapsed <= 0 {
		return 0
	}
	dt := s.course.Params.Physics.DT
	s.accumulator += elapsed

	n := 0
	for s.accumulator >= dt && n < s.maxCatchUp {
		s.accumulator -= dt
		n++
		if s.tick() {
			s.accumulator = 0
			return n
		}
	}
	if s.accumulator >= dt {
		s.accumulator = math.Mod(s.accumulator, dt)
	}
	return n
}

// tick runs one step and reports whether the session just finished.
func (s *Session) tick() bool {
	var out Outcome
	switch s.mode {
	case ModeReplay:
		out = s.roll.step(s.genome)
	default:
		out = s.roll.stepAction(components.ActionFromInput(s.input.Input()))
	}

	switch {
	case out == Finished:
		s.finished = true
		return true
	case out == Died:
		s.deaths++
		s.roll.reset()
	case s.horizon > 0 && s.roll.ep.TickCount() >= s.horizon:
		s.roll.reset()
	}
	return false
}

// Finished reports whether the actor reached the finish.
func (s *Session) Finished() bool { return s.finished }

// Deaths returns the number of respawns so far.
func (s *Session) Deaths() int { return s.deaths }

// Mode returns the session mode.
func (s *Session) Mode() Mode { return s.mode }

// Frame copies the current state. The returned projectile slice is reused
// by the next call.
func (s *Session) Frame() Frame {
	s.projectiles = s.roll.ep.Projectiles(s.projectiles[:0])
	return Frame{
		Grid:        s.course.Grid,
		Actor:       s.roll.ep.Actor(),
		Projectiles: s.projectiles,
		Checkpoints: s.course.Checkpoints,
		Target:      s.roll.tracker.Target(),
		Tick:        s.roll.ep.TickCount(),
		Deaths:      s.deaths,
		Finished:    s.finished,
		Mode:        s.mode,
	}
}

// Observation returns what a policy would see on the next tick.
func (s *Session) Observation() neural.Observation {
	return s.roll.ep.Observe(s.roll.tracker.Target())
}

// Genome returns the replayed genome, or nil in play mode.
func (s *Session) Genome() *genome.Genome { return s.genome }
