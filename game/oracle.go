package game

import "github.com/landonWcummings/landoncummings.com-sub000/genome"

// Oracle is the only judge of success: a genome solves the course when a
// full-horizon rollout reaches the finish before any hazard or projectile
// contact.
type Oracle struct {
	course *Course
}

// NewOracle returns an oracle for c.
func NewOracle(c *Course) *Oracle {
	return &Oracle{course: c}
}

// Verify replays gen for up to horizon ticks.
func (o *Oracle) Verify(gen *genome.Genome, horizon int) bool {
	r := newRollout(o.course)
	for r.ep.TickCount() < horizon {
		switch r.step(gen) {
		case Finished:
			return true
		case Died:
			return false
		}
	}
	return false
}
