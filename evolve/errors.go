package evolve

import "fmt"

// InfeasibleLevelError is returned when the generation cap is reached
// without a verified solution.
type InfeasibleLevelError struct {
	Generations int
	Evaluations int64
}

func (e *InfeasibleLevelError) Error() string {
	return fmt.Sprintf("evolve: no verified solution after %d generations (%d evaluations)", e.Generations, e.Evaluations)
}
