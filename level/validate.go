package level

import (
	"fmt"
	"strings"
)

// ValidationError reports the tiles that stop a level from being played or
// trained on.
type ValidationError struct {
	Missing   []TileKind // required tiles that were not painted
	Duplicate []TileKind // tiles that must be unique but appear more than once
}

func (e *ValidationError) Error() string {
	var parts []string
	for _, k := range e.Missing {
		parts = append(parts, fmt.Sprintf("missing %s tile", k))
	}
	for _, k := range e.Duplicate {
		parts = append(parts, fmt.Sprintf("more than one %s tile", k))
	}
	return "level: " + strings.Join(parts, ", ")
}

// Validate checks that the grid has exactly one Start and one Finish tile.
// It returns a *ValidationError listing every problem at once.
func Validate(g *Grid) error {
	if g == nil {
		return &ValidationError{Missing: []TileKind{Start, Finish}}
	}
	verr := &ValidationError{}
	for _, k := range []TileKind{Start, Finish} {
		switch n := len(g.Find(k)); {
		case n == 0:
			verr.Missing = append(verr.Missing, k)
		case n > 1:
			verr.Duplicate = append(verr.Duplicate, k)
		}
	}
	if len(verr.Missing) == 0 && len(verr.Duplicate) == 0 {
		return nil
	}
	return verr
}
