package components

// Position is a world-space point. y grows downward.
type Position struct {
	X, Y float64
}

// Velocity is in world units per second.
type Velocity struct {
	X, Y float64
}

// Box is an axis-aligned rectangle in world space.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// BoxAround returns the box centered on (x, y) with the given half-extents.
func BoxAround(x, y, halfW, halfH float64) Box {
	return Box{MinX: x - halfW, MinY: y - halfH, MaxX: x + halfW, MaxY: y + halfH}
}

// Inset shrinks the box by d on every side.
func (b Box) Inset(d float64) Box {
	return Box{MinX: b.MinX + d, MinY: b.MinY + d, MaxX: b.MaxX - d, MaxY: b.MaxY - d}
}

// Overlaps reports whether the interiors of a and b intersect.
// Boxes that only share an edge do not overlap.
func (b Box) Overlaps(o Box) bool {
	return b.MinX < o.MaxX && o.MinX < b.MaxX && b.MinY < o.MaxY && o.MinY < b.MaxY
}
