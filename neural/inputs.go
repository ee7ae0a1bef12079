package neural

// Observation is what a genome sees on one tick. Tick drives action
// sequences; the remaining fields are the policy inputs, each normalized to
// roughly [-1, 1].
type Observation struct {
	Tick int

	// Self state
	PosX, PosY float64 // position across the level, -1 at the left/top edge
	VelX, VelY float64 // velocity over move speed and terminal fall speed

	// Target (next unreached checkpoint, or the finish)
	TargetDX, TargetDY float64 // offset over level size

	OnGround float64 // 1 when grounded
	Obstacle float64 // >0 wall ahead, <0 gap or hazard ahead
}

// Vector lays the inputs out in network order.
func (o *Observation) Vector() [NumInputs]float64 {
	return [NumInputs]float64{
		o.PosX, o.PosY,
		o.VelX, o.VelY,
		o.TargetDX, o.TargetDY,
		o.OnGround,
		o.Obstacle,
	}
}

// Clamp limits v to [-1, 1].
func Clamp(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
