package physics

import "math"

// Spring connects two joints and pushes them back toward RestLength
type Spring struct {
	A, B       JointHandle
	RestLength float64
	Strength   float64

	// Endpoints as of the last Update, for drawing
	PosA, PosB [2]float64
}

// NewSpring creates a spring between two joint handles
func NewSpring(a, b JointHandle, restLength, strength float64) *Spring {
	return &Spring{
		A:          a,
		B:          b,
		RestLength: restLength,
		Strength:   strength,
	}
}

// Update caches the endpoints and returns the accelerations for a and b.
// Both magnitudes are divided by a's mass.
func (s *Spring) Update(a, b Joint) (Vector, Vector) {
	s.PosA = [2]float64{a.X, a.Y}
	s.PosB = [2]float64{b.X, b.Y}

	dx := a.X - b.X
	dy := a.Y - b.Y
	distance := math.Hypot(dx, dy)
	theta := math.Atan2(dy, dx)
	force := (s.RestLength - distance) * s.Strength

	return Vector{Angle: theta + 0.5*math.Pi, Magnitude: force / a.Mass},
		Vector{Angle: theta - 0.5*math.Pi, Magnitude: force / a.Mass}
}

// Extension returns current length minus rest length from the cached endpoints
func (s *Spring) Extension() float64 {
	return math.Hypot(s.PosA[0]-s.PosB[0], s.PosA[1]-s.PosB[1]) - s.RestLength
}

// References reports whether either end of the spring is h
func (s *Spring) References(h JointHandle) bool {
	return s.A == h || s.B == h
}
