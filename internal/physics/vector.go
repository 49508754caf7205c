package physics

import "math"

// Vector is a polar 2D quantity (velocity or impulse), never a position.
//
// Angle 0 points up the screen (-y), Pi/2 points right (+x). Magnitude may
// be negative until it is folded back through Compose.
type Vector struct {
	Angle     float64 `json:"angle"`
	Magnitude float64 `json:"magnitude"`
}

// Compose adds two polar vectors by summing their Cartesian components.
// The result always has a non-negative magnitude.
func Compose(a, b Vector) Vector {
	ax, ay := a.Components()
	bx, by := b.Components()
	return FromComponents(ax+bx, ay+by)
}

// Add is Compose with v as the left operand
func (v Vector) Add(other Vector) Vector {
	return Compose(v, other)
}

// Components returns (sin(angle)*mag, cos(angle)*mag)
func (v Vector) Components() (dx, dy float64) {
	return math.Sin(v.Angle) * v.Magnitude, math.Cos(v.Angle) * v.Magnitude
}

// FromComponents converts Cartesian components back to polar form
func FromComponents(dx, dy float64) Vector {
	return Vector{
		Angle:     0.5*math.Pi - math.Atan2(dy, dx),
		Magnitude: math.Hypot(dx, dy),
	}
}

// Scale multiplies the magnitude, keeping the angle
func (v Vector) Scale(factor float64) Vector {
	return Vector{Angle: v.Angle, Magnitude: v.Magnitude * factor}
}

// IsZero reports whether the vector has no magnitude
func (v Vector) IsZero() bool {
	return v.Magnitude == 0
}

// ScreenDelta returns the screen-space displacement (+y down) one step of v produces
func (v Vector) ScreenDelta() (dx, dy float64) {
	return math.Sin(v.Angle) * v.Magnitude, -math.Cos(v.Angle) * v.Magnitude
}
