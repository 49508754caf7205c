package physics

import "math"

// Joint is a point mass moving in screen space
type Joint struct {
	X, Y       float64
	Size       float64 // collision radius
	Mass       float64
	Speed      float64
	Angle      float64 // direction of travel
	Elasticity float64 // fraction of speed kept after a bounce or collision
	Drag       float64 // per-step speed multiplier when drag is enabled
}

// ContactKind is the outcome of a pairwise collision test
type ContactKind uint8

const (
	NoContact ContactKind = iota
	Touching
	// Degenerate means the centers (nearly) coincided, so the contact normal
	// was picked arbitrarily.
	Degenerate
)

func (k ContactKind) String() string {
	switch k {
	case Touching:
		return "touching"
	case Degenerate:
		return "degenerate"
	default:
		return "none"
	}
}

// dragFor derives the drag multiplier from mass and the environment air mass
func dragFor(mass, airMass, exponent float64) float64 {
	return math.Pow(mass/(mass+airMass), exponent)
}

// Velocity returns the joint's velocity as a polar vector
func (j *Joint) Velocity() Vector {
	return Vector{Angle: j.Angle, Magnitude: j.Speed}
}

func (j *Joint) setVelocity(v Vector) {
	j.Angle = v.Angle
	j.Speed = v.Magnitude
}

// Accelerate composes the current velocity with accel
func (j *Joint) Accelerate(accel Vector) {
	j.setVelocity(Compose(j.Velocity(), accel))
}

// Integrate advances the position by one step of the current velocity.
// dt does not scale the step.
func (j *Joint) Integrate(dt float64) {
	j.X += math.Sin(j.Angle) * j.Speed
	j.Y -= math.Cos(j.Angle) * j.Speed
}

// IntegrateScaled advances the position by velocity*dt
func (j *Joint) IntegrateScaled(dt float64) {
	step := j.Speed * dt
	j.X += math.Sin(j.Angle) * step
	j.Y -= math.Cos(j.Angle) * step
}

// ExperienceDrag decays the speed by the joint's drag factor
func (j *Joint) ExperienceDrag() {
	j.Speed *= j.Drag
}

// Bounce reflects the joint off the arena walls. The x axis is handled
// before the y axis, so a corner hit applies both reflections.
func (j *Joint) Bounce(width, height float64) bool {
	hit := false
	if j.X > width-j.Size {
		j.X = width - j.Size
		j.Angle = -j.Angle
		j.Speed *= j.Elasticity
		hit = true
	} else if j.X < j.Size {
		j.X = j.Size
		j.Angle = -j.Angle
		j.Speed *= j.Elasticity
		hit = true
	}
	if j.Y > height-j.Size {
		j.Y = height - j.Size
		j.Angle = math.Pi - j.Angle
		j.Speed *= j.Elasticity
		hit = true
	} else if j.Y < j.Size {
		j.Y = j.Size
		j.Angle = math.Pi - j.Angle
		j.Speed *= j.Elasticity
		hit = true
	}
	return hit
}

// Overlaps reports whether the two joints' circles intersect
func (j *Joint) Overlaps(other *Joint) bool {
	return math.Hypot(j.X-other.X, j.Y-other.Y) < j.Size+other.Size
}

// Collide resolves an elastic collision between two overlapping joints,
// mutating both. Separated joints are left untouched.
func (j *Joint) Collide(other *Joint) ContactKind {
	dx := j.X - other.X
	dy := j.Y - other.Y
	distance := math.Hypot(dx, dy)
	if distance >= j.Size+other.Size {
		return NoContact
	}

	kind := Touching
	if d, ok := floorDistance(distance); !ok {
		distance = d
		kind = Degenerate
	}

	angle := 0.5*math.Pi + math.Atan2(dy, dx)
	totalMass := j.Mass + other.Mass

	v1 := Compose(
		Vector{Angle: j.Angle, Magnitude: j.Speed * (j.Mass - other.Mass) / totalMass},
		Vector{Angle: angle, Magnitude: 2 * other.Speed * other.Mass / totalMass},
	)
	v2 := Compose(
		Vector{Angle: other.Angle, Magnitude: other.Speed * (other.Mass - j.Mass) / totalMass},
		Vector{Angle: angle + math.Pi, Magnitude: 2 * j.Speed * j.Mass / totalMass},
	)

	j.setVelocity(v1)
	other.setVelocity(v2)

	elasticity := j.Elasticity * other.Elasticity
	j.Speed *= elasticity
	other.Speed *= elasticity

	// +1.0 pushes the pair slightly past exact contact
	overlap := 0.5 * (j.Size + other.Size - distance + 1.0)
	sin, cos := math.Sin(angle), math.Cos(angle)
	j.X += sin * overlap
	j.Y -= cos * overlap
	other.X -= sin * overlap
	other.Y += cos * overlap

	return kind
}

// Combine merges other into j when they overlap. other is not modified; the
// caller decides whether to remove it. Mass grows by the combined total.
func (j *Joint) Combine(other Joint) bool {
	if !j.Overlaps(&other) {
		return false
	}
	totalMass := j.Mass + other.Mass
	j.X = (j.X*j.Mass + other.X*other.Mass) / totalMass
	j.Y = (j.Y*j.Mass + other.Y*other.Mass) / totalMass
	j.setVelocity(Compose(
		Vector{Angle: j.Angle, Magnitude: j.Speed * j.Mass / totalMass},
		Vector{Angle: other.Angle, Magnitude: other.Speed * other.Mass / totalMass},
	))
	j.Mass += totalMass
	return true
}

// Attract pulls both joints toward each other with an inverse-square force.
// It returns false when the distance had to be floored.
func (j *Joint) Attract(other *Joint) bool {
	dx := j.X - other.X
	dy := j.Y - other.Y
	distance, ok := floorDistance(math.Hypot(dx, dy))
	theta := math.Atan2(dy, dx)
	force := 0.2 * j.Mass * other.Mass / (distance * distance)

	j.Accelerate(Vector{Angle: theta - 0.5*math.Pi, Magnitude: force / j.Mass})
	other.Accelerate(Vector{Angle: theta + 0.5*math.Pi, Magnitude: force / other.Mass})
	return ok
}

// MoveTo points the joint at (x, y) with a speed of a tenth of the distance
func (j *Joint) MoveTo(x, y float64) {
	dx := x - j.X
	dy := y - j.Y
	j.Angle = math.Atan2(dy, dx) + 0.5*math.Pi
	j.Speed = math.Hypot(dx, dy) * 0.1
}

// Contains reports whether (x, y) lies strictly inside the joint's radius
func (j *Joint) Contains(x, y float64) bool {
	return math.Hypot(x-j.X, y-j.Y) < j.Size
}

// Momentum returns mass*velocity as a polar vector
func (j *Joint) Momentum() Vector {
	return Vector{Angle: j.Angle, Magnitude: j.Speed * j.Mass}
}

// KineticEnergy returns 0.5*m*v²
func (j *Joint) KineticEnergy() float64 {
	return 0.5 * j.Mass * j.Speed * j.Speed
}
