package physics

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidOptions = errors.New("invalid options")
	ErrInvalidJoint   = errors.New("invalid joint")
	ErrSelfSpring     = errors.New("spring endpoints are the same joint")
)

// Features switches individual stages of the step pipeline on or off
type Features struct {
	// Accelerate composes the global Acceleration into every joint each step.
	Accelerate bool `json:"accelerate"`
	// Attract applies inverse-square attraction to every pair of joints.
	Attract bool `json:"attract"`
	// Bounce reflects joints off the arena walls, losing speed by elasticity.
	Bounce bool `json:"bounce"`
	// Collide enables O(n²) pairwise elastic collision resolution per step.
	Collide bool `json:"collide"`
	// Combine merges overlapping joints; the later joint of a pair is removed.
	Combine bool `json:"combine"`
	// Drag multiplies every joint's speed by its drag factor each step.
	Drag bool `json:"drag"`
	// Move advances joint positions by their velocity.
	Move bool `json:"move"`
}

// Pairing selects how the pair phase visits joints
type Pairing uint8

const (
	// PairOnce visits each unordered pair once, after all joints have moved,
	// and mutates both joints.
	PairOnce Pairing = iota
	// PairReference interleaves motion and collisions per joint and visits
	// every pair twice, mutating only the second joint of each visit. It
	// matches the numbers of the first version of this simulator.
	PairReference
)

func (p Pairing) String() string {
	switch p {
	case PairReference:
		return "reference"
	default:
		return "once"
	}
}

// ParsePairing accepts "once" or "reference"
func ParsePairing(s string) (Pairing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "once":
		return PairOnce, nil
	case "reference":
		return PairReference, nil
	}
	return PairOnce, fmt.Errorf("%w: unknown pairing %q", ErrInvalidOptions, s)
}

func (p Pairing) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Pairing) UnmarshalText(text []byte) error {
	v, err := ParsePairing(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Options configures an Environment
type Options struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	// Speeds below Stable are zeroed at the end of each joint's motion.
	Stable float64 `json:"stable"`
	// AirMass feeds the drag formula (mass/(mass+airMass))^exponent.
	AirMass float64 `json:"airMass"`
	// Acceleration is applied to every joint each step (gravity, wind).
	Acceleration Vector   `json:"acceleration"`
	Features     Features `json:"features"`
	Pairing      Pairing  `json:"pairing"`
	// ScaleMotionByDT multiplies each position step by dt. Off by default:
	// positions then advance by raw speed per Update call.
	ScaleMotionByDT bool `json:"scaleMotionByDt,omitempty"`
	// DetectLines runs joint-line detection after each step.
	DetectLines bool `json:"detectLines"`
}

// DefaultOptions returns the stock configuration: downward gravity of 0.9,
// walls, collisions and motion on.
func DefaultOptions(width, height int) Options {
	return Options{
		Width:        width,
		Height:       height,
		Stable:       0.05,
		AirMass:      0.2,
		Acceleration: Vector{Angle: math.Pi, Magnitude: 0.9},
		Features: Features{
			Accelerate: true,
			Bounce:     true,
			Collide:    true,
			Move:       true,
		},
		Pairing:     PairOnce,
		DetectLines: true,
	}
}

// Validate checks that the options describe a usable arena
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: arena %dx%d", ErrInvalidOptions, o.Width, o.Height)
	}
	if o.Stable < 0 || math.IsNaN(o.Stable) {
		return fmt.Errorf("%w: stable threshold %v", ErrInvalidOptions, o.Stable)
	}
	if o.AirMass < 0 || math.IsNaN(o.AirMass) {
		return fmt.Errorf("%w: air mass %v", ErrInvalidOptions, o.AirMass)
	}
	if math.IsNaN(o.Acceleration.Angle) || math.IsNaN(o.Acceleration.Magnitude) ||
		math.IsInf(o.Acceleration.Magnitude, 0) {
		return fmt.Errorf("%w: acceleration %+v", ErrInvalidOptions, o.Acceleration)
	}
	if o.Pairing > PairReference {
		return fmt.Errorf("%w: pairing %d", ErrInvalidOptions, o.Pairing)
	}
	return nil
}
