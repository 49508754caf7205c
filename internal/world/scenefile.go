package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"springsim/internal/physics"
)

var ErrInvalidScene = errors.New("invalid scene")

// --- JSON types ---

type SceneFile struct {
	Name    string           `json:"name,omitempty"`
	Width   int              `json:"width"`
	Height  int              `json:"height"`
	Options *physics.Options `json:"options,omitempty"`
	Joints  []JointDef       `json:"joints"`
	Springs []SpringDef      `json:"springs,omitempty"`
	Lines   []physics.Line   `json:"lines,omitempty"`
}

// JointDef describes one joint. A joint with a mass uses the custom
// constructor; without one the mass is size² and elasticity 0.8.
type JointDef struct {
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Size       float64  `json:"size"`
	Mass       float64  `json:"mass,omitempty"`
	Speed      float64  `json:"speed,omitempty"`
	Angle      float64  `json:"angle,omitempty"`
	Elasticity *float64 `json:"elasticity,omitempty"`
}

// SpringDef connects two joints by their position in the joints list.
// A zero length uses the distance between the joints at load time.
type SpringDef struct {
	A        int     `json:"a"`
	B        int     `json:"b"`
	Length   float64 `json:"length,omitempty"`
	Strength float64 `json:"strength"`
}

func (d JointDef) custom() bool {
	return d.Mass > 0 || d.Elasticity != nil
}

// --- Loading ---

// LoadSceneFile reads a scene definition from disk and builds its environment
func LoadSceneFile(path string) (*physics.Environment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	env, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return env, nil
}

// ParseScene decodes a JSON scene definition and builds its environment
func ParseScene(data []byte) (*physics.Environment, error) {
	var sf SceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return sf.Build()
}

// Build creates an environment holding the scene's joints, springs and lines
func (sf SceneFile) Build() (*physics.Environment, error) {
	opts := physics.DefaultOptions(sf.Width, sf.Height)
	if sf.Options != nil {
		opts = *sf.Options
		// arena size at the top level wins over the options block
		if sf.Width > 0 {
			opts.Width = sf.Width
		}
		if sf.Height > 0 {
			opts.Height = sf.Height
		}
	}

	env, err := physics.NewEnvironmentWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}

	for i, d := range sf.Joints {
		if d.Size <= 0 || math.IsNaN(d.Size) {
			return nil, fmt.Errorf("build scene: joint %d: %w: size %v", i, ErrInvalidScene, d.Size)
		}
		if !d.custom() {
			env.AddJoint(d.X, d.Y, d.Size, d.Angle, d.Speed)
			continue
		}
		mass := d.Mass
		if mass <= 0 {
			mass = d.Size * d.Size
		}
		elasticity := 0.8
		if d.Elasticity != nil {
			elasticity = *d.Elasticity
		}
		env.AddJointCustom(d.X, d.Y, d.Size, mass, d.Speed, d.Angle, elasticity)
	}

	for i, d := range sf.Springs {
		if d.A < 0 || d.A >= len(sf.Joints) || d.B < 0 || d.B >= len(sf.Joints) {
			return nil, fmt.Errorf("build scene: spring %d: %w: joints %d-%d of %d",
				i, ErrInvalidScene, d.A, d.B, len(sf.Joints))
		}
		length := d.Length
		if length <= 0 {
			a, b := sf.Joints[d.A], sf.Joints[d.B]
			length = math.Hypot(b.X-a.X, b.Y-a.Y)
		}
		if err := env.AddSpring(d.A, d.B, length, d.Strength); err != nil {
			return nil, fmt.Errorf("build scene: spring %d: %w", i, err)
		}
	}

	for _, l := range sf.Lines {
		env.AddLine(l.StartX, l.StartY, l.EndX, l.EndY, l.Width)
	}

	return env, nil
}

// DefaultScene is the four-joint square braced by six springs, pinned
// nowhere, falling under default gravity in a 600x600 arena.
func DefaultScene() SceneFile {
	elasticity := 0.1
	corner := func(x, y float64) JointDef {
		return JointDef{X: x, Y: y, Size: 10, Mass: 600, Elasticity: &elasticity}
	}
	return SceneFile{
		Name:   "square",
		Width:  600,
		Height: 600,
		Joints: []JointDef{
			corner(300, 300),
			corner(500, 300),
			corner(500, 500),
			corner(300, 500),
		},
		Springs: []SpringDef{
			{A: 0, B: 1, Length: 100, Strength: 100},
			{A: 1, B: 2, Length: 100, Strength: 100},
			{A: 2, B: 3, Length: 100, Strength: 100},
			{A: 3, B: 0, Length: 100, Strength: 100},
			{A: 0, B: 2, Length: 100, Strength: 100},
			{A: 1, B: 3, Length: 100, Strength: 100},
		},
	}
}
