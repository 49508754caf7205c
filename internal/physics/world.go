package physics

import (
	"fmt"
	"log"
	"math"
	"time"
)

// Environment owns the joints, springs and lines of one simulation and
// advances them with Update.
//
// Joints are addressed two ways: by positional index (insertion order,
// shifts on removal) and by JointHandle (stable until the joint is removed).
// Springs always hold handles.
type Environment struct {
	opts Options

	joints  jointArena
	springs []*Spring
	lines   []Line
	step    uint64

	// Fired for every resolved joint-joint collision
	OnContact EventWithArg[Contact]
	// Fired when a contact or attraction had coincident centers
	OnDegenerate EventWithArg[Contact]
	// Fired when Combine absorbs a joint, before it is removed
	OnMerge EventWithArg[Merge]
	// Fired for every joint touching a line when DetectLines is on
	OnLineContact EventWithArg[LineContact]

	degenerateLog logLimiter
	lineLog       logLimiter
}

// NewEnvironment creates an environment with DefaultOptions
func NewEnvironment(width, height int) *Environment {
	return newEnvironment(DefaultOptions(width, height))
}

// NewEnvironmentWithOptions creates an environment from explicit options
func NewEnvironmentWithOptions(opts Options) (*Environment, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return newEnvironment(opts), nil
}

func newEnvironment(opts Options) *Environment {
	return &Environment{
		opts:          opts,
		degenerateLog: logLimiter{interval: time.Second},
		lineLog:       logLimiter{interval: time.Second},
	}
}

// Options returns the current configuration
func (e *Environment) Options() Options {
	return e.opts
}

func (e *Environment) SetFeatures(f Features) {
	e.opts.Features = f
}

func (e *Environment) SetAcceleration(v Vector) {
	e.opts.Acceleration = v
}

func (e *Environment) SetPairing(p Pairing) {
	e.opts.Pairing = p
}

// Step returns the number of Update calls so far
func (e *Environment) Step() uint64 {
	return e.step
}

// --- Joints ---

// AddJoint adds a joint with mass size², elasticity 0.8 and drag exponent 2
func (e *Environment) AddJoint(x, y, size, angle, speed float64) JointHandle {
	mass := size * size
	return e.joints.insert(Joint{
		X:          x,
		Y:          y,
		Size:       size,
		Mass:       mass,
		Speed:      speed,
		Angle:      angle,
		Elasticity: 0.8,
		Drag:       dragFor(mass, e.opts.AirMass, 2.0),
	})
}

// AddJointCustom adds a joint with explicit mass and elasticity. The drag
// exponent is the joint size.
func (e *Environment) AddJointCustom(x, y, size, mass, speed, angle, elasticity float64) JointHandle {
	return e.joints.insert(Joint{
		X:          x,
		Y:          y,
		Size:       size,
		Mass:       mass,
		Speed:      speed,
		Angle:      angle,
		Elasticity: elasticity,
		Drag:       dragFor(mass, e.opts.AirMass, size),
	})
}

// JointCount returns the number of live joints. It is also the "not found"
// value of JointAt.
func (e *Environment) JointCount() int {
	return e.joints.len()
}

func (e *Environment) checkIndex(index int) {
	if index < 0 || index >= e.joints.len() {
		panic(fmt.Sprintf("physics: joint index %d out of range [0,%d)", index, e.joints.len()))
	}
}

// Joint returns the joint at a positional index. The pointer is valid until
// the next joint is added or removed. Panics when index is out of range.
func (e *Environment) Joint(index int) *Joint {
	e.checkIndex(index)
	return e.joints.at(index)
}

// Handle returns the stable handle of the joint at index
func (e *Environment) Handle(index int) JointHandle {
	e.checkIndex(index)
	return e.joints.handleAt(index)
}

// IndexOf returns the current positional index of h
func (e *Environment) IndexOf(h JointHandle) (int, bool) {
	return e.joints.indexOf(h)
}

// JointByHandle resolves h, failing when its joint was removed
func (e *Environment) JointByHandle(h JointHandle) (*Joint, bool) {
	s, ok := e.joints.resolve(h)
	if !ok {
		return nil, false
	}
	return &s.joint, true
}

// Joints returns a snapshot of all joints in insertion order
func (e *Environment) Joints() []Joint {
	out := make([]Joint, e.joints.len())
	for i := range out {
		out[i] = *e.joints.at(i)
	}
	return out
}

// JointAt returns the index of the first joint, in insertion order, whose
// radius strictly contains (x, y). It returns JointCount() when none does.
func (e *Environment) JointAt(x, y float64) int {
	n := e.joints.len()
	for i := 0; i < n; i++ {
		if e.joints.at(i).Contains(x, y) {
			return i
		}
	}
	return n
}

// RemoveJoint removes the joint at index along with every spring attached
// to it. Later joints shift down by one. Panics when index is out of range.
func (e *Environment) RemoveJoint(index int) {
	e.checkIndex(index)
	e.RemoveJointHandle(e.joints.handleAt(index))
}

// RemoveJointHandle removes the joint h refers to and its springs. It
// returns false when h is already stale.
func (e *Environment) RemoveJointHandle(h JointHandle) bool {
	if !e.joints.remove(h) {
		return false
	}
	kept := e.springs[:0]
	dropped := 0
	for _, s := range e.springs {
		if s.References(h) {
			dropped++
			continue
		}
		kept = append(kept, s)
	}
	for i := len(kept); i < len(e.springs); i++ {
		e.springs[i] = nil
	}
	e.springs = kept
	if dropped > 0 {
		log.Printf("Physics: removed %v and %d attached spring(s)", h, dropped)
	}
	return true
}

// --- Springs ---

// AddSpring connects the joints at indices i and j. The indices are turned
// into handles, so later removals never re-target the spring.
func (e *Environment) AddSpring(i, j int, restLength, strength float64) error {
	n := e.joints.len()
	if i < 0 || i >= n || j < 0 || j >= n {
		return fmt.Errorf("%w: spring indices (%d, %d) with %d joints", ErrInvalidJoint, i, j, n)
	}
	return e.AddSpringHandles(e.joints.handleAt(i), e.joints.handleAt(j), restLength, strength)
}

// AddSpringHandles connects two joints by handle
func (e *Environment) AddSpringHandles(a, b JointHandle, restLength, strength float64) error {
	if _, ok := e.joints.resolve(a); !ok {
		return fmt.Errorf("%w: %v", ErrInvalidJoint, a)
	}
	if _, ok := e.joints.resolve(b); !ok {
		return fmt.Errorf("%w: %v", ErrInvalidJoint, b)
	}
	if a == b {
		return fmt.Errorf("%w: %v", ErrSelfSpring, a)
	}
	e.springs = append(e.springs, NewSpring(a, b, restLength, strength))
	return nil
}

// Springs returns the springs in declaration order. Callers must not
// append to or reorder the slice.
func (e *Environment) Springs() []*Spring {
	return e.springs
}

func (e *Environment) Spring(index int) *Spring {
	return e.springs[index]
}

func (e *Environment) SpringCount() int {
	return len(e.springs)
}

// RemoveSpring removes the spring at index
func (e *Environment) RemoveSpring(index int) {
	e.springs = append(e.springs[:index], e.springs[index+1:]...)
}

// --- Lines ---

func (e *Environment) AddLine(x1, y1, x2, y2, width float64) Line {
	l := NewLine(x1, y1, x2, y2, width)
	e.lines = append(e.lines, l)
	return l
}

func (e *Environment) Lines() []Line {
	return e.lines
}

// --- Stepping ---

// UpdateSubsteps runs subSteps updates of dt/subSteps each. Zero or
// negative subSteps does nothing.
func (e *Environment) UpdateSubsteps(dt float64, subSteps int) {
	if subSteps <= 0 {
		return
	}
	subDt := dt / float64(subSteps)
	for range subSteps {
		e.Update(subDt)
	}
}

// Update advances the simulation by one tick
func (e *Environment) Update(dt float64) {
	if e.opts.Pairing == PairReference {
		e.updateReference(dt)
	} else {
		e.updateOnce(dt)
	}
	e.updateSprings()
	if e.opts.DetectLines {
		e.detectLines()
	}
	e.step++
}

// moveJoint runs the per-joint stages: accelerate, integrate, drag, bounce
// and the stability clamp
func (e *Environment) moveJoint(j *Joint, dt float64) {
	f := e.opts.Features
	if f.Accelerate {
		j.Accelerate(e.opts.Acceleration)
	}
	if f.Move {
		if e.opts.ScaleMotionByDT {
			j.IntegrateScaled(dt)
		} else {
			j.Integrate(dt)
		}
	}
	if f.Drag {
		j.ExperienceDrag()
	}
	if f.Bounce {
		j.Bounce(float64(e.opts.Width), float64(e.opts.Height))
	}
	if math.Abs(j.Speed) < e.opts.Stable {
		j.Speed = 0
	}
}

// updateOnce moves every joint, then visits each unordered pair once
func (e *Environment) updateOnce(dt float64) {
	n := e.joints.len()
	for i := 0; i < n; i++ {
		e.moveJoint(e.joints.at(i), dt)
	}

	f := e.opts.Features
	if !f.Attract && !f.Combine && !f.Collide {
		return
	}

	var absorbed []bool
	if f.Combine {
		absorbed = make([]bool, n)
	}

	for i := 0; i < n; i++ {
		if absorbed != nil && absorbed[i] {
			continue
		}
		a := e.joints.at(i)
		for j := i + 1; j < n; j++ {
			if absorbed != nil && absorbed[j] {
				continue
			}
			b := e.joints.at(j)

			if f.Attract && !a.Attract(b) {
				e.reportDegenerate(Contact{
					A:    e.joints.handleAt(i),
					B:    e.joints.handleAt(j),
					Kind: Degenerate,
					X:    a.X,
					Y:    a.Y,
				})
			}
			if f.Combine && a.Combine(*b) {
				absorbed[j] = true
				e.OnMerge.Invoke(Merge{Survivor: e.joints.handleAt(i), Absorbed: e.joints.handleAt(j)})
				continue
			}
			if f.Collide {
				e.collidePair(i, j, a, b)
			}
		}
	}

	if absorbed == nil {
		return
	}
	var gone []JointHandle
	for i, dead := range absorbed {
		if dead {
			gone = append(gone, e.joints.handleAt(i))
		}
	}
	for _, h := range gone {
		e.RemoveJointHandle(h)
	}
}

// updateReference interleaves motion and collision per joint. Each visit
// collides a copy of joint i against joint j, so only j changes and every
// pair is visited from both sides. Attract and Combine are not applied.
func (e *Environment) updateReference(dt float64) {
	n := e.joints.len()
	for i := 0; i < n; i++ {
		e.moveJoint(e.joints.at(i), dt)
		if !e.opts.Features.Collide {
			continue
		}
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			snapshot := *e.joints.at(i)
			e.collidePair(i, j, &snapshot, e.joints.at(j))
		}
	}
}

func (e *Environment) collidePair(i, j int, a, b *Joint) {
	impact := math.Abs(a.Speed) + math.Abs(b.Speed)
	kind := a.Collide(b)
	if kind == NoContact {
		return
	}
	c := Contact{
		A:      e.joints.handleAt(i),
		B:      e.joints.handleAt(j),
		Kind:   kind,
		X:      (a.X + b.X) / 2,
		Y:      (a.Y + b.Y) / 2,
		Impact: impact,
	}
	e.OnContact.Invoke(c)
	if kind == Degenerate {
		e.reportDegenerate(c)
	}
}

func (e *Environment) reportDegenerate(c Contact) {
	if e.degenerateLog.allow() {
		log.Printf("Physics: degenerate contact between %v and %v at (%.1f, %.1f), step %d",
			c.A, c.B, c.X, c.Y, e.step)
	}
	e.OnDegenerate.Invoke(c)
}

// updateSprings applies every spring's force pair in declaration order
func (e *Environment) updateSprings() {
	for _, s := range e.springs {
		a, okA := e.joints.resolve(s.A)
		b, okB := e.joints.resolve(s.B)
		if !okA || !okB {
			continue
		}
		forceA, forceB := s.Update(a.joint, b.joint)
		a.joint.Accelerate(forceA)
		b.joint.Accelerate(forceB)
	}
}

func (e *Environment) detectLines() {
	if len(e.lines) == 0 {
		return
	}
	n := e.joints.len()
	for i := 0; i < n; i++ {
		j := e.joints.at(i)
		for k, l := range e.lines {
			if !l.CheckCollision(*j) {
				continue
			}
			if e.lineLog.allow() {
				log.Printf("Physics: joint %d touching line %d at step %d", i, k, e.step)
			}
			e.OnLineContact.Invoke(LineContact{Joint: e.joints.handleAt(i), Line: k})
		}
	}
}

// TotalKineticEnergy sums 0.5*m*v² over all joints
func (e *Environment) TotalKineticEnergy() float64 {
	total := 0.0
	for i := 0; i < e.joints.len(); i++ {
		total += e.joints.at(i).KineticEnergy()
	}
	return total
}
