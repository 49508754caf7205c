package physics

import (
	"errors"
	"math"
	"testing"
)

// quietOptions is an arena with only the listed stages switched on
func quietOptions(f Features) Options {
	opts := DefaultOptions(600, 600)
	opts.Features = f
	return opts
}

func mustEnvironment(t *testing.T, opts Options) *Environment {
	t.Helper()
	env, err := NewEnvironmentWithOptions(opts)
	if err != nil {
		t.Fatalf("NewEnvironmentWithOptions: %v", err)
	}
	return env
}

func TestNewEnvironmentDefaults(t *testing.T) {
	env := NewEnvironment(600, 400)
	opts := env.Options()

	if opts.Width != 600 || opts.Height != 400 {
		t.Errorf("Expected 600x400, got %dx%d", opts.Width, opts.Height)
	}
	if opts.Stable != 0.05 || opts.AirMass != 0.2 {
		t.Errorf("Expected stable 0.05 and air mass 0.2, got %v and %v", opts.Stable, opts.AirMass)
	}
	if opts.Acceleration != (Vector{Angle: math.Pi, Magnitude: 0.9}) {
		t.Errorf("Expected downward gravity 0.9, got %+v", opts.Acceleration)
	}
	want := Features{Accelerate: true, Bounce: true, Collide: true, Move: true}
	if opts.Features != want {
		t.Errorf("Expected features %+v, got %+v", want, opts.Features)
	}
	if opts.Pairing != PairOnce {
		t.Errorf("Expected PairOnce, got %v", opts.Pairing)
	}
}

func TestAddJointDerivesMassAndDrag(t *testing.T) {
	env := NewEnvironment(600, 600)
	env.AddJoint(100, 100, 10, 0, 0)
	env.AddJointCustom(200, 200, 3, 600, 0, 0, 0.1)

	j := env.Joint(0)
	if j.Mass != 100 {
		t.Errorf("Expected mass size² = 100, got %v", j.Mass)
	}
	if j.Elasticity != 0.8 {
		t.Errorf("Expected elasticity 0.8, got %v", j.Elasticity)
	}
	if want := math.Pow(100/100.2, 2); !approxEqual(j.Drag, want) {
		t.Errorf("Expected drag %v, got %v", want, j.Drag)
	}

	c := env.Joint(1)
	if c.Mass != 600 || c.Elasticity != 0.1 {
		t.Errorf("Expected custom mass 600 and elasticity 0.1, got %v and %v", c.Mass, c.Elasticity)
	}
	// the custom constructor uses the size as the drag exponent
	if want := math.Pow(600/600.2, 3); !approxEqual(c.Drag, want) {
		t.Errorf("Expected drag %v, got %v", want, c.Drag)
	}
}

func TestRestingJointDoesNotDrift(t *testing.T) {
	opts := DefaultOptions(600, 600)
	opts.Features.Accelerate = false
	opts.Acceleration = Vector{}

	for _, dt := range []float64{0, 0.016, 1, 100} {
		env := mustEnvironment(t, opts)
		env.AddJoint(300, 300, 10, 0, 0)
		env.Update(dt)

		j := env.Joint(0)
		if j.X != 300 || j.Y != 300 {
			t.Errorf("dt=%v: expected (300, 300), got (%v, %v)", dt, j.X, j.Y)
		}
	}
}

func TestGravityAcceleratesThenMoves(t *testing.T) {
	env := NewEnvironment(600, 600)
	env.AddJoint(300, 300, 10, 0, 0)
	env.Update(1.0 / 60)

	j := env.Joint(0)
	if !approxEqual(j.Speed, 0.9) {
		t.Errorf("Expected speed 0.9, got %v", j.Speed)
	}
	if !approxEqual(j.Y, 300.9) {
		t.Errorf("Expected y 300.9, got %v", j.Y)
	}
}

func TestStabilityClampZeroesSlowJoints(t *testing.T) {
	opts := quietOptions(Features{Move: true})
	for _, speed := range []float64{0.049, 0.01, 1e-9, -0.03} {
		env := mustEnvironment(t, opts)
		env.AddJoint(300, 300, 10, 1, speed)
		env.Update(1)

		if got := env.Joint(0).Speed; got != 0 {
			t.Errorf("speed %v: expected 0 after step, got %v", speed, got)
		}
	}

	env := mustEnvironment(t, opts)
	env.AddJoint(300, 300, 10, 1, 0.06)
	env.Update(1)
	if got := env.Joint(0).Speed; got != 0.06 {
		t.Errorf("Expected speed above threshold to survive, got %v", got)
	}
}

func TestJointAt(t *testing.T) {
	env := NewEnvironment(600, 600)
	env.AddJoint(100, 100, 10, 0, 0)
	env.AddJoint(110, 100, 10, 0, 0)
	env.AddJoint(400, 400, 5, 0, 0)

	if got := env.JointAt(300, 300); got != env.JointCount() {
		t.Errorf("Expected sentinel %d, got %d", env.JointCount(), got)
	}
	if got := env.JointAt(402, 401); got != 2 {
		t.Errorf("Expected index 2, got %d", got)
	}
	if got := env.JointAt(105, 100); got != 0 {
		t.Errorf("Expected first joint in insertion order, got %d", got)
	}
	if got := env.JointAt(115, 100); got != 1 {
		t.Errorf("Expected index 1, got %d", got)
	}
}

func TestUpdateSubsteps(t *testing.T) {
	env := NewEnvironment(600, 600)
	env.AddJoint(300, 100, 10, 0, 0)

	env.UpdateSubsteps(1.0/60, 4)
	if env.Step() != 4 {
		t.Errorf("Expected 4 steps, got %d", env.Step())
	}

	env.UpdateSubsteps(1.0/60, 0)
	if env.Step() != 4 {
		t.Errorf("Expected zero substeps to do nothing, got %d steps", env.Step())
	}
}

func TestHeadOnCollisionPairOnce(t *testing.T) {
	env := mustEnvironment(t, quietOptions(Features{Move: true, Collide: true}))
	env.AddJointCustom(100, 300, 10, 100, 3, 0.5*math.Pi, 1)
	env.AddJointCustom(118, 300, 10, 100, 3, -0.5*math.Pi, 1)

	contacts := 0
	env.OnContact.AddListener(func(c Contact) {
		contacts++
		if c.Kind != Touching {
			t.Errorf("Expected touching contact, got %v", c.Kind)
		}
	})

	before := env.TotalKineticEnergy()
	env.Update(1)

	if contacts != 1 {
		t.Errorf("Expected 1 contact, got %d", contacts)
	}
	a, b := env.Joint(0), env.Joint(1)
	if math.Sin(a.Angle) > -0.999 || math.Sin(b.Angle) < 0.999 {
		t.Errorf("Expected velocities to swap, got angles %v and %v", a.Angle, b.Angle)
	}
	if after := env.TotalKineticEnergy(); !approxEqual(before, after) {
		t.Errorf("Expected kinetic energy %v, got %v", before, after)
	}
	// both moved 3 first (103, 115), then overlap 0.5*(20-12+1) = 4.5
	if !approxEqual(a.X, 98.5) || !approxEqual(b.X, 119.5) {
		t.Errorf("Expected (98.5, 119.5), got (%v, %v)", a.X, b.X)
	}
}

func TestHeadOnCollisionPairReference(t *testing.T) {
	opts := quietOptions(Features{Move: true, Collide: true})
	opts.Pairing = PairReference
	env := mustEnvironment(t, opts)
	env.AddJointCustom(100, 300, 10, 100, 3, 0.5*math.Pi, 1)
	env.AddJointCustom(118, 300, 10, 100, 3, -0.5*math.Pi, 1)

	env.Update(1)

	// joint 0 only ever collides as a copy, so its own velocity survives
	a, b := env.Joint(0), env.Joint(1)
	if !approxEqual(a.Speed, 3) || !approxEqual(a.Angle, 0.5*math.Pi) {
		t.Errorf("Expected joint 0 unchanged velocity, got speed %v angle %v", a.Speed, a.Angle)
	}
	if !approxEqual(a.X, 103) {
		t.Errorf("Expected joint 0 at 103, got %v", a.X)
	}
	if math.Sin(b.Angle) < 0.999 {
		t.Errorf("Expected joint 1 to head right, angle %v", b.Angle)
	}
	// 118 -> 121 from separation (overlap 3), then 124 after its own move
	if !approxEqual(b.X, 124) {
		t.Errorf("Expected joint 1 at 124, got %v", b.X)
	}
}

func TestDegenerateContactIsReported(t *testing.T) {
	env := mustEnvironment(t, quietOptions(Features{Collide: true}))
	env.AddJoint(200, 200, 10, 0, 0)
	env.AddJoint(200, 200, 10, 0, 0)

	var got []Contact
	env.OnDegenerate.AddListener(func(c Contact) { got = append(got, c) })
	env.Update(1)

	if len(got) != 1 {
		t.Fatalf("Expected 1 degenerate report, got %d", len(got))
	}
	if got[0].A != env.Handle(0) || got[0].B != env.Handle(1) {
		t.Errorf("Expected handles of joints 0 and 1, got %v and %v", got[0].A, got[0].B)
	}
	for _, j := range env.Joints() {
		if math.IsNaN(j.X) || math.IsNaN(j.Speed) {
			t.Fatalf("Expected finite joints, got %+v", j)
		}
	}
}

func TestCombineRemovesAbsorbedJoint(t *testing.T) {
	env := mustEnvironment(t, quietOptions(Features{Combine: true, Collide: true}))
	survivor := env.AddJoint(100, 100, 10, 0, 0)
	absorbed := env.AddJoint(105, 100, 10, 0, 0)
	other := env.AddJoint(400, 400, 10, 0, 0)
	if err := env.AddSpring(1, 2, 50, 1); err != nil {
		t.Fatalf("AddSpring: %v", err)
	}

	var merges []Merge
	env.OnMerge.AddListener(func(m Merge) { merges = append(merges, m) })
	env.Update(1)

	if len(merges) != 1 || merges[0].Survivor != survivor || merges[0].Absorbed != absorbed {
		t.Fatalf("Expected one merge of %v into %v, got %+v", absorbed, survivor, merges)
	}
	if env.JointCount() != 2 {
		t.Errorf("Expected 2 joints after merge, got %d", env.JointCount())
	}
	if _, ok := env.JointByHandle(absorbed); ok {
		t.Error("Expected absorbed handle to be stale")
	}
	if idx, ok := env.IndexOf(other); !ok || idx != 1 {
		t.Errorf("Expected other joint at index 1, got %d (%v)", idx, ok)
	}
	if env.SpringCount() != 0 {
		t.Errorf("Expected spring to absorbed joint removed, got %d springs", env.SpringCount())
	}
	if j, _ := env.JointByHandle(survivor); j.Mass != 300 {
		t.Errorf("Expected survivor mass 300, got %v", j.Mass)
	}
}

func TestAttractFeatureMovesJointsTogether(t *testing.T) {
	env := mustEnvironment(t, quietOptions(Features{Attract: true, Move: true}))
	env.AddJoint(100, 300, 1, 0, 0)
	env.AddJoint(110, 300, 1, 0, 0)

	env.Update(1)
	env.Update(1)

	if env.Joint(0).X <= 100 || env.Joint(1).X >= 110 {
		t.Errorf("Expected joints to approach, got %v and %v", env.Joint(0).X, env.Joint(1).X)
	}
}

func TestSpringAtRestKeepsJointsStill(t *testing.T) {
	env := mustEnvironment(t, quietOptions(Features{Move: true, Collide: true}))
	env.AddJoint(100, 100, 10, 0, 0)
	env.AddJoint(200, 100, 10, 0, 0)
	if err := env.AddSpring(0, 1, 100, 100); err != nil {
		t.Fatalf("AddSpring: %v", err)
	}

	env.Update(1)

	if env.Joint(0).Speed != 0 || env.Joint(1).Speed != 0 {
		t.Errorf("Expected no motion, got speeds %v and %v", env.Joint(0).Speed, env.Joint(1).Speed)
	}
	s := env.Spring(0)
	if s.PosA != [2]float64{100, 100} || s.PosB != [2]float64{200, 100} {
		t.Errorf("Expected cached endpoints, got %v and %v", s.PosA, s.PosB)
	}
}

func TestCompressedSpringSeparatesJoints(t *testing.T) {
	env := mustEnvironment(t, quietOptions(Features{Move: true}))
	env.AddJoint(250, 300, 5, 0, 0)
	env.AddJoint(300, 300, 5, 0, 0)
	if err := env.AddSpring(0, 1, 100, 1); err != nil {
		t.Fatalf("AddSpring: %v", err)
	}

	env.Update(1)
	env.Update(1)

	if d := env.Joint(1).X - env.Joint(0).X; d <= 50 {
		t.Errorf("Expected joints to spread past 50 apart, got %v", d)
	}
}

func TestRemoveJointKeepsSpringsOnTheirJoints(t *testing.T) {
	env := NewEnvironment(600, 600)
	h0 := env.AddJoint(100, 100, 5, 0, 0)
	h1 := env.AddJoint(200, 100, 5, 0, 0)
	h2 := env.AddJoint(300, 100, 5, 0, 0)
	for _, pair := range [][2]int{{0, 1}, {1, 2}, {0, 2}} {
		if err := env.AddSpring(pair[0], pair[1], 100, 1); err != nil {
			t.Fatalf("AddSpring%v: %v", pair, err)
		}
	}

	env.RemoveJoint(1)

	if env.JointCount() != 2 {
		t.Fatalf("Expected 2 joints, got %d", env.JointCount())
	}
	if env.SpringCount() != 1 {
		t.Fatalf("Expected 1 surviving spring, got %d", env.SpringCount())
	}
	s := env.Spring(0)
	if s.A != h0 || s.B != h2 {
		t.Errorf("Expected spring %v-%v, got %v-%v", h0, h2, s.A, s.B)
	}
	if idx, ok := env.IndexOf(h2); !ok || idx != 1 {
		t.Errorf("Expected h2 shifted to index 1, got %d (%v)", idx, ok)
	}
	if _, ok := env.JointByHandle(h1); ok {
		t.Error("Expected removed handle to be stale")
	}
	if env.RemoveJointHandle(h1) {
		t.Error("Expected removing a stale handle to fail")
	}
}

func TestRemovedSlotReuseKeepsOldHandleStale(t *testing.T) {
	env := NewEnvironment(600, 600)
	old := env.AddJoint(100, 100, 5, 0, 0)
	env.RemoveJointHandle(old)
	fresh := env.AddJoint(300, 300, 5, 0, 0)

	if old == fresh {
		t.Fatal("Expected a new generation for the reused slot")
	}
	if _, ok := env.JointByHandle(old); ok {
		t.Error("Expected old handle to stay stale after slot reuse")
	}
	if j, ok := env.JointByHandle(fresh); !ok || j.X != 300 {
		t.Errorf("Expected fresh handle to resolve to the new joint, got %+v (%v)", j, ok)
	}
}

func TestRemoveJointOutOfRangePanics(t *testing.T) {
	env := NewEnvironment(600, 600)
	env.AddJoint(100, 100, 5, 0, 0)

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for out-of-range index")
		}
	}()
	env.RemoveJoint(1)
}

func TestAddSpringErrors(t *testing.T) {
	env := NewEnvironment(600, 600)
	env.AddJoint(100, 100, 5, 0, 0)
	env.AddJoint(200, 100, 5, 0, 0)

	if err := env.AddSpring(0, 5, 10, 1); !errors.Is(err, ErrInvalidJoint) {
		t.Errorf("Expected ErrInvalidJoint, got %v", err)
	}
	if err := env.AddSpring(1, 1, 10, 1); !errors.Is(err, ErrSelfSpring) {
		t.Errorf("Expected ErrSelfSpring, got %v", err)
	}
	if err := env.AddSpringHandles(JointHandle{}, env.Handle(0), 10, 1); !errors.Is(err, ErrInvalidJoint) {
		t.Errorf("Expected ErrInvalidJoint for zero handle, got %v", err)
	}
	if env.SpringCount() != 0 {
		t.Errorf("Expected no springs, got %d", env.SpringCount())
	}
}

func TestLineContactsAreDetectionOnly(t *testing.T) {
	env := mustEnvironment(t, quietOptions(Features{}))
	env.AddJoint(100, 102, 3, 0, 0)
	env.AddLine(0, 100, 200, 100, 4)

	var got []LineContact
	env.OnLineContact.AddListener(func(c LineContact) { got = append(got, c) })
	before := *env.Joint(0)
	env.Update(1)

	if len(got) != 1 || got[0].Line != 0 || got[0].Joint != env.Handle(0) {
		t.Fatalf("Expected one line contact, got %+v", got)
	}
	if *env.Joint(0) != before {
		t.Errorf("Expected joint unchanged, got %+v", *env.Joint(0))
	}
}

func TestBounceKeepsJointsInArena(t *testing.T) {
	opts := quietOptions(Features{Accelerate: true, Bounce: true, Move: true})
	opts.Width, opts.Height = 200, 200
	env := mustEnvironment(t, opts)
	for i := 0; i < 8; i++ {
		env.AddJoint(20+float64(i)*20, 50, 5, float64(i), 6)
	}

	for i := 0; i < 500; i++ {
		env.UpdateSubsteps(1.0/60, 4)
	}

	for i, j := range env.Joints() {
		if j.X < j.Size-1e-9 || j.X > 200-j.Size+1e-9 || j.Y < j.Size-1e-9 || j.Y > 200-j.Size+1e-9 {
			t.Errorf("Joint %d escaped the arena: (%v, %v)", i, j.X, j.Y)
		}
	}
}
