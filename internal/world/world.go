package world

import (
	"log"
	"math"

	"springsim/internal/physics"
)

// Joints spawned while the right mouse button is held all enter from the
// top-left corner
const (
	SpawnX     = 10.0
	SpawnY     = 20.0
	SpawnSize  = 1.0
	SpawnAngle = math.Pi / 1.5
	SpawnSpeed = 100.0
)

// World is the running simulation plus the per-joint presentation state the
// host keeps alongside it.
type World struct {
	Name string
	Env  *physics.Environment

	hues    map[physics.JointHandle]float32
	spawned int

	// Selected is the joint under the mouse drag, if any
	Selected physics.JointHandle
}

// New wraps an existing environment. Joints already in it get hues in
// insertion order.
func New(name string, env *physics.Environment) *World {
	w := &World{
		Name: name,
		Env:  env,
		hues: make(map[physics.JointHandle]float32),
	}
	for i := 0; i < env.JointCount(); i++ {
		w.assignHue(env.Handle(i))
	}
	return w
}

// Load builds a world from a scene file, or from DefaultScene when path is empty
func Load(path string) (*World, error) {
	if path == "" {
		env, err := DefaultScene().Build()
		if err != nil {
			return nil, err
		}
		return New("square", env), nil
	}

	env, err := LoadSceneFile(path)
	if err != nil {
		return nil, err
	}
	log.Printf("World: loaded %s (%d joints, %d springs, %d lines)",
		path, env.JointCount(), env.SpringCount(), len(env.Lines()))
	return New(path, env), nil
}

// HueFor returns the hue of the n-th joint ever added (zero based). The
// first four get hues 0..3, later ones three degrees per joint count.
func HueFor(n int) float32 {
	if n < 4 {
		return float32(n)
	}
	return float32((n + 1) * 3)
}

func (w *World) assignHue(h physics.JointHandle) {
	w.hues[h] = HueFor(w.spawned)
	w.spawned++
}

// Hue returns the hue of a live joint
func (w *World) Hue(h physics.JointHandle) float32 {
	return w.hues[h]
}

// Spawn adds one default-mass joint at the spawn point
func (w *World) Spawn() physics.JointHandle {
	h := w.Env.AddJoint(SpawnX, SpawnY, SpawnSize, SpawnAngle, SpawnSpeed)
	w.assignHue(h)
	return h
}

// Grab selects the joint under (x, y). It keeps the previous selection
// when nothing is there.
func (w *World) Grab(x, y float64) bool {
	i := w.Env.JointAt(x, y)
	if i == w.Env.JointCount() {
		return false
	}
	w.Selected = w.Env.Handle(i)
	return true
}

// Drag steers the selected joint toward (x, y)
func (w *World) Drag(x, y float64) bool {
	j, ok := w.Env.JointByHandle(w.Selected)
	if !ok {
		w.Selected.Clear()
		return false
	}
	j.MoveTo(x, y)
	return true
}

// Release drops the current selection
func (w *World) Release() {
	w.Selected.Clear()
}

// RemoveSelected deletes the selected joint and its springs
func (w *World) RemoveSelected() bool {
	h := w.Selected
	w.Selected.Clear()
	if !w.Env.RemoveJointHandle(h) {
		return false
	}
	delete(w.hues, h)
	return true
}

// Forget drops presentation state for joints that no longer exist, such as
// those absorbed by Combine.
func (w *World) Forget(h physics.JointHandle) {
	delete(w.hues, h)
	if w.Selected == h {
		w.Selected.Clear()
	}
}

// Step advances the environment by one frame split into substeps
func (w *World) Step(frameTime float64, substeps int) {
	w.Env.UpdateSubsteps(frameTime, substeps)
}
