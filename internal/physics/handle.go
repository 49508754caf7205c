package physics

import "fmt"

// JointHandle is a stable reference to a joint in an Environment.
//
// A handle stays valid while its joint exists, even when other joints are
// removed and positional indices shift. After its joint is removed the
// handle goes stale: lookups fail instead of resolving to a different joint.
//
// The zero value refers to nothing.
type JointHandle struct {
	slot uint32
	gen  uint32 // 0 = none
}

// IsValid returns true if the handle points to something. It does not check
// whether the joint still exists; use Environment.JointByHandle for that.
func (h JointHandle) IsValid() bool {
	return h.gen != 0
}

// Clear resets the handle to the zero value
func (h *JointHandle) Clear() {
	*h = JointHandle{}
}

func (h JointHandle) String() string {
	if !h.IsValid() {
		return "joint(none)"
	}
	return fmt.Sprintf("joint(%d#%d)", h.slot, h.gen)
}

// jointSlot is one arena cell. gen is bumped whenever the slot is freed so
// that outstanding handles to the old occupant go stale.
type jointSlot struct {
	joint Joint
	gen   uint32
	live  bool
}

// jointArena stores joints in reusable slots and keeps insertion order
type jointArena struct {
	slots []jointSlot
	free  []uint32
	order []uint32 // live slots in insertion order
}

func (a *jointArena) insert(j Joint) JointHandle {
	var slot uint32
	if n := len(a.free); n > 0 {
		slot = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		slot = uint32(len(a.slots))
		a.slots = append(a.slots, jointSlot{gen: 1})
	}
	s := &a.slots[slot]
	s.joint = j
	s.live = true
	a.order = append(a.order, slot)
	return JointHandle{slot: slot, gen: s.gen}
}

func (a *jointArena) resolve(h JointHandle) (*jointSlot, bool) {
	if !h.IsValid() || int(h.slot) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.slot]
	if !s.live || s.gen != h.gen {
		return nil, false
	}
	return s, true
}

func (a *jointArena) handleAt(index int) JointHandle {
	slot := a.order[index]
	return JointHandle{slot: slot, gen: a.slots[slot].gen}
}

func (a *jointArena) at(index int) *Joint {
	return &a.slots[a.order[index]].joint
}

func (a *jointArena) indexOf(h JointHandle) (int, bool) {
	if _, ok := a.resolve(h); !ok {
		return 0, false
	}
	for i, slot := range a.order {
		if slot == h.slot {
			return i, true
		}
	}
	return 0, false
}

func (a *jointArena) remove(h JointHandle) bool {
	s, ok := a.resolve(h)
	if !ok {
		return false
	}
	s.live = false
	s.joint = Joint{}
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	a.free = append(a.free, h.slot)
	for i, slot := range a.order {
		if slot == h.slot {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return true
}

func (a *jointArena) len() int {
	return len(a.order)
}
