package physics

// EventWithArg is a multi-cast event with one argument. Listeners run
// synchronously, in subscription order, inside Environment.Update.
type EventWithArg[T any] struct {
	listeners []func(T)
}

// AddListener adds a callback to be invoked when the event fires
func (e *EventWithArg[T]) AddListener(callback func(T)) {
	if callback == nil {
		return
	}
	e.listeners = append(e.listeners, callback)
}

// RemoveAllListeners clears all listeners
func (e *EventWithArg[T]) RemoveAllListeners() {
	e.listeners = nil
}

// Invoke calls all registered listeners
func (e *EventWithArg[T]) Invoke(arg T) {
	for _, listener := range e.listeners {
		listener(arg)
	}
}

// GetListenerCount returns the number of registered listeners
func (e *EventWithArg[T]) GetListenerCount() int {
	return len(e.listeners)
}

// Contact describes one resolved joint-joint collision
type Contact struct {
	A, B JointHandle
	Kind ContactKind
	// Contact point, halfway between the centers after separation
	X, Y float64
	// Sum of both speeds before the response, a rough impact strength
	Impact float64
}

// Merge describes Absorbed being combined into Survivor
type Merge struct {
	Survivor, Absorbed JointHandle
}

// LineContact describes a joint touching a static line
type LineContact struct {
	Joint JointHandle
	Line  int // index into Lines()
}
