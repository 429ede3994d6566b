package organizer

import (
	"sort"

	"github.com/dshills/taskorg/internal/task"
)

// listenerRegistry maps windowing mode to listener, at most one listener
// per mode. Like the task store it is exclusively owned by the Organizer
// and performs no locking.
type listenerRegistry struct {
	byMode map[task.WindowingMode]TaskListener
}

func newListenerRegistry() *listenerRegistry {
	return &listenerRegistry{
		byMode: make(map[task.WindowingMode]TaskListener),
	}
}

// add binds l to mode. A mode that already has a listener yields a
// *RegistrationError naming the existing listener; the binding is not
// overwritten.
func (r *listenerRegistry) add(l TaskListener, mode task.WindowingMode) error {
	if existing, ok := r.byMode[mode]; ok {
		return &RegistrationError{Mode: mode, Existing: existing}
	}
	r.byMode[mode] = l
	return nil
}

// removeByIdentity removes the first binding whose listener is l and
// returns its mode. ok is false when l is not registered.
func (r *listenerRegistry) removeByIdentity(l TaskListener) (task.WindowingMode, bool) {
	// Scan modes in a stable order so removal of a listener bound to
	// several modes is deterministic.
	for _, mode := range r.modes() {
		if r.byMode[mode] == l {
			delete(r.byMode, mode)
			return mode, true
		}
	}
	return task.WindowingModeUndefined, false
}

// get returns the listener bound to mode.
func (r *listenerRegistry) get(mode task.WindowingMode) (TaskListener, bool) {
	l, ok := r.byMode[mode]
	return l, ok
}

// modes returns all bound modes in ascending order.
func (r *listenerRegistry) modes() []task.WindowingMode {
	modes := make([]task.WindowingMode, 0, len(r.byMode))
	for mode := range r.byMode {
		modes = append(modes, mode)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}

// count returns the number of bound modes.
func (r *listenerRegistry) count() int {
	return len(r.byMode)
}
