package organizer

import (
	"github.com/dshills/taskorg/internal/logging"
	"github.com/dshills/taskorg/internal/task"
)

// Organizer routes task lifecycle events to listeners by windowing mode.
// See the package documentation for the routing rules and the serial
// execution contract. The zero value is not usable; construct with New.
type Organizer struct {
	log       *logging.Logger
	listeners *listenerRegistry
	tasks     *taskStore
	metrics   metrics
}

// New creates an Organizer with the given options.
func New(opts ...Option) *Organizer {
	o := &Organizer{
		log:       logging.Null,
		listeners: newListenerRegistry(),
		tasks:     newTaskStore(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// AddListener binds l to each given mode and backfills it: for every task
// already stored in a newly bound mode, l receives one OnTaskAppeared, in
// descending task ID order.
//
// Modes are processed independently. If a mode is already bound the call
// stops and returns a *RegistrationError for it; modes bound earlier in the
// same call stay bound and stay backfilled.
func (o *Organizer) AddListener(l TaskListener, modes ...task.WindowingMode) error {
	if l == nil {
		return ErrNilListener
	}
	if len(modes) == 0 {
		return ErrNoModes
	}

	o.log.Debug("add listener modes=%v listener=%T", modes, l)

	for _, mode := range modes {
		if err := o.listeners.add(l, mode); err != nil {
			return err
		}

		// Replay existing tasks in this mode to the new listener.
		for _, e := range o.tasks.byModeDescending(mode) {
			o.metrics.backfilled.Add(1)
			l.OnTaskAppeared(e.info, e.leash)
		}
	}
	return nil
}

// RemoveListener unbinds l from the mode it is registered under. Removing a
// listener that was never added is not an error; it logs a warning and
// leaves all bindings untouched.
func (o *Organizer) RemoveListener(l TaskListener) {
	o.log.Debug("remove listener=%T", l)

	mode, ok := o.listeners.removeByIdentity(l)
	if !ok {
		o.log.Warn("remove listener: no registered listener found (%T)", l)
		return
	}
	o.log.Debug("removed listener for mode=%s", mode)
}

// OnTaskAppeared records the task and notifies the listener for its mode,
// if any. The store write is unconditional: a repeated appeared event for
// the same ID overwrites the entry.
func (o *Organizer) OnTaskAppeared(info task.Info, leash *task.Surface) {
	o.log.Debug("task appeared taskId=%d mode=%s", info.ID, info.Mode)
	o.metrics.appeared.Add(1)

	o.tasks.put(info, leash)

	l, ok := o.listeners.get(info.Mode)
	if !ok {
		o.metrics.dropped.Add(1)
		return
	}
	l.OnTaskAppeared(info, leash)
}

// OnTaskInfoChanged updates the stored descriptor (the surface handle is
// unchanged) and routes the event. A mode change is routed as a synthesized
// pair: OnTaskVanished to the old mode's listener, then OnTaskAppeared to
// the new mode's listener, both carrying the new descriptor. An unchanged
// mode routes OnTaskInfoChanged to its listener.
//
// A task absent from the store is a protocol violation by the windowing
// collaborator; the store is untouched and a *UnknownTaskError is returned.
func (o *Organizer) OnTaskInfoChanged(info task.Info) error {
	o.log.Debug("task info changed taskId=%d mode=%s", info.ID, info.Mode)
	o.metrics.infoChanged.Add(1)

	prev, ok := o.tasks.get(info.ID)
	if !ok {
		o.metrics.violations.Add(1)
		return &UnknownTaskError{Op: "info-changed", ID: info.ID}
	}

	o.tasks.put(info, prev.leash)

	if prev.info.Mode != info.Mode {
		o.metrics.modeChanges.Add(1)
		// One atomic transition from the caller's perspective: the task
		// vanishes from the old mode and appears in the new one. Both
		// callbacks carry the new descriptor.
		if l, ok := o.listeners.get(prev.info.Mode); ok {
			l.OnTaskVanished(info)
		}
		if l, ok := o.listeners.get(info.Mode); ok {
			l.OnTaskAppeared(info, prev.leash)
		}
		return nil
	}

	l, ok := o.listeners.get(info.Mode)
	if !ok {
		o.metrics.dropped.Add(1)
		return nil
	}
	l.OnTaskInfoChanged(info)
	return nil
}

// OnTaskVanished removes the task from the store and notifies the listener
// for the mode the task had while stored, passing the incoming descriptor.
//
// A task absent from the store is a protocol violation; the call is a no-op
// beyond returning a *UnknownTaskError.
func (o *Organizer) OnTaskVanished(info task.Info) error {
	o.log.Debug("task vanished taskId=%d", info.ID)
	o.metrics.vanished.Add(1)

	prev, ok := o.tasks.get(info.ID)
	if !ok {
		o.metrics.violations.Add(1)
		return &UnknownTaskError{Op: "vanished", ID: info.ID}
	}

	prevMode := prev.info.Mode
	o.tasks.remove(info.ID)

	l, ok := o.listeners.get(prevMode)
	if !ok {
		o.metrics.dropped.Add(1)
		return nil
	}
	l.OnTaskVanished(info)
	return nil
}

// OnBackPressedOnTaskRoot notifies the listener for the mode carried by the
// incoming descriptor. No store state is read or written.
func (o *Organizer) OnBackPressedOnTaskRoot(info task.Info) {
	o.log.Debug("task root back pressed taskId=%d", info.ID)
	o.metrics.backPressed.Add(1)

	l, ok := o.listeners.get(info.Mode)
	if !ok {
		o.metrics.dropped.Add(1)
		return
	}
	l.OnBackPressedOnTaskRoot(info)
}

// ListenerFor returns the listener bound to mode.
func (o *Organizer) ListenerFor(mode task.WindowingMode) (TaskListener, bool) {
	return o.listeners.get(mode)
}

// TaskCount returns the number of stored tasks.
func (o *Organizer) TaskCount() int {
	return o.tasks.len()
}

// Tasks returns the descriptors of all stored tasks in the store's
// iteration order (descending task ID).
func (o *Organizer) Tasks() []task.Info {
	ids := o.tasks.idsDescending()
	infos := make([]task.Info, 0, len(ids))
	for _, id := range ids {
		e, _ := o.tasks.get(id)
		infos = append(infos, e.info)
	}
	return infos
}

// Stats returns a snapshot of organizer counters. The counter fields are
// read atomically, but Tasks and Listeners read the owned maps, so Stats
// follows the same serial execution contract as every other method.
func (o *Organizer) Stats() Stats {
	s := o.metrics.snapshot()
	s.Tasks = o.tasks.len()
	s.Listeners = o.listeners.count()
	return s
}
