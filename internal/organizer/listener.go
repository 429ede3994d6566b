package organizer

import "github.com/dshills/taskorg/internal/task"

// TaskListener receives lifecycle callbacks for all tasks of the windowing
// modes it is registered for. Implementations that only care about a subset
// of callbacks should embed NoopListener.
type TaskListener interface {
	// OnTaskAppeared is called when a task enters the listener's mode,
	// either by appearing there or by changing mode into it. The leash is
	// owned by the windowing collaborator; copy the token if it must be
	// kept past the callback.
	OnTaskAppeared(info task.Info, leash *task.Surface)

	// OnTaskInfoChanged is called when a task's descriptor changes without
	// leaving the listener's mode.
	OnTaskInfoChanged(info task.Info)

	// OnTaskVanished is called when a task leaves the listener's mode,
	// either by vanishing or by changing mode out of it. During a mode
	// change the descriptor already carries the new mode.
	OnTaskVanished(info task.Info)

	// OnBackPressedOnTaskRoot is called when back is pressed on the root
	// of a task in the listener's mode.
	OnBackPressedOnTaskRoot(info task.Info)
}

// NoopListener implements TaskListener with empty methods. Embed it to
// implement only the callbacks a listener cares about.
type NoopListener struct{}

func (NoopListener) OnTaskAppeared(task.Info, *task.Surface) {}
func (NoopListener) OnTaskInfoChanged(task.Info)             {}
func (NoopListener) OnTaskVanished(task.Info)                {}
func (NoopListener) OnBackPressedOnTaskRoot(task.Info)       {}

// ListenerFuncs adapts plain functions to TaskListener. Any nil field is a
// no-op. Use a single *ListenerFuncs value for AddListener and
// RemoveListener; removal matches by identity.
type ListenerFuncs struct {
	Appeared    func(info task.Info, leash *task.Surface)
	InfoChanged func(info task.Info)
	Vanished    func(info task.Info)
	BackPressed func(info task.Info)
}

// OnTaskAppeared implements TaskListener.
func (l *ListenerFuncs) OnTaskAppeared(info task.Info, leash *task.Surface) {
	if l.Appeared != nil {
		l.Appeared(info, leash)
	}
}

// OnTaskInfoChanged implements TaskListener.
func (l *ListenerFuncs) OnTaskInfoChanged(info task.Info) {
	if l.InfoChanged != nil {
		l.InfoChanged(info)
	}
}

// OnTaskVanished implements TaskListener.
func (l *ListenerFuncs) OnTaskVanished(info task.Info) {
	if l.Vanished != nil {
		l.Vanished(info)
	}
}

// OnBackPressedOnTaskRoot implements TaskListener.
func (l *ListenerFuncs) OnBackPressedOnTaskRoot(info task.Info) {
	if l.BackPressed != nil {
		l.BackPressed(info)
	}
}
