// Package fullscreen provides the built-in listener for fullscreen tasks.
//
// It is the default consumer of fullscreen lifecycle events: it keeps a
// shadow of the fullscreen tasks the organizer has routed to it, holding
// each task's leash token so the shell can correlate log output with the
// windowing collaborator's surfaces. Surface transactions themselves happen
// outside this module.
package fullscreen

import (
	"github.com/dshills/taskorg/internal/logging"
	"github.com/dshills/taskorg/internal/organizer"
	"github.com/dshills/taskorg/internal/task"
)

type trackedTask struct {
	token   string
	visible bool
}

// Listener tracks fullscreen tasks routed to it by the organizer. Like the
// organizer it relies on the serial execution contract and performs no
// locking.
type Listener struct {
	organizer.NoopListener

	log   *logging.Logger
	tasks map[task.ID]trackedTask
}

// New creates a fullscreen listener. A nil log discards output.
func New(log *logging.Logger) *Listener {
	if log == nil {
		log = logging.Null
	}
	return &Listener{
		log:   log.WithComponent("fullscreen"),
		tasks: make(map[task.ID]trackedTask),
	}
}

// OnTaskAppeared implements organizer.TaskListener.
func (l *Listener) OnTaskAppeared(info task.Info, leash *task.Surface) {
	l.tasks[info.ID] = trackedTask{token: leash.Token(), visible: info.Visible}
	l.log.Info("fullscreen task appeared taskId=%d visible=%v leash=%s", info.ID, info.Visible, leash.Token())
}

// OnTaskInfoChanged implements organizer.TaskListener.
func (l *Listener) OnTaskInfoChanged(info task.Info) {
	tracked, ok := l.tasks[info.ID]
	if !ok {
		// Routed here without an appeared; nothing to update.
		l.log.Warn("info changed for untracked fullscreen taskId=%d", info.ID)
		return
	}
	tracked.visible = info.Visible
	l.tasks[info.ID] = tracked
	l.log.Debug("fullscreen task updated taskId=%d visible=%v", info.ID, info.Visible)
}

// OnTaskVanished implements organizer.TaskListener.
func (l *Listener) OnTaskVanished(info task.Info) {
	delete(l.tasks, info.ID)
	l.log.Info("fullscreen task vanished taskId=%d", info.ID)
}

// Count returns the number of tracked fullscreen tasks.
func (l *Listener) Count() int {
	return len(l.tasks)
}

// VisibleCount returns the number of tracked tasks marked visible.
func (l *Listener) VisibleCount() int {
	n := 0
	for _, tracked := range l.tasks {
		if tracked.visible {
			n++
		}
	}
	return n
}

// Token returns the leash token held for a tracked task.
func (l *Listener) Token(id task.ID) (string, bool) {
	tracked, ok := l.tasks[id]
	return tracked.token, ok
}
