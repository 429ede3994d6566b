// Package luascript adapts a Lua script into an organizer listener.
//
// A script defines any subset of four global functions:
//
//	function on_task_appeared(task, leash) end
//	function on_task_info_changed(task) end
//	function on_task_vanished(task) end
//	function on_back_pressed(task) end
//
// Each receives the task descriptor as a table (id, mode, visible, title,
// bounds{x,y,width,height}); on_task_appeared additionally receives the
// leash token as a string. Undefined functions are no-ops, mirroring the
// optional callbacks of organizer.TaskListener.
//
// The Lua state is not goroutine-safe, which is fine: listener callbacks
// only ever run on the organizer's serial execution context.
package luascript

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/taskorg/internal/logging"
	"github.com/dshills/taskorg/internal/task"
)

// Lua callback names looked up after the script runs.
const (
	fnAppeared    = "on_task_appeared"
	fnInfoChanged = "on_task_info_changed"
	fnVanished    = "on_task_vanished"
	fnBackPressed = "on_back_pressed"
)

// ErrClosed indicates a callback arrived after Close.
var ErrClosed = errors.New("luascript: listener closed")

// Listener runs a Lua script's callbacks as an organizer listener.
type Listener struct {
	state  *lua.LState
	log    *logging.Logger
	closed bool

	appeared    *lua.LFunction
	infoChanged *lua.LFunction
	vanished    *lua.LFunction
	backPressed *lua.LFunction
}

// New loads and runs the script file, then binds its callbacks.
// A nil log discards output. Call Close when done with the listener.
func New(path string, log *logging.Logger) (*Listener, error) {
	l := newListener(log)
	if err := l.state.DoFile(path); err != nil {
		l.state.Close()
		return nil, fmt.Errorf("luascript: load %s: %w", path, err)
	}
	l.bind()
	return l, nil
}

// NewFromString loads a script from source instead of a file.
func NewFromString(source string, log *logging.Logger) (*Listener, error) {
	l := newListener(log)
	if err := l.state.DoString(source); err != nil {
		l.state.Close()
		return nil, fmt.Errorf("luascript: load: %w", err)
	}
	l.bind()
	return l, nil
}

func newListener(log *logging.Logger) *Listener {
	if log == nil {
		log = logging.Null
	}
	return &Listener{
		state: lua.NewState(),
		log:   log.WithComponent("luascript"),
	}
}

// bind resolves the optional callback globals once, after the script runs.
func (l *Listener) bind() {
	l.appeared = l.global(fnAppeared)
	l.infoChanged = l.global(fnInfoChanged)
	l.vanished = l.global(fnVanished)
	l.backPressed = l.global(fnBackPressed)
}

func (l *Listener) global(name string) *lua.LFunction {
	fn, ok := l.state.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return nil
	}
	return fn
}

// Close releases the Lua state. Callbacks after Close are dropped with a
// warning.
func (l *Listener) Close() {
	if l.closed {
		return
	}
	l.closed = true
	l.state.Close()
}

// OnTaskAppeared implements organizer.TaskListener.
func (l *Listener) OnTaskAppeared(info task.Info, leash *task.Surface) {
	l.call(fnAppeared, l.appeared, l.infoTable(info), lua.LString(leash.Token()))
}

// OnTaskInfoChanged implements organizer.TaskListener.
func (l *Listener) OnTaskInfoChanged(info task.Info) {
	l.call(fnInfoChanged, l.infoChanged, l.infoTable(info))
}

// OnTaskVanished implements organizer.TaskListener.
func (l *Listener) OnTaskVanished(info task.Info) {
	l.call(fnVanished, l.vanished, l.infoTable(info))
}

// OnBackPressedOnTaskRoot implements organizer.TaskListener.
func (l *Listener) OnBackPressedOnTaskRoot(info task.Info) {
	l.call(fnBackPressed, l.backPressed, l.infoTable(info))
}

// call invokes fn with args, isolating script errors to a log line so a
// faulty script cannot take down event routing.
func (l *Listener) call(name string, fn *lua.LFunction, args ...lua.LValue) {
	if fn == nil {
		return
	}
	if l.closed {
		l.log.Warn("%s dropped: %v", name, ErrClosed)
		return
	}

	err := l.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...)
	if err != nil {
		l.log.Error("%s failed: %v", name, err)
	}
}

// infoTable converts a task descriptor to the table shape scripts receive.
func (l *Listener) infoTable(info task.Info) *lua.LTable {
	t := l.state.NewTable()
	t.RawSetString("id", lua.LNumber(info.ID))
	t.RawSetString("mode", lua.LString(info.Mode.String()))
	t.RawSetString("visible", lua.LBool(info.Visible))
	t.RawSetString("title", lua.LString(info.Title))

	bounds := l.state.NewTable()
	bounds.RawSetString("x", lua.LNumber(info.Bounds.X))
	bounds.RawSetString("y", lua.LNumber(info.Bounds.Y))
	bounds.RawSetString("width", lua.LNumber(info.Bounds.Width))
	bounds.RawSetString("height", lua.LNumber(info.Bounds.Height))
	t.RawSetString("bounds", bounds)

	return t
}
