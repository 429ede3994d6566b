// Package organizer routes task lifecycle events to listeners by windowing mode.
//
// The organizer is the hub between the windowing collaborator (the source of
// truth for tasks and their surfaces) and listener implementations that act
// on tasks of one windowing mode. It tracks every reported task so it can
// detect mode transitions and replay current state to newly added listeners.
//
// # Architecture
//
// Three parts make up the package:
//
//  1. Listener registry: maps windowing mode to listener, at most one
//     listener per mode. Adding a listener for an occupied mode fails;
//     removing an unknown listener is a logged no-op.
//
//  2. Task store: maps task ID to (descriptor, surface handle). An entry
//     exists exactly while the task is between its appeared and vanished
//     events. Only the organizer's event callbacks mutate the store.
//
//  3. Dispatcher: the four lifecycle callbacks. Events for a mode with no
//     listener are dropped silently; a task may exist with no interested
//     listener.
//
// # Routing rules
//
// OnTaskAppeared stores the task and notifies the listener for its mode.
// OnTaskVanished removes the task and notifies the listener for the mode it
// had while stored. OnBackPressedOnTaskRoot is a pure dispatch with no store
// mutation.
//
// OnTaskInfoChanged detects windowing mode transitions. A task moving from
// mode A to mode B is reported as OnTaskVanished to A's listener followed by
// OnTaskAppeared to B's listener, both carrying the new descriptor. There is
// no dedicated mode-changed callback. When the mode is unchanged the mode's
// listener gets OnTaskInfoChanged.
//
// # Adding listeners
//
// AddListener immediately replays OnTaskAppeared to the new listener for
// every stored task in each newly bound mode, in descending task ID order,
// so listeners added late observe the same world as listeners added early.
//
// # Threading contract
//
// The organizer performs no internal locking. All public methods must run on
// one serial execution context, typically an executor.Serial owned by the
// shell. Listener callbacks run synchronously on that same context and must
// not call back into the organizer before the outer call returns. Listeners
// must not retain the descriptor or surface beyond the callback except by
// copying.
//
// # Usage
//
//	org := organizer.New(organizer.WithLogger(log))
//
//	if err := org.AddListener(fsListener, task.WindowingModeFullscreen); err != nil {
//	    // mode already bound
//	}
//
//	// Windowing collaborator boundary:
//	org.OnTaskAppeared(info, leash)
//	if err := org.OnTaskInfoChanged(updated); err != nil {
//	    // protocol violation: task was never reported as appeared
//	}
package organizer
