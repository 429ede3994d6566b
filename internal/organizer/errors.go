package organizer

import (
	"errors"
	"fmt"

	"github.com/dshills/taskorg/internal/task"
)

// Organizer errors.
var (
	// ErrDuplicateListener indicates a listener is already registered for
	// the windowing mode.
	ErrDuplicateListener = errors.New("organizer: listener already registered for mode")

	// ErrUnknownTask indicates an event referenced a task absent from the
	// store, a protocol violation by the windowing collaborator.
	ErrUnknownTask = errors.New("organizer: task not in store")

	// ErrNilListener indicates a nil listener was passed to AddListener.
	ErrNilListener = errors.New("organizer: listener cannot be nil")

	// ErrNoModes indicates AddListener was called without any modes.
	ErrNoModes = errors.New("organizer: at least one windowing mode required")
)

// RegistrationError reports a duplicate listener registration. It names the
// contested mode and the listener already bound to it; the existing binding
// is left untouched.
type RegistrationError struct {
	// Mode is the windowing mode that was already bound.
	Mode task.WindowingMode

	// Existing is the listener currently bound to Mode.
	Existing TaskListener
}

// Error implements the error interface.
func (e *RegistrationError) Error() string {
	return fmt.Sprintf("organizer: listener for mode=%s already exists (%T)", e.Mode, e.Existing)
}

// Is allows errors.Is to match RegistrationError with ErrDuplicateListener.
func (e *RegistrationError) Is(target error) bool {
	return target == ErrDuplicateListener
}

// UnknownTaskError reports an event for a task the store has never seen or
// has already removed.
type UnknownTaskError struct {
	// Op is the event that referenced the missing task.
	Op string

	// ID is the missing task's identifier.
	ID task.ID
}

// Error implements the error interface.
func (e *UnknownTaskError) Error() string {
	return fmt.Sprintf("organizer: %s for unknown %s", e.Op, e.ID)
}

// Is allows errors.Is to match UnknownTaskError with ErrUnknownTask.
func (e *UnknownTaskError) Is(target error) bool {
	return target == ErrUnknownTask
}
