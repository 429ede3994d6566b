package task

import "fmt"

// ID uniquely identifies a task for its whole lifetime.
type ID int32

// String returns the ID in "task-N" form for logs.
func (id ID) String() string {
	return fmt.Sprintf("task-%d", int32(id))
}

// Bounds is the task's position and size in display coordinates.
// The organizer treats it as opaque descriptive state.
type Bounds struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Info is the task descriptor reported by the windowing collaborator.
// The organizer routes on Mode and treats every other field as opaque.
// Info is a value type; listeners that need it beyond the callback must
// copy it (trivially, by assignment).
type Info struct {
	// ID is the stable task identifier.
	ID ID

	// Mode is the windowing mode that determines routing.
	Mode WindowingMode

	// Bounds is descriptive state, not interpreted by the organizer.
	Bounds Bounds

	// Visible is descriptive state, not interpreted by the organizer.
	Visible bool

	// Title is descriptive state, not interpreted by the organizer.
	Title string
}
