// Package task defines the task descriptor types shared between the
// windowing collaborator, the organizer, and listener implementations.
//
// A task is an opaque unit of visual/work context. The organizer never
// interprets a task's descriptive state; it only routes on the task's
// windowing mode. The surface handle (leash) is minted and owned by the
// windowing collaborator - this package only models the reference.
package task
