package task

import "github.com/google/uuid"

// Surface is the opaque rendering handle (leash) for a task. It is minted
// by the windowing collaborator at appearance time and owned by it; the
// organizer holds the pointer for the task's lifetime and drops it on
// vanish, never reconstructing or releasing it.
type Surface struct {
	id string
}

// NewSurface mints a surface handle with a fresh identity token.
// Only the windowing collaborator (or a test standing in for it) should
// call this.
func NewSurface() *Surface {
	return &Surface{id: uuid.New().String()}
}

// SurfaceFromToken rebuilds a handle around an existing identity token,
// as when replaying events recorded from a live session.
func SurfaceFromToken(token string) *Surface {
	return &Surface{id: token}
}

// Token returns the surface's identity token.
func (s *Surface) Token() string {
	if s == nil {
		return ""
	}
	return s.id
}
