package fullscreen_test

import (
	"testing"

	"github.com/dshills/taskorg/internal/listener/fullscreen"
	"github.com/dshills/taskorg/internal/organizer"
	"github.com/dshills/taskorg/internal/task"
)

func TestListenerTracksLifecycle(t *testing.T) {
	l := fullscreen.New(nil)

	leash := task.NewSurface()
	l.OnTaskAppeared(task.Info{ID: 1, Mode: task.WindowingModeFullscreen, Visible: true}, leash)

	if l.Count() != 1 {
		t.Fatalf("Count = %d, want 1", l.Count())
	}
	if l.VisibleCount() != 1 {
		t.Errorf("VisibleCount = %d, want 1", l.VisibleCount())
	}
	token, ok := l.Token(1)
	if !ok || token != leash.Token() {
		t.Errorf("Token(1) = (%q, %v), want (%q, true)", token, ok, leash.Token())
	}

	l.OnTaskInfoChanged(task.Info{ID: 1, Mode: task.WindowingModeFullscreen, Visible: false})
	if l.VisibleCount() != 0 {
		t.Errorf("VisibleCount after hide = %d, want 0", l.VisibleCount())
	}

	l.OnTaskVanished(task.Info{ID: 1, Mode: task.WindowingModeFullscreen})
	if l.Count() != 0 {
		t.Errorf("Count after vanish = %d, want 0", l.Count())
	}
}

func TestListenerUntrackedInfoChangeIsNoop(t *testing.T) {
	l := fullscreen.New(nil)

	l.OnTaskInfoChanged(task.Info{ID: 9, Mode: task.WindowingModeFullscreen})
	if l.Count() != 0 {
		t.Errorf("Count = %d, want 0", l.Count())
	}
}

func TestListenerBoundViaOrganizer(t *testing.T) {
	org := organizer.New()
	l := fullscreen.New(nil)
	if err := org.AddListener(l, task.WindowingModeFullscreen); err != nil {
		t.Fatalf("AddListener: %v", err)
	}

	org.OnTaskAppeared(task.Info{ID: 1, Mode: task.WindowingModeFullscreen, Visible: true}, task.NewSurface())
	org.OnTaskAppeared(task.Info{ID: 2, Mode: task.WindowingModeSplit, Visible: true}, task.NewSurface())

	if l.Count() != 1 {
		t.Fatalf("Count = %d, want 1 (split task must not reach fullscreen listener)", l.Count())
	}

	// A mode change out of fullscreen arrives as a vanish.
	if err := org.OnTaskInfoChanged(task.Info{ID: 1, Mode: task.WindowingModeSplit, Visible: true}); err != nil {
		t.Fatalf("OnTaskInfoChanged: %v", err)
	}
	if l.Count() != 0 {
		t.Errorf("Count = %d, want 0 after task left fullscreen", l.Count())
	}
}
