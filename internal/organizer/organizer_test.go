package organizer_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/taskorg/internal/logging"
	"github.com/dshills/taskorg/internal/organizer"
	"github.com/dshills/taskorg/internal/task"
)

// recorder captures every callback it receives, in order.
type recorder struct {
	calls []recordedCall
}

type recordedCall struct {
	kind  string
	info  task.Info
	leash *task.Surface
}

func (r *recorder) OnTaskAppeared(info task.Info, leash *task.Surface) {
	r.calls = append(r.calls, recordedCall{kind: "appeared", info: info, leash: leash})
}

func (r *recorder) OnTaskInfoChanged(info task.Info) {
	r.calls = append(r.calls, recordedCall{kind: "infoChanged", info: info})
}

func (r *recorder) OnTaskVanished(info task.Info) {
	r.calls = append(r.calls, recordedCall{kind: "vanished", info: info})
}

func (r *recorder) OnBackPressedOnTaskRoot(info task.Info) {
	r.calls = append(r.calls, recordedCall{kind: "backPressed", info: info})
}

func (r *recorder) count(kind string) int {
	n := 0
	for _, c := range r.calls {
		if c.kind == kind {
			n++
		}
	}
	return n
}

func fullscreenTask(id task.ID) task.Info {
	return task.Info{ID: id, Mode: task.WindowingModeFullscreen, Visible: true}
}

func TestAddListenerNil(t *testing.T) {
	org := organizer.New()

	err := org.AddListener(nil, task.WindowingModeFullscreen)
	if !errors.Is(err, organizer.ErrNilListener) {
		t.Fatalf("err = %v, want ErrNilListener", err)
	}
}

func TestAddListenerNoModes(t *testing.T) {
	org := organizer.New()

	err := org.AddListener(&recorder{})
	if !errors.Is(err, organizer.ErrNoModes) {
		t.Fatalf("err = %v, want ErrNoModes", err)
	}
}

func TestAddListenerDuplicateMode(t *testing.T) {
	org := organizer.New()
	first := &recorder{}
	second := &recorder{}

	if err := org.AddListener(first, task.WindowingModeFullscreen); err != nil {
		t.Fatalf("first AddListener: %v", err)
	}

	err := org.AddListener(second, task.WindowingModeFullscreen)
	if !errors.Is(err, organizer.ErrDuplicateListener) {
		t.Fatalf("err = %v, want ErrDuplicateListener", err)
	}

	var regErr *organizer.RegistrationError
	if !errors.As(err, &regErr) {
		t.Fatalf("err = %T, want *RegistrationError", err)
	}
	if regErr.Mode != task.WindowingModeFullscreen {
		t.Errorf("RegistrationError.Mode = %v, want fullscreen", regErr.Mode)
	}
	if regErr.Existing != organizer.TaskListener(first) {
		t.Error("RegistrationError.Existing should name the first listener")
	}

	// Mapping untouched: events still route to the first listener.
	org.OnTaskAppeared(fullscreenTask(1), task.NewSurface())
	if first.count("appeared") != 1 {
		t.Errorf("first listener appeared calls = %d, want 1", first.count("appeared"))
	}
	if len(second.calls) != 0 {
		t.Errorf("second listener received %d calls, want 0", len(second.calls))
	}
}

func TestAddListenerDuplicateKeepsEarlierModes(t *testing.T) {
	org := organizer.New()
	occupied := &recorder{}
	late := &recorder{}

	if err := org.AddListener(occupied, task.WindowingModeSplit); err != nil {
		t.Fatalf("AddListener: %v", err)
	}

	// Freeform binds, then split fails. Modes are processed independently,
	// so the freeform binding survives.
	err := org.AddListener(late, task.WindowingModeFreeform, task.WindowingModeSplit)
	if !errors.Is(err, organizer.ErrDuplicateListener) {
		t.Fatalf("err = %v, want ErrDuplicateListener", err)
	}

	org.OnTaskAppeared(task.Info{ID: 1, Mode: task.WindowingModeFreeform}, task.NewSurface())
	if late.count("appeared") != 1 {
		t.Errorf("freeform binding lost: appeared calls = %d, want 1", late.count("appeared"))
	}
}

func TestBackfillCompleteness(t *testing.T) {
	org := organizer.New()

	org.OnTaskAppeared(task.Info{ID: 1, Mode: task.WindowingModeFullscreen}, task.NewSurface())
	org.OnTaskAppeared(task.Info{ID: 2, Mode: task.WindowingModeFullscreen}, task.NewSurface())
	org.OnTaskAppeared(task.Info{ID: 3, Mode: task.WindowingModeSplit}, task.NewSurface())

	rec := &recorder{}
	if err := org.AddListener(rec, task.WindowingModeFullscreen); err != nil {
		t.Fatalf("AddListener: %v", err)
	}

	if got := rec.count("appeared"); got != 2 {
		t.Fatalf("backfill delivered %d appeared calls, want 2", got)
	}
	for _, c := range rec.calls {
		if c.info.Mode != task.WindowingModeFullscreen {
			t.Errorf("backfilled task %v has mode %v, want fullscreen", c.info.ID, c.info.Mode)
		}
		if c.leash == nil {
			t.Errorf("backfilled task %v delivered without its leash", c.info.ID)
		}
	}
}

func TestBackfillOrderDescendingID(t *testing.T) {
	org := organizer.New()
	for _, id := range []task.ID{5, 9, 2, 7} {
		org.OnTaskAppeared(task.Info{ID: id, Mode: task.WindowingModePinned}, task.NewSurface())
	}

	rec := &recorder{}
	if err := org.AddListener(rec, task.WindowingModePinned); err != nil {
		t.Fatalf("AddListener: %v", err)
	}

	want := []task.ID{9, 7, 5, 2}
	if len(rec.calls) != len(want) {
		t.Fatalf("backfill calls = %d, want %d", len(rec.calls), len(want))
	}
	for i, c := range rec.calls {
		if c.info.ID != want[i] {
			t.Errorf("backfill[%d] = %v, want %v", i, c.info.ID, want[i])
		}
	}
}

func TestBackfillMultiModeOncePerTask(t *testing.T) {
	org := organizer.New()
	org.OnTaskAppeared(task.Info{ID: 1, Mode: task.WindowingModeSplit}, task.NewSurface())
	org.OnTaskAppeared(task.Info{ID: 2, Mode: task.WindowingModeFreeform}, task.NewSurface())

	rec := &recorder{}
	err := org.AddListener(rec, task.WindowingModeSplit, task.WindowingModeFreeform)
	if err != nil {
		t.Fatalf("AddListener: %v", err)
	}

	if got := rec.count("appeared"); got != 2 {
		t.Errorf("appeared calls = %d, want 2 (one per matching task)", got)
	}
}

func TestRemoveListenerUnknownIsWarnOnlyNoop(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf})
	org := organizer.New(organizer.WithLogger(log))

	bound := &recorder{}
	if err := org.AddListener(bound, task.WindowingModeFullscreen); err != nil {
		t.Fatalf("AddListener: %v", err)
	}

	// Never registered; must not panic, must not disturb existing bindings.
	org.RemoveListener(&recorder{})

	if !strings.Contains(buf.String(), "no registered listener found") {
		t.Error("expected a warning for unknown listener removal")
	}
	if _, ok := org.ListenerFor(task.WindowingModeFullscreen); !ok {
		t.Error("existing binding disturbed by unknown-listener removal")
	}
}

func TestRemoveListenerUnbindsMode(t *testing.T) {
	org := organizer.New()
	rec := &recorder{}
	if err := org.AddListener(rec, task.WindowingModeFullscreen); err != nil {
		t.Fatalf("AddListener: %v", err)
	}

	org.RemoveListener(rec)

	if _, ok := org.ListenerFor(task.WindowingModeFullscreen); ok {
		t.Fatal("listener still bound after RemoveListener")
	}

	// Events for the mode now drop silently.
	org.OnTaskAppeared(fullscreenTask(1), task.NewSurface())
	if len(rec.calls) != 0 {
		t.Errorf("removed listener received %d calls, want 0", len(rec.calls))
	}
}

func TestRemoveListenerOneModeAtATime(t *testing.T) {
	org := organizer.New()
	rec := &recorder{}
	err := org.AddListener(rec, task.WindowingModeSplit, task.WindowingModeFreeform)
	if err != nil {
		t.Fatalf("AddListener: %v", err)
	}

	// Identity lookup removes a single mode binding per call.
	org.RemoveListener(rec)

	remaining := 0
	for _, mode := range []task.WindowingMode{task.WindowingModeSplit, task.WindowingModeFreeform} {
		if _, ok := org.ListenerFor(mode); ok {
			remaining++
		}
	}
	if remaining != 1 {
		t.Errorf("bindings remaining = %d, want 1", remaining)
	}

	org.RemoveListener(rec)
	if org.Stats().Listeners != 0 {
		t.Error("expected all bindings removed after second call")
	}
}

func TestAppearedRoutesToModeListener(t *testing.T) {
	org := organizer.New()
	rec := &recorder{}
	if err := org.AddListener(rec, task.WindowingModeFullscreen); err != nil {
		t.Fatalf("AddListener: %v", err)
	}

	leash := task.NewSurface()
	info := fullscreenTask(7)
	org.OnTaskAppeared(info, leash)

	if len(rec.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(rec.calls))
	}
	c := rec.calls[0]
	if c.kind != "appeared" {
		t.Errorf("kind = %q, want appeared", c.kind)
	}
	if c.info != info {
		t.Errorf("info = %+v, want %+v", c.info, info)
	}
	if c.leash != leash {
		t.Error("leash not forwarded by reference")
	}
}

func TestAppearedUnmatchedModeIsSilent(t *testing.T) {
	org := organizer.New()
	rec := &recorder{}
	if err := org.AddListener(rec, task.WindowingModeSplit); err != nil {
		t.Fatalf("AddListener: %v", err)
	}

	org.OnTaskAppeared(fullscreenTask(1), task.NewSurface())

	if len(rec.calls) != 0 {
		t.Errorf("unrelated listener received %d calls, want 0", len(rec.calls))
	}
	if org.TaskCount() != 1 {
		t.Errorf("store size = %d, want 1 (task stored despite no listener)", org.TaskCount())
	}
}

func TestAppearedTwiceOverwritesEntry(t *testing.T) {
	org := organizer.New()

	org.OnTaskAppeared(task.Info{ID: 1, Mode: task.WindowingModeFullscreen, Title: "old"}, task.NewSurface())
	org.OnTaskAppeared(task.Info{ID: 1, Mode: task.WindowingModeFullscreen, Title: "new"}, task.NewSurface())

	if org.TaskCount() != 1 {
		t.Fatalf("store size = %d, want 1", org.TaskCount())
	}
	if got := org.Tasks()[0].Title; got != "new" {
		t.Errorf("stored title = %q, want %q", got, "new")
	}
}

func TestInfoChangedSameModeExactlyOnce(t *testing.T) {
	org := organizer.New()
	rec := &recorder{}
	if err := org.AddListener(rec, task.WindowingModeFullscreen); err != nil {
		t.Fatalf("AddListener: %v", err)
	}

	org.OnTaskAppeared(fullscreenTask(1), task.NewSurface())

	updated := fullscreenTask(1)
	updated.Title = "renamed"
	if err := org.OnTaskInfoChanged(updated); err != nil {
		t.Fatalf("OnTaskInfoChanged: %v", err)
	}

	if got := rec.count("infoChanged"); got != 1 {
		t.Errorf("infoChanged calls = %d, want 1", got)
	}
	if rec.count("vanished") != 0 || rec.count("appeared") != 1 {
		t.Error("no-change update must not synthesize vanished/appeared")
	}
	if rec.calls[1].info.Title != "renamed" {
		t.Errorf("listener saw title %q, want %q", rec.calls[1].info.Title, "renamed")
	}
}

func TestInfoChangedModeChangeAtomicPair(t *testing.T) {
	org := organizer.New()
	fullscreen := &recorder{}
	split := &recorder{}
	if err := org.AddListener(fullscreen, task.WindowingModeFullscreen); err != nil {
		t.Fatalf("AddListener fullscreen: %v", err)
	}
	if err := org.AddListener(split, task.WindowingModeSplit); err != nil {
		t.Fatalf("AddListener split: %v", err)
	}

	leash := task.NewSurface()
	org.OnTaskAppeared(fullscreenTask(1), leash)

	moved := task.Info{ID: 1, Mode: task.WindowingModeSplit, Visible: true}
	if err := org.OnTaskInfoChanged(moved); err != nil {
		t.Fatalf("OnTaskInfoChanged: %v", err)
	}

	// Old-mode listener: exactly one vanished, carrying the NEW descriptor.
	if got := fullscreen.count("vanished"); got != 1 {
		t.Fatalf("fullscreen vanished calls = %d, want 1", got)
	}
	vanish := fullscreen.calls[len(fullscreen.calls)-1]
	if vanish.info.Mode != task.WindowingModeSplit {
		t.Errorf("vanished descriptor mode = %v, want the new mode (split)", vanish.info.Mode)
	}

	// New-mode listener: exactly one appeared with the stored leash.
	if got := split.count("appeared"); got != 1 {
		t.Fatalf("split appeared calls = %d, want 1", got)
	}
	appear := split.calls[0]
	if appear.info != moved {
		t.Errorf("appeared descriptor = %+v, want %+v", appear.info, moved)
	}
	if appear.leash != leash {
		t.Error("appeared leash differs from the stored handle")
	}

	// Neither side gets an info-changed for the transition.
	if fullscreen.count("infoChanged") != 0 || split.count("infoChanged") != 0 {
		t.Error("mode change must not deliver OnTaskInfoChanged")
	}

	// Store follows the task into its new mode.
	if got := org.Tasks()[0].Mode; got != task.WindowingModeSplit {
		t.Errorf("stored mode = %v, want split", got)
	}
}

func TestInfoChangedModeChangeWithoutListenersIsSilent(t *testing.T) {
	org := organizer.New()
	org.OnTaskAppeared(fullscreenTask(1), task.NewSurface())

	moved := task.Info{ID: 1, Mode: task.WindowingModeFreeform}
	if err := org.OnTaskInfoChanged(moved); err != nil {
		t.Fatalf("OnTaskInfoChanged: %v", err)
	}
	if got := org.Tasks()[0].Mode; got != task.WindowingModeFreeform {
		t.Errorf("stored mode = %v, want freeform", got)
	}
}

func TestInfoChangedUnknownTask(t *testing.T) {
	org := organizer.New()

	err := org.OnTaskInfoChanged(fullscreenTask(42))
	if !errors.Is(err, organizer.ErrUnknownTask) {
		t.Fatalf("err = %v, want ErrUnknownTask", err)
	}

	var unknownErr *organizer.UnknownTaskError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("err = %T, want *UnknownTaskError", err)
	}
	if unknownErr.ID != 42 || unknownErr.Op != "info-changed" {
		t.Errorf("UnknownTaskError = %+v", unknownErr)
	}

	if org.TaskCount() != 0 {
		t.Error("store must stay untouched on protocol violation")
	}
}

func TestVanishedRemovesAndRoutesByStoredMode(t *testing.T) {
	org := organizer.New()
	fullscreen := &recorder{}
	split := &recorder{}
	if err := org.AddListener(fullscreen, task.WindowingModeFullscreen); err != nil {
		t.Fatalf("AddListener: %v", err)
	}
	if err := org.AddListener(split, task.WindowingModeSplit); err != nil {
		t.Fatalf("AddListener: %v", err)
	}

	org.OnTaskAppeared(fullscreenTask(3), task.NewSurface())

	// The vanish descriptor claims a different mode; routing must use the
	// stored (previous) mode, but the listener receives the incoming
	// descriptor as-is.
	gone := task.Info{ID: 3, Mode: task.WindowingModeSplit, Title: "closing"}
	if err := org.OnTaskVanished(gone); err != nil {
		t.Fatalf("OnTaskVanished: %v", err)
	}

	if got := fullscreen.count("vanished"); got != 1 {
		t.Fatalf("fullscreen vanished calls = %d, want 1", got)
	}
	if got := fullscreen.calls[len(fullscreen.calls)-1].info; got != gone {
		t.Errorf("vanished descriptor = %+v, want the incoming one %+v", got, gone)
	}
	if len(split.calls) != 0 {
		t.Error("split listener must not hear a fullscreen task vanish")
	}
	if org.TaskCount() != 0 {
		t.Errorf("store size = %d, want 0 after vanish", org.TaskCount())
	}
}

func TestVanishedUnknownTask(t *testing.T) {
	org := organizer.New()

	err := org.OnTaskVanished(fullscreenTask(9))
	if !errors.Is(err, organizer.ErrUnknownTask) {
		t.Fatalf("err = %v, want ErrUnknownTask", err)
	}
}

func TestVanishClearsStoreForFollowUps(t *testing.T) {
	org := organizer.New()
	org.OnTaskAppeared(fullscreenTask(1), task.NewSurface())

	if err := org.OnTaskVanished(fullscreenTask(1)); err != nil {
		t.Fatalf("OnTaskVanished: %v", err)
	}

	if err := org.OnTaskInfoChanged(fullscreenTask(1)); !errors.Is(err, organizer.ErrUnknownTask) {
		t.Errorf("info-changed after vanish: err = %v, want ErrUnknownTask", err)
	}
	if err := org.OnTaskVanished(fullscreenTask(1)); !errors.Is(err, organizer.ErrUnknownTask) {
		t.Errorf("double vanish: err = %v, want ErrUnknownTask", err)
	}
}

func TestBackPressedPureDispatch(t *testing.T) {
	org := organizer.New()
	rec := &recorder{}
	if err := org.AddListener(rec, task.WindowingModeFreeform); err != nil {
		t.Fatalf("AddListener: %v", err)
	}

	// Never stored; back-pressed routes on the incoming descriptor alone.
	info := task.Info{ID: 11, Mode: task.WindowingModeFreeform}
	org.OnBackPressedOnTaskRoot(info)

	if got := rec.count("backPressed"); got != 1 {
		t.Fatalf("backPressed calls = %d, want 1", got)
	}
	if org.TaskCount() != 0 {
		t.Error("back-pressed must not mutate the store")
	}

	// Unbound mode drops silently.
	org.OnBackPressedOnTaskRoot(fullscreenTask(12))
	if got := rec.count("backPressed"); got != 1 {
		t.Errorf("backPressed calls = %d, want still 1", got)
	}
}

func TestListenerFuncsNilFieldsAreNoops(t *testing.T) {
	org := organizer.New()

	var appeared int
	funcs := &organizer.ListenerFuncs{
		Appeared: func(task.Info, *task.Surface) { appeared++ },
		// InfoChanged, Vanished, BackPressed left nil on purpose.
	}
	if err := org.AddListener(funcs, task.WindowingModeFullscreen); err != nil {
		t.Fatalf("AddListener: %v", err)
	}

	info := fullscreenTask(1)
	org.OnTaskAppeared(info, task.NewSurface())
	if err := org.OnTaskInfoChanged(info); err != nil {
		t.Fatalf("OnTaskInfoChanged: %v", err)
	}
	org.OnBackPressedOnTaskRoot(info)
	if err := org.OnTaskVanished(info); err != nil {
		t.Fatalf("OnTaskVanished: %v", err)
	}

	if appeared != 1 {
		t.Errorf("appeared = %d, want 1", appeared)
	}
}

func TestStatsCounters(t *testing.T) {
	org := organizer.New()
	rec := &recorder{}
	if err := org.AddListener(rec, task.WindowingModeFullscreen); err != nil {
		t.Fatalf("AddListener: %v", err)
	}

	org.OnTaskAppeared(fullscreenTask(1), task.NewSurface())
	org.OnTaskAppeared(task.Info{ID: 2, Mode: task.WindowingModeSplit}, task.NewSurface())

	moved := task.Info{ID: 1, Mode: task.WindowingModeSplit}
	if err := org.OnTaskInfoChanged(moved); err != nil {
		t.Fatalf("OnTaskInfoChanged: %v", err)
	}
	if err := org.OnTaskInfoChanged(fullscreenTask(99)); err == nil {
		t.Fatal("expected protocol violation for unknown task")
	}

	late := &recorder{}
	if err := org.AddListener(late, task.WindowingModeSplit); err != nil {
		t.Fatalf("AddListener: %v", err)
	}

	stats := org.Stats()
	if stats.Appeared != 2 {
		t.Errorf("Appeared = %d, want 2", stats.Appeared)
	}
	if stats.InfoChanged != 2 {
		t.Errorf("InfoChanged = %d, want 2", stats.InfoChanged)
	}
	if stats.ModeChanges != 1 {
		t.Errorf("ModeChanges = %d, want 1", stats.ModeChanges)
	}
	if stats.Violations != 1 {
		t.Errorf("Violations = %d, want 1", stats.Violations)
	}
	if stats.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1 (split appear before split listener)", stats.Dropped)
	}
	if stats.Backfilled != 2 {
		t.Errorf("Backfilled = %d, want 2 (both tasks are split now)", stats.Backfilled)
	}
	if stats.Tasks != 2 {
		t.Errorf("Tasks = %d, want 2", stats.Tasks)
	}
	if stats.Listeners != 2 {
		t.Errorf("Listeners = %d, want 2", stats.Listeners)
	}
}

func TestTasksSnapshotOrder(t *testing.T) {
	org := organizer.New()
	for _, id := range []task.ID{4, 1, 8} {
		org.OnTaskAppeared(task.Info{ID: id, Mode: task.WindowingModeFullscreen}, task.NewSurface())
	}

	tasks := org.Tasks()
	want := []task.ID{8, 4, 1}
	if len(tasks) != len(want) {
		t.Fatalf("Tasks() len = %d, want %d", len(tasks), len(want))
	}
	for i, info := range tasks {
		if info.ID != want[i] {
			t.Errorf("Tasks()[%d].ID = %v, want %v", i, info.ID, want[i])
		}
	}
}
