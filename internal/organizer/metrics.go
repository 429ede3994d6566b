package organizer

import "sync/atomic"

// metrics counts routed events. Counters are atomic so Stats can be read
// from outside the serial execution context (for admin/debug surfaces)
// without violating the organizer's single-writer contract.
type metrics struct {
	appeared    atomic.Uint64
	infoChanged atomic.Uint64
	vanished    atomic.Uint64
	backPressed atomic.Uint64

	modeChanges atomic.Uint64
	backfilled  atomic.Uint64
	dropped     atomic.Uint64
	violations  atomic.Uint64
}

// Stats is a point-in-time snapshot of organizer counters.
type Stats struct {
	// Appeared is the number of OnTaskAppeared events received.
	Appeared uint64

	// InfoChanged is the number of OnTaskInfoChanged events received.
	InfoChanged uint64

	// Vanished is the number of OnTaskVanished events received.
	Vanished uint64

	// BackPressed is the number of OnBackPressedOnTaskRoot events received.
	BackPressed uint64

	// ModeChanges is the number of info-changed events routed as a
	// synthesized vanished/appeared pair.
	ModeChanges uint64

	// Backfilled is the number of OnTaskAppeared replays delivered to
	// newly added listeners.
	Backfilled uint64

	// Dropped is the number of events with no listener for their mode.
	Dropped uint64

	// Violations is the number of events rejected because the task was
	// not in the store.
	Violations uint64

	// Tasks is the current store size.
	Tasks int

	// Listeners is the current number of bound modes.
	Listeners int
}

func (m *metrics) snapshot() Stats {
	return Stats{
		Appeared:    m.appeared.Load(),
		InfoChanged: m.infoChanged.Load(),
		Vanished:    m.vanished.Load(),
		BackPressed: m.backPressed.Load(),
		ModeChanges: m.modeChanges.Load(),
		Backfilled:  m.backfilled.Load(),
		Dropped:     m.dropped.Load(),
		Violations:  m.violations.Load(),
	}
}
