package organizer

import (
	"sort"

	"github.com/dshills/taskorg/internal/task"
)

// entry pairs a task descriptor with its surface handle for the lifetime of
// the task.
type entry struct {
	info  task.Info
	leash *task.Surface
}

// taskStore is the authoritative snapshot of currently-known tasks, keyed by
// task ID. An entry exists exactly while the task is between its appeared
// and vanished events.
//
// The store is exclusively owned by the Organizer and relies on its serial
// execution contract; it performs no locking.
type taskStore struct {
	entries map[task.ID]entry
}

func newTaskStore() *taskStore {
	return &taskStore{
		entries: make(map[task.ID]entry),
	}
}

// put inserts or overwrites the entry for info.ID.
func (s *taskStore) put(info task.Info, leash *task.Surface) {
	s.entries[info.ID] = entry{info: info, leash: leash}
}

// get returns the entry for id.
func (s *taskStore) get(id task.ID) (entry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

// remove deletes the entry for id.
func (s *taskStore) remove(id task.ID) {
	delete(s.entries, id)
}

// len returns the number of stored tasks.
func (s *taskStore) len() int {
	return len(s.entries)
}

// idsDescending returns all stored task IDs in descending order. This is
// the store's documented iteration order; backfill replays follow it.
func (s *taskStore) idsDescending() []task.ID {
	ids := make([]task.ID, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	return ids
}

// byModeDescending returns the entries whose descriptor carries mode, in
// descending task ID order.
func (s *taskStore) byModeDescending(mode task.WindowingMode) []entry {
	var matched []entry
	for _, id := range s.idsDescending() {
		if e := s.entries[id]; e.info.Mode == mode {
			matched = append(matched, e)
		}
	}
	return matched
}
