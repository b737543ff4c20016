package timer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sadopc/taskday/internal/domain"
)

var errBackend = errors.New("backend unavailable")

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// memStore is an in-memory EntryStore with failure switches.
type memStore struct {
	mu      sync.Mutex
	entries map[string]domain.TimeEntry
	seq     int
	inserts int
	updates int

	failList   bool
	failGet    bool
	failInsert bool
	failUpdate bool
}

func newMemStore() *memStore {
	return &memStore{entries: map[string]domain.TimeEntry{}}
}

func (m *memStore) ListEntries(_ context.Context, taskID string) ([]domain.TimeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList {
		return nil, errBackend
	}
	var out []domain.TimeEntry
	for _, e := range m.entries {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartAt.Equal(out[j].StartAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartAt.Before(out[j].StartAt)
	})
	return out, nil
}

func (m *memStore) GetEntry(_ context.Context, id string) (*domain.TimeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, errBackend
	}
	e, ok := m.entries[id]
	if !ok {
		return nil, fmt.Errorf("time entry %s: %w", id, domain.ErrNotFound)
	}
	return &e, nil
}

func (m *memStore) InsertEntry(_ context.Context, taskID string, startAt time.Time) (*domain.TimeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsert {
		return nil, errBackend
	}
	m.seq++
	m.inserts++
	e := domain.TimeEntry{ID: fmt.Sprintf("e%03d", m.seq), TaskID: taskID, StartAt: startAt, CreatedAt: startAt}
	m.entries[e.ID] = e
	return &e, nil
}

func (m *memStore) UpdateEntry(_ context.Context, id string, endAt time.Time, durationSeconds int64) (*domain.TimeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdate {
		return nil, errBackend
	}
	e, ok := m.entries[id]
	if !ok {
		return nil, fmt.Errorf("time entry %s: %w", id, domain.ErrNotFound)
	}
	m.updates++
	e.EndAt = &endAt
	e.DurationSeconds = &durationSeconds
	m.entries[id] = e
	return &e, nil
}

func (m *memStore) DeleteEntry(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// put seeds an entry directly. A zero duration with end set leaves
// DurationSeconds nil.
func (m *memStore) put(id, taskID string, start time.Time, end *time.Time, duration *int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = domain.TimeEntry{ID: id, TaskID: taskID, StartAt: start, EndAt: end, DurationSeconds: duration}
}

func (m *memStore) putClosed(id, taskID string, start time.Time, secs int64) {
	end := start.Add(time.Duration(secs) * time.Second)
	m.put(id, taskID, start, &end, &secs)
}

// memTargets is an in-memory TargetStore.
type memTargets struct {
	mu      sync.Mutex
	targets map[string]int64
	fail    bool
}

func newMemTargets() *memTargets {
	return &memTargets{targets: map[string]int64{}}
}

func (m *memTargets) Target(_ context.Context, taskID string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return 0, false, errBackend
	}
	v, ok := m.targets[taskID]
	return v, ok, nil
}

func (m *memTargets) SetTarget(_ context.Context, taskID string, seconds int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets[taskID] = seconds
	return nil
}

func (m *memTargets) ClearTarget(_ context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.targets, taskID)
	return nil
}

// fixedClock returns a clock function and a setter.
func fixedClock(start time.Time) (func() time.Time, func(time.Time)) {
	var mu sync.Mutex
	now := start
	return func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}, func(t time.Time) {
			mu.Lock()
			defer mu.Unlock()
			now = t
		}
}

func ptr[T any](v T) *T { return &v }
