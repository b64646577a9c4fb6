package storage

import (
	"context"
	"fmt"
	"time"
)

// State is the whole persisted state of the tool: the pending queue of
// post IDs (front first) and the last-run marker. Operations mutate it in
// memory and persist it at checkpoints through the Manager.
type State struct {
	Pending []string
	LastRun time.Time
}

// Queue persists the ordered list of pending post IDs.
type Queue interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, ids []string) error
	Close() error
}

// Manager owns the persisted state: a queue backend plus the last-run
// marker file.
type Manager struct {
	queue      Queue
	markerPath string
}

func NewManager(queue Queue, markerPath string) *Manager {
	return &Manager{
		queue:      queue,
		markerPath: markerPath,
	}
}

func (m *Manager) LoadState(ctx context.Context) (*State, error) {
	pending, err := m.queue.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading pending queue: %w", err)
	}
	lastRun, err := ReadLastRun(m.markerPath)
	if err != nil {
		return nil, fmt.Errorf("reading last-run marker: %w", err)
	}
	return &State{Pending: pending, LastRun: lastRun}, nil
}

func (m *Manager) SaveState(ctx context.Context, state *State) error {
	if err := m.queue.Save(ctx, state.Pending); err != nil {
		return fmt.Errorf("saving pending queue: %w", err)
	}
	if err := WriteLastRun(m.markerPath, state.LastRun); err != nil {
		return fmt.Errorf("writing last-run marker: %w", err)
	}
	return nil
}

func (m *Manager) Close() error {
	return m.queue.Close()
}
