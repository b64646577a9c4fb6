package tasks

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"xsweep/storage"
	"xsweep/twitter"
)

type fakeDestroyer struct {
	calls    []string
	failWith map[string]error
}

func (f *fakeDestroyer) DestroyPost(id string) error {
	f.calls = append(f.calls, id)
	if err, ok := f.failWith[id]; ok {
		return err
	}
	return nil
}

func newTestManager(t *testing.T) *storage.Manager {
	t.Helper()
	dir := t.TempDir()
	return storage.NewManager(
		storage.NewFileQueue(filepath.Join(dir, "pending_posts.json")),
		filepath.Join(dir, "last_run.txt"),
	)
}

func ids(n int) []string {
	result := make([]string, n)
	for i := range result {
		result[i] = fmt.Sprintf("10%02d", i)
	}
	return result
}

func TestDeleterEmptyQueue(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager(t)
	destroyer := &fakeDestroyer{}
	deleter := NewDeleter(destroyer, manager, 17, false)

	state := &storage.State{}
	if err := deleter.Run(ctx, state, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(destroyer.calls) != 0 {
		t.Errorf("expected no delete calls, got %d", len(destroyer.calls))
	}
}

func TestDeleterDrainsSmallQueue(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager(t)
	destroyer := &fakeDestroyer{}
	deleter := NewDeleter(destroyer, manager, 17, false)

	state := &storage.State{Pending: ids(5)}
	if err := deleter.Run(ctx, state, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(destroyer.calls) != 5 {
		t.Errorf("got %d delete calls, want 5", len(destroyer.calls))
	}
	if len(state.Pending) != 0 {
		t.Errorf("queue not drained, %d entries left", len(state.Pending))
	}

	reloaded, err := manager.LoadState(ctx)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(reloaded.Pending) != 0 {
		t.Errorf("persisted queue not empty, %d entries left", len(reloaded.Pending))
	}
}

func TestDeleterHonorsBatchSize(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager(t)
	destroyer := &fakeDestroyer{}
	deleter := NewDeleter(destroyer, manager, 17, false)

	state := &storage.State{Pending: ids(40)}
	if err := deleter.Run(ctx, state, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(destroyer.calls) != 17 {
		t.Errorf("got %d delete calls, want 17", len(destroyer.calls))
	}
	if len(state.Pending) != 23 {
		t.Errorf("got %d pending entries, want 23", len(state.Pending))
	}
}

func TestDeleterRateLimitPreservesQueue(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager(t)
	pending := ids(5)
	destroyer := &fakeDestroyer{
		failWith: map[string]error{
			pending[2]: fmt.Errorf("%w: 429", twitter.ErrRateLimited),
		},
	}
	deleter := NewDeleter(destroyer, manager, 17, false)

	state := &storage.State{Pending: append([]string{}, pending...)}
	err := deleter.Run(ctx, state, time.Now())
	if !errors.Is(err, twitter.ErrRateLimited) {
		t.Fatalf("got %v, want rate-limit error", err)
	}
	if len(destroyer.calls) != 3 {
		t.Errorf("got %d delete calls, want 3", len(destroyer.calls))
	}
	// The rate-limited post and everything after it stay queued, in order.
	if !reflect.DeepEqual(state.Pending, pending[2:]) {
		t.Errorf("got pending %v, want %v", state.Pending, pending[2:])
	}

	reloaded, err := manager.LoadState(ctx)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reflect.DeepEqual(reloaded.Pending, pending[2:]) {
		t.Errorf("persisted pending %v, want %v", reloaded.Pending, pending[2:])
	}
	if !reloaded.LastRun.IsZero() {
		t.Error("marker advanced despite aborted run")
	}
}

func TestDeleterDropsUndeletablePost(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager(t)
	pending := ids(3)
	destroyer := &fakeDestroyer{
		failWith: map[string]error{
			pending[1]: errors.New("status not found"),
		},
	}
	deleter := NewDeleter(destroyer, manager, 17, false)

	state := &storage.State{Pending: append([]string{}, pending...)}
	if err := deleter.Run(ctx, state, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(destroyer.calls) != 3 {
		t.Errorf("got %d delete calls, want 3", len(destroyer.calls))
	}
	if len(state.Pending) != 0 {
		t.Errorf("queue not drained, %d entries left", len(state.Pending))
	}
}

func TestDeleterDailyCap(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager(t)
	destroyer := &fakeDestroyer{}
	deleter := NewDeleter(destroyer, manager, 17, false)

	now := time.Date(2025, time.March, 14, 18, 0, 0, 0, time.UTC)
	state := &storage.State{
		Pending: ids(5),
		LastRun: now.Add(-2 * time.Hour),
	}
	err := deleter.Run(ctx, state, now)
	if !errors.Is(err, ErrDailyCapReached) {
		t.Fatalf("got %v, want ErrDailyCapReached", err)
	}
	if len(destroyer.calls) != 0 {
		t.Errorf("expected no delete calls, got %d", len(destroyer.calls))
	}
	if len(state.Pending) != 5 {
		t.Errorf("queue modified, %d entries left", len(state.Pending))
	}
}

func TestDeleterDryRun(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager(t)
	destroyer := &fakeDestroyer{}
	deleter := NewDeleter(destroyer, manager, 17, true)

	state := &storage.State{Pending: ids(5)}
	if err := deleter.Run(ctx, state, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(destroyer.calls) != 0 {
		t.Errorf("dry run made %d delete calls", len(destroyer.calls))
	}
	if len(state.Pending) != 5 {
		t.Errorf("dry run modified the queue, %d entries left", len(state.Pending))
	}
}
