package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"xsweep/monitoring"
	"xsweep/storage"
	"xsweep/twitter"
)

// ErrDailyCapReached signals that a deletion batch already ran today and the
// external daily quota should not be spent again.
var ErrDailyCapReached = errors.New("daily delete cap already consumed")

// PostDestroyer deletes a single post by ID.
type PostDestroyer interface {
	DestroyPost(id string) error
}

// Deleter drains the pending queue, at most batchSize posts per invocation.
type Deleter struct {
	destroyer PostDestroyer
	manager   *storage.Manager
	batchSize int
	dryRun    bool
}

func NewDeleter(destroyer PostDestroyer, manager *storage.Manager, batchSize int, dryRun bool) *Deleter {
	return &Deleter{
		destroyer: destroyer,
		manager:   manager,
		batchSize: batchSize,
		dryRun:    dryRun,
	}
}

// Run pops up to batchSize IDs from the front of the queue and deletes them.
// A post that fails for a reason specific to it (already deleted, protected)
// is logged and dropped; an auth, rate-limit or usage-cap failure aborts the
// batch, pushing nothing back and leaving unattempted IDs queued.
func (d *Deleter) Run(ctx context.Context, state *storage.State, now time.Time) error {
	if !state.LastRun.IsZero() && sameDay(state.LastRun, now) {
		return fmt.Errorf("%w: last run at %s", ErrDailyCapReached, state.LastRun.Format(time.RFC3339))
	}

	if len(state.Pending) == 0 {
		log.Info("Pending queue is empty, nothing to delete")
		state.LastRun = now
		return d.manager.SaveState(ctx, state)
	}

	batch := d.batchSize
	if len(state.Pending) < batch {
		batch = len(state.Pending)
	}

	if d.dryRun {
		for _, id := range state.Pending[:batch] {
			log.Infof("Dry run: would delete post %s", id)
		}
		log.Infof("Dry run complete: %d posts would be deleted, %d pending", batch, len(state.Pending))
		return nil
	}

	var (
		deleted   int
		dropped   int
		processed int
		abortErr  error
	)
	for _, id := range state.Pending[:batch] {
		if err := d.destroyer.DestroyPost(id); err != nil {
			if isAbortError(err) {
				monitoring.APIErrors.WithLabelValues("destroy").Inc()
				abortErr = fmt.Errorf("deleting post %s: %w", id, err)
				break
			}
			// The post may already be gone. Drop it and move on.
			log.Warnf("Failed to delete post %s, dropping from queue: %v", id, err)
			monitoring.DeleteFailures.Inc()
			dropped++
		} else {
			deleted++
		}
		processed++
	}

	state.Pending = state.Pending[processed:]
	monitoring.PostsDeleted.Add(float64(deleted))
	monitoring.QueueLength.Set(float64(len(state.Pending)))

	if abortErr == nil {
		state.LastRun = now
	}
	if err := d.manager.SaveState(ctx, state); err != nil {
		if abortErr != nil {
			log.Errorf("Error persisting state after aborted deletion: %v", err)
			return abortErr
		}
		return err
	}
	if abortErr != nil {
		return abortErr
	}

	log.Infof("Deletion complete: %d deleted, %d dropped, %d pending", deleted, dropped, len(state.Pending))
	return nil
}

// isAbortError reports whether the failure affects the whole run rather
// than the single post, so remaining queue entries must be preserved.
func isAbortError(err error) bool {
	return errors.Is(err, twitter.ErrUnauthorized) ||
		errors.Is(err, twitter.ErrRateLimited) ||
		errors.Is(err, twitter.ErrMonthlyCapExceeded)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
