package tasks

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"xsweep/monitoring"
	"xsweep/storage"
	"xsweep/twitter"
)

// TimelineSource lists one page of the account's timeline. maxID == 0 means
// the newest page; the returned cursor is 0 when there are no more pages.
type TimelineSource interface {
	TimelinePage(maxID int64, count int) ([]twitter.Post, int64, error)
}

// Retriever fills the pending queue from the account timeline, deduplicating
// against IDs already queued. The platform only exposes the most recent
// posts (itemCap), so the queue refills as older posts surface after each
// deletion cycle.
type Retriever struct {
	source   TimelineSource
	manager  *storage.Manager
	pageSize int
	itemCap  int
}

func NewRetriever(source TimelineSource, manager *storage.Manager, pageSize, itemCap int) *Retriever {
	return &Retriever{
		source:   source,
		manager:  manager,
		pageSize: pageSize,
		itemCap:  itemCap,
	}
}

// Run pages through the timeline until the item cap or the last page,
// appending unseen IDs to the queue. Pages fetched before a failure are
// still persisted; the failure is surfaced afterwards.
func (r *Retriever) Run(ctx context.Context, state *storage.State, now time.Time) error {
	seen := make(map[string]struct{}, len(state.Pending))
	for _, id := range state.Pending {
		seen[id] = struct{}{}
	}

	var (
		fetched int
		added   int
		maxID   int64
		pageErr error
	)
	for fetched < r.itemCap {
		count := r.pageSize
		if remaining := r.itemCap - fetched; remaining < count {
			count = remaining
		}

		posts, nextMaxID, err := r.source.TimelinePage(maxID, count)
		if err != nil {
			monitoring.APIErrors.WithLabelValues("timeline").Inc()
			pageErr = fmt.Errorf("listing timeline: %w", err)
			break
		}
		if len(posts) == 0 {
			break
		}

		fetched += len(posts)
		for _, post := range posts {
			if _, ok := seen[post.ID]; ok {
				continue
			}
			seen[post.ID] = struct{}{}
			state.Pending = append(state.Pending, post.ID)
			added++
			log.Debugf("Queued post %s: %.60s", post.ID, post.Text)
		}

		if nextMaxID == 0 {
			break
		}
		maxID = nextMaxID
	}

	monitoring.PostsRetrieved.Add(float64(added))
	monitoring.QueueLength.Set(float64(len(state.Pending)))

	if pageErr == nil {
		state.LastRun = now
	}
	if err := r.manager.SaveState(ctx, state); err != nil {
		if pageErr != nil {
			log.Errorf("Error persisting state after failed retrieval: %v", err)
			return pageErr
		}
		return err
	}
	if pageErr != nil {
		return pageErr
	}

	log.Infof("Retrieval complete: %d posts fetched, %d queued, %d pending", fetched, added, len(state.Pending))
	return nil
}
