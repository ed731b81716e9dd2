// Package cleaner runs the scheduled story expiry sweep.
package cleaner

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wavegram/backend/internal/repositories"
	"github.com/wavegram/backend/pkg/logger"
)

const (
	sweepTimeout   = 2 * time.Minute
	tombstoneBatch = 200
)

// mediaDeleter is the slice of the object store the sweeper needs.
type mediaDeleter interface {
	Delete(ctx context.Context, id string) error
}

// StoryCleaner purges expired stories in two decoupled steps: expired rows
// are tombstoned and deleted first, then tombstones are drained against the
// remote store. A failed remote delete keeps its tombstone and is retried on
// the next run, so row cleanup never blocks on the media host and no orphan
// is silently forgotten.
type StoryCleaner struct {
	stories repositories.StoryRepository
	media   mediaDeleter
	cron    *cron.Cron
	spec    string
}

func NewStoryCleaner(stories repositories.StoryRepository, media mediaDeleter, spec string) *StoryCleaner {
	return &StoryCleaner{
		stories: stories,
		media:   media,
		cron:    cron.New(),
		spec:    spec,
	}
}

// Start schedules the sweep and runs one immediately to catch up after
// downtime.
func (c *StoryCleaner) Start() error {
	if _, err := c.cron.AddFunc(c.spec, c.sweep); err != nil {
		return err
	}
	c.cron.Start()
	go c.sweep()
	return nil
}

func (c *StoryCleaner) Stop() {
	<-c.cron.Stop().Done()
}

func (c *StoryCleaner) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if err := c.RunOnce(ctx); err != nil {
		logger.Error("story cleanup sweep failed", "error", err)
	}
}

// RunOnce performs one full sweep: tombstone + delete expired rows, then
// drain tombstones.
func (c *StoryCleaner) RunOnce(ctx context.Context) error {
	purged, err := c.stories.TombstoneExpired(ctx)
	if err != nil {
		return err
	}
	if purged > 0 {
		logger.Info("purged expired stories", "count", purged)
	}

	return c.drainTombstones(ctx)
}

func (c *StoryCleaner) drainTombstones(ctx context.Context) error {
	tombs, err := c.stories.PendingTombstones(ctx, tombstoneBatch)
	if err != nil {
		return err
	}

	for _, tomb := range tombs {
		// One stubborn object must not abort the batch.
		if err := c.media.Delete(ctx, tomb.MediaID); err != nil {
			logger.Warn("deleting remote media object", "media_id", tomb.MediaID, "error", err)
			continue
		}
		if err := c.stories.DeleteTombstone(ctx, tomb.ID); err != nil {
			logger.Warn("deleting media tombstone", "media_id", tomb.MediaID, "error", err)
		}
	}
	return nil
}
