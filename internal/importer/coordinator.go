package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	objectdm "github.com/autotracker/tracker-admin/internal/core/datamodel/object"
	userdm "github.com/autotracker/tracker-admin/internal/core/datamodel/user"
	"github.com/autotracker/tracker-admin/internal/scraper"
)

// UserUpserter persists one user record, replacing an existing row with the
// same userId.
type UserUpserter interface {
	Upsert(ctx context.Context, user *userdm.User) error
}

// ObjectBulkUpserter persists a batch of objects, updating only the mutable
// columns on objectId conflicts.
type ObjectBulkUpserter interface {
	BulkUpsert(ctx context.Context, objects []objectdm.TrackedObject) error
}

// ObjectFetcher yields the raw device rows for one user from the legacy
// panel.
type ObjectFetcher interface {
	FetchObjects(ctx context.Context, userID string) ([]scraper.RawRow, error)
}

// Summary reports rows processed, not rows newly created: re-importing the
// same data yields the same numbers.
type Summary struct {
	Users          int64 `json:"users"`
	Objects        int64 `json:"objects"`
	ScrapeFailures int64 `json:"scrapeFailures"`
}

// Coordinator drives a full import: per source row it transforms and
// upserts the user, fetches that user's objects, and bulk-upserts the batch.
// A scrape failure downgrades to an empty batch and a counter bump; a
// persistence failure aborts the run. Rows upserted before an abort stay
// committed — each upsert is its own unit of work.
type Coordinator struct {
	users   UserUpserter
	objects ObjectBulkUpserter
	fetcher ObjectFetcher
	workers int
	logger  *slog.Logger
}

func NewCoordinator(users UserUpserter, objects ObjectBulkUpserter, fetcher ObjectFetcher, workers int, logger *slog.Logger) *Coordinator {
	if workers <= 0 {
		workers = 1
	}
	return &Coordinator{
		users:   users,
		objects: objects,
		fetcher: fetcher,
		workers: workers,
		logger:  logger,
	}
}

// ImportAll processes every source row. With workers=1 rows are handled
// strictly in sequence; with more, a bounded pool spreads users across
// workers. One worker owns a whole user, so the user row always lands
// before its object rows.
func (c *Coordinator) ImportAll(ctx context.Context, rows []scraper.RawRow) (Summary, error) {
	c.logger.Info("starting import", "source_rows", len(rows), "workers", c.workers)

	if c.workers == 1 {
		return c.importSequential(ctx, rows)
	}
	return c.importParallel(ctx, rows)
}

func (c *Coordinator) importSequential(ctx context.Context, rows []scraper.RawRow) (Summary, error) {
	var summary Summary
	for _, row := range rows {
		objects, scrapeFailed, err := c.importOne(ctx, row)
		if err != nil {
			return summary, err
		}
		summary.Users++
		summary.Objects += objects
		if scrapeFailed {
			summary.ScrapeFailures++
		}
	}

	c.logger.Info("import finished",
		"users", summary.Users,
		"objects", summary.Objects,
		"scrape_failures", summary.ScrapeFailures)
	return summary, nil
}

func (c *Coordinator) importParallel(ctx context.Context, rows []scraper.RawRow) (Summary, error) {
	var (
		users          atomic.Int64
		objects        atomic.Int64
		scrapeFailures atomic.Int64

		firstErr error
		errOnce  sync.Once
		wg       sync.WaitGroup
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan scraper.RawRow)

	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range jobs {
				imported, scrapeFailed, err := c.importOne(ctx, row)
				if err != nil {
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})
					return
				}
				users.Add(1)
				objects.Add(imported)
				if scrapeFailed {
					scrapeFailures.Add(1)
				}
			}
		}()
	}

feed:
	for _, row := range rows {
		select {
		case jobs <- row:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	summary := Summary{
		Users:          users.Load(),
		Objects:        objects.Load(),
		ScrapeFailures: scrapeFailures.Load(),
	}

	if firstErr != nil {
		return summary, firstErr
	}
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return summary, err
	}

	c.logger.Info("import finished",
		"users", summary.Users,
		"objects", summary.Objects,
		"scrape_failures", summary.ScrapeFailures)
	return summary, nil
}

func (c *Coordinator) importOne(ctx context.Context, row scraper.RawRow) (int64, bool, error) {
	user := TransformUserRow(row)
	if err := c.users.Upsert(ctx, &user); err != nil {
		return 0, false, fmt.Errorf("upsert user %s: %w", user.UserID, err)
	}

	rawObjects, err := c.fetcher.FetchObjects(ctx, user.UserID)
	if err != nil {
		// Backward-compatible default: a failed scrape is processed as zero
		// objects, but the failure stays visible in the summary.
		c.logger.Warn("object scrape failed, continuing with empty batch",
			"user_id", user.UserID, "error", err)
		return 0, true, nil
	}

	if len(rawObjects) == 0 {
		c.logger.Debug("user has no objects", "user_id", user.UserID)
		return 0, false, nil
	}

	batch := make([]objectdm.TrackedObject, 0, len(rawObjects))
	for _, raw := range rawObjects {
		batch = append(batch, TransformObjectRow(raw, user.UserID))
	}

	if err := c.objects.BulkUpsert(ctx, batch); err != nil {
		return 0, false, fmt.Errorf("bulk upsert %d objects for user %s: %w", len(batch), user.UserID, err)
	}

	c.logger.Debug("imported user", "user_id", user.UserID, "objects", len(batch))
	return int64(len(batch)), false, nil
}
