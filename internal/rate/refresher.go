package rate

import (
	"bufio"
	"context"
	"eurofx/internal/adapters"
	"eurofx/internal/domain"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultBatchSize = 1000
	maxFeedLineSize  = 1024 * 1024
)

type refreshStats struct {
	read       int
	rejected   int
	duplicates int
	saved      int
}

// Refresher reloads the full rate history from the bulk feed. At most one reload runs at a time.
type Refresher struct {
	client    adapters.RatesClient
	repo      adapters.RateRepository
	cache     adapters.RateCache
	batchSize int

	refreshing atomic.Bool
}

func (r *Refresher) IsRefreshing() bool {
	return r.refreshing.Load()
}

// Refresh runs a reload in the calling goroutine.
// It returns domain.ErrRefreshInProgress when another reload holds the flag.
func (r *Refresher) Refresh(ctx context.Context) error {
	if !r.refreshing.CompareAndSwap(false, true) {
		return domain.ErrRefreshInProgress
	}
	defer r.refreshing.Store(false)

	return r.run(ctx, uuid.NewString())
}

// StartRefresh launches a reload in the background and reports whether it was started.
func (r *Refresher) StartRefresh(ctx context.Context) bool {
	if !r.refreshing.CompareAndSwap(false, true) {
		return false
	}

	execID := uuid.NewString()
	go func() {
		defer r.refreshing.Store(false)
		if err := r.run(ctx, execID); err != nil {
			logrus.WithError(err).WithField("exec_id", execID).Error("Exchange rates refresh failed")
		}
	}()
	return true
}

func (r *Refresher) run(ctx context.Context, execID string) error {
	log := logrus.WithField("exec_id", execID)
	log.Info("Exchange rates refresh started")

	stats, err := r.ingest(ctx)

	// STEP 4: new records may belong to dates that are already cached
	if stats.saved > 0 {
		r.cache.Clear()
	}

	log = log.WithFields(logrus.Fields{
		"read":       stats.read,
		"rejected":   stats.rejected,
		"duplicates": stats.duplicates,
		"saved":      stats.saved,
	})
	if err != nil {
		log.Warn("Exchange rates refresh aborted")
		return fmt.Errorf("refresh %s: %w", execID, err)
	}
	log.Info("Exchange rates refresh finished")
	return nil
}

func (r *Refresher) ingest(ctx context.Context) (refreshStats, error) {
	var stats refreshStats

	// STEP 1: opening the feed; it is read line by line and never held in memory as a whole
	body, err := r.client.FetchBulkFeed(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to fetch bulk feed: %w", err)
	}
	defer func() { _ = body.Close() }()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFeedLineSize)

	// STEP 2: the first line is the header
	if !scanner.Scan() {
		if err = scanner.Err(); err != nil {
			return stats, fmt.Errorf("failed to read bulk feed: %w", err)
		}
		return stats, nil
	}

	// STEP 3: parse, drop known keys, persist in feed order
	batch := make([]domain.Rate, 0, r.batchSize)
	pending := make(map[domain.RateKey]struct{}, r.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := r.repo.UpsertAll(ctx, batch); err != nil {
			return fmt.Errorf("failed to save %d rates: %w", len(batch), err)
		}
		stats.saved += len(batch)
		batch = batch[:0]
		clear(pending)
		return nil
	}

	for scanner.Scan() {
		stats.read++
		rate, ok := ParseFeedLine(scanner.Text())
		if !ok {
			stats.rejected++
			continue
		}

		key := rate.Key()
		if _, ok = pending[key]; ok {
			stats.duplicates++
			continue
		}
		exists, existsErr := r.repo.ExistsByKey(ctx, rate.CurrencyCode, rate.Date)
		if existsErr != nil {
			return stats, fmt.Errorf("failed to check rate %s: %w", rate.CurrencyCode, existsErr)
		}
		if exists {
			stats.duplicates++
			continue
		}

		batch = append(batch, rate)
		pending[key] = struct{}{}
		if len(batch) >= r.batchSize {
			if err = flush(); err != nil {
				return stats, err
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read bulk feed: %w", err)
	}

	return stats, flush()
}

func NewRefresher(client adapters.RatesClient, repo adapters.RateRepository, cache adapters.RateCache, batchSize int) *Refresher {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Refresher{client: client, repo: repo, cache: cache, batchSize: batchSize}
}
