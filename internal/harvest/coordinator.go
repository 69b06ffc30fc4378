package harvest

import (
	"context"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"catalog/harvester/internal/config"
	"catalog/harvester/internal/domain"
	"catalog/harvester/internal/identity"
)

// Coordinator runs the paginator over all discovered paths under a bounded
// concurrency budget, aggregates rows and drives final deduplication. It owns
// the accumulating row set and the identity index for the duration of one
// run; no state survives across runs.
type Coordinator struct {
	strategy Strategy
	cfg      config.HarvesterConfig
}

func NewCoordinator(strategy Strategy, cfg config.HarvesterConfig) *Coordinator {
	return &Coordinator{
		strategy: strategy,
		cfg:      cfg,
	}
}

// Run discovers all category paths and harvests them. Errors from individual
// paths never fail the run; they are recorded in the result. Discovery
// failure yields a completed run with zero paths. On deadline expiry no new
// paths are dispatched and partial results are returned.
func (c *Coordinator) Run(ctx context.Context) *domain.HarvestResult {
	if c.cfg.RunDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, time.Now().Add(c.cfg.RunDeadline))
		defer cancel()
	}

	paths, err := c.strategy.DiscoverCategories(ctx)
	if err != nil {
		log.Errorf("❌ Category discovery failed, completing with zero paths: %v", err)
		return &domain.HarvestResult{Variants: []domain.ProductVariant{}}
	}

	log.Infof("📂 Discovered %d category paths", len(paths))
	return c.Harvest(ctx, paths)
}

// Harvest paginates the given paths with at most cfg.Concurrency in flight.
func (c *Coordinator) Harvest(ctx context.Context, paths []domain.CategoryPath) *domain.HarvestResult {
	concurrency := c.cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	idx := newIndex()
	paginator := NewPaginator(c.strategy, c.cfg.PageSize, c.cfg.EmptyStreak, c.cfg.OffsetCeiling)

	pathCh := make(chan domain.CategoryPath)
	reportCh := make(chan domain.PathReport, len(paths))

	g := new(errgroup.Group)
	for i := 0; i < concurrency; i++ {
		worker := i + 1
		g.Go(func() error {
			for path := range pathCh {
				log.Infof("🔄 Worker %d harvesting %s", worker, path)
				reportCh <- paginator.Run(ctx, path, idx.insertAll)
			}
			return nil
		})
	}

	dispatched := 0
dispatch:
	for _, path := range paths {
		if ctx.Err() != nil {
			log.Warnf("⏱️ Run deadline reached, %d of %d paths not dispatched", len(paths)-dispatched, len(paths))
			break
		}
		select {
		case pathCh <- path:
			dispatched++
		case <-ctx.Done():
			break dispatch
		}
	}
	close(pathCh)

	_ = g.Wait()
	close(reportCh)

	result := &domain.HarvestResult{
		PathsDiscovered: len(paths),
		PathsAttempted:  dispatched,
	}
	for report := range reportCh {
		result.Reports = append(result.Reports, report)
		result.PagesFetched += report.PagesFetched
		switch report.Status {
		case domain.PathStatusStalled:
			result.PathsStalled++
		case domain.PathStatusFailed:
			result.PathsFailed++
		}
	}

	result.Variants = idx.snapshot()
	result.RowsBeforeDedup = idx.inserted
	result.RowsAfterDedup = len(result.Variants)

	log.Infof("✅ Harvest complete: %d paths, %d pages, %d rows (%d after dedup)",
		result.PathsAttempted, result.PagesFetched, result.RowsBeforeDedup, result.RowsAfterDedup)
	return result
}

// index is the shared identity-keyed row set. Last writer wins on collision:
// pagination order holds within a path but not across paths, and catalog data
// is not transactionally consistent at the source either.
type index struct {
	mu        sync.Mutex
	rows      map[string]domain.ProductVariant
	order     []string
	inserted  int
	synthetic int
}

func newIndex() *index {
	return &index{rows: make(map[string]domain.ProductVariant)}
}

func (ix *index) insertAll(variants []domain.ProductVariant) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for _, v := range variants {
		ix.inserted++

		key := identity.KeyOf(v)
		id := key.Value
		if key.Synthetic {
			// Rows without any stable identifier are assumed unique.
			ix.synthetic++
			id = id + "#" + strconv.Itoa(ix.synthetic)
		}

		if _, seen := ix.rows[id]; !seen {
			ix.order = append(ix.order, id)
		}
		ix.rows[id] = v
	}
}

func (ix *index) snapshot() []domain.ProductVariant {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	out := make([]domain.ProductVariant, 0, len(ix.order))
	for _, id := range ix.order {
		out = append(out, ix.rows[id])
	}
	return out
}
