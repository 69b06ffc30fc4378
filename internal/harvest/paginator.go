package harvest

import (
	"context"

	log "github.com/sirupsen/logrus"

	"catalog/harvester/internal/domain"
)

// Paginator drives offset-based pagination over one category path until a
// termination condition is met. It is transport-agnostic: only the strategy
// knows whether pages come from a JSON API or a rendered listing.
//
// States: Start -> Fetching -> (Accumulating | Stalled | Exhausted). A fetch
// failure counts as an empty page for streak purposes; reaching the offset
// ceiling before the source signals end-of-data terminates in Stalled.
type Paginator struct {
	strategy      Strategy
	pageSize      int
	emptyStreak   int
	offsetCeiling int
}

func NewPaginator(strategy Strategy, pageSize, emptyStreak, offsetCeiling int) *Paginator {
	if pageSize <= 0 {
		panic("paginator: page size must be positive")
	}
	if emptyStreak <= 0 {
		emptyStreak = 2
	}
	return &Paginator{
		strategy:      strategy,
		pageSize:      pageSize,
		emptyStreak:   emptyStreak,
		offsetCeiling: offsetCeiling,
	}
}

// Run paginates one path to a terminal state, handing each page's rows to
// emit in offset order. It always returns a report; no error escapes.
func (p *Paginator) Run(ctx context.Context, path domain.CategoryPath, emit func([]domain.ProductVariant)) domain.PathReport {
	report := domain.PathReport{Path: path, Status: domain.PathStatusExhausted}

	offset := 0
	streak := 0
	successPages := 0

	for {
		if ctx.Err() != nil {
			log.Debugf("Deadline reached while paginating %s, keeping partial results", path)
			break
		}

		if p.offsetCeiling > 0 && offset >= p.offsetCeiling {
			log.Warnf("⚠️ Offset ceiling %d reached for %s, abandoning path", p.offsetCeiling, path)
			report.Status = domain.PathStatusStalled
			break
		}

		page, err := p.strategy.FetchPage(ctx, path, offset, p.pageSize)
		report.PagesFetched++

		var rows []domain.ProductVariant
		if err != nil {
			report.Failures++
			log.Warnf("🔄 Page fetch failed for %s offset=%d, treating as empty: %v", path, offset, err)
		} else {
			successPages++
			if !page.Empty() {
				rows = p.strategy.ExtractRecords(page)
			}
		}

		if len(rows) == 0 {
			streak++
			if streak >= p.emptyStreak {
				break
			}
		} else {
			streak = 0
			report.Rows += len(rows)
			emit(rows)
		}

		offset += p.pageSize
	}

	if report.Status == domain.PathStatusExhausted && successPages == 0 && report.Failures > 0 {
		report.Status = domain.PathStatusFailed
	}

	log.Debugf("Path %s finished: %s after %d pages, %d rows", path, report.Status, report.PagesFetched, report.Rows)
	return report
}
