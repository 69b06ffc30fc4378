package harvest

import (
	"context"

	"catalog/harvester/internal/domain"
)

// Strategy is the source-specific part of a harvest: how categories are
// discovered, how one pagination window is fetched, and how raw records
// become canonical rows. The coordinator and paginator are generic over it;
// the dozens of per-retailer variations live behind this interface.
type Strategy interface {
	// DiscoverCategories walks the site's category structure into a flat
	// list of traversal paths.
	DiscoverCategories(ctx context.Context) ([]domain.CategoryPath, error)

	// FetchPage issues one pagination request for the window starting at
	// offset.
	FetchPage(ctx context.Context, path domain.CategoryPath, offset, pageSize int) (*domain.RawPage, error)

	// ExtractRecords flattens the page's raw records into canonical rows.
	ExtractRecords(page *domain.RawPage) []domain.ProductVariant
}
