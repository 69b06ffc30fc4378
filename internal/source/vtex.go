// Package source implements harvest strategies for concrete catalog API
// conventions.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"catalog/harvester/internal/discovery"
	"catalog/harvester/internal/domain"
	"catalog/harvester/internal/fetcher"
	"catalog/harvester/internal/normalize"
)

// VTEX harvests catalogs exposed through the VTEX storefront convention: a
// category-tree endpoint plus a paginated search endpoint taking a category
// path with _from/_to offsets and a depth-derived map parameter. Most of the
// Argentine supermarket chains run on it.
type VTEX struct {
	fetcher    fetcher.Fetcher
	discoverer discovery.Discoverer
	baseURL    string
}

func NewVTEX(f fetcher.Fetcher, d discovery.Discoverer, baseURL string) *VTEX {
	return &VTEX{
		fetcher:    f,
		discoverer: d,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (s *VTEX) DiscoverCategories(ctx context.Context) ([]domain.CategoryPath, error) {
	return s.discoverer.Discover(ctx)
}

func (s *VTEX) FetchPage(ctx context.Context, path domain.CategoryPath, offset, pageSize int) (*domain.RawPage, error) {
	if offset < 0 {
		panic(fmt.Sprintf("negative pagination offset %d for %s", offset, path))
	}

	url := fmt.Sprintf("%s/api/catalog_system/pub/products/search/%s?_from=%d&_to=%d&map=%s",
		s.baseURL, path.String(), offset, offset+pageSize-1, mapParam(path))

	body, err := s.fetcher.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDecode, url, err)
	}

	return &domain.RawPage{
		Path:       path,
		Offset:     offset,
		Records:    records,
		StatusCode: http.StatusOK,
		ByteLength: len(body),
	}, nil
}

func (s *VTEX) ExtractRecords(page *domain.RawPage) []domain.ProductVariant {
	variants := make([]domain.ProductVariant, 0, len(page.Records))
	for _, record := range page.Records {
		variants = append(variants, normalize.Product(record)...)
	}
	log.Debugf("Extracted %d rows from %s offset=%d", len(variants), page.Path, page.Offset)
	return variants
}

// mapParam is "c,c,..." with one "c" per path segment; the search endpoint
// needs it to interpret the path as a category filter.
func mapParam(path domain.CategoryPath) string {
	parts := make([]string, path.Depth())
	for i := range parts {
		parts[i] = "c"
	}
	return strings.Join(parts, ",")
}
