// Package export hands finished harvests to external sinks. The engine has
// no dependency on any specific output format; sinks are pluggable.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"catalog/harvester/internal/domain"
)

type Exporter interface {
	Export(ctx context.Context, result *domain.HarvestResult) error
}

type csvExporter struct {
	path string
}

// NewCSV writes the deduplicated rows to a CSV file.
func NewCSV(path string) Exporter {
	return &csvExporter{path: path}
}

func (e *csvExporter) Export(ctx context.Context, result *domain.HarvestResult) error {
	f, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"ean", "ref_code", "name", "category", "subcategory", "brand", "manufacturer",
		"list_price", "offer_price", "offer_label", "available", "url"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, v := range result.Variants {
		offer := ""
		if v.OfferPrice != nil {
			offer = v.OfferPrice.StringFixed(2)
		}
		available := "false"
		if v.Available {
			available = "true"
		}
		row := []string{v.EAN, v.RefCode, v.Name, v.Category, v.Subcategory, v.Brand, v.Manufacturer,
			v.ListPrice.StringFixed(2), offer, v.OfferLabel, available, v.URL}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	log.Infof("💾 CSV saved: %s (%d rows)", e.path, len(result.Variants))
	return nil
}
