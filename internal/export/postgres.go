package export

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"catalog/harvester/internal/domain"
	"catalog/harvester/internal/identity"
)

type postgresExporter struct {
	db *pgxpool.Pool
}

// NewPostgres upserts rows into the product_variants table keyed by identity.
func NewPostgres(db *pgxpool.Pool) Exporter {
	return &postgresExporter{
		db: db,
	}
}

func (e *postgresExporter) Export(ctx context.Context, result *domain.HarvestResult) error {
	query := `
	INSERT INTO product_variants (identity_key, ean, ref_code, name, category, subcategory,
		brand, manufacturer, list_price, offer_price, offer_label, available, url)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (identity_key)
	DO UPDATE SET ean = $2, ref_code = $3, name = $4, category = $5, subcategory = $6,
		brand = $7, manufacturer = $8, list_price = $9, offer_price = $10,
		offer_label = $11, available = $12, url = $13, updated_at = now()`

	saved := 0
	for i, v := range result.Variants {
		key := identity.KeyOf(v)
		id := key.Value
		if key.Synthetic {
			id = fmt.Sprintf("%s#%d", key.Value, i)
		}

		var offer *string
		if v.OfferPrice != nil {
			s := v.OfferPrice.String()
			offer = &s
		}

		_, err := e.db.Exec(ctx, query, id, v.EAN, v.RefCode, v.Name, v.Category, v.Subcategory,
			v.Brand, v.Manufacturer, v.ListPrice.String(), offer, v.OfferLabel, v.Available, v.URL)
		if err != nil {
			return fmt.Errorf("failed to save variant %s: %w", id, err)
		}
		saved++
	}

	log.Infof("💾 Upserted %d variants into Postgres", saved)
	return nil
}
