package domain

import "github.com/shopspring/decimal"

// ProductVariant is the canonical row emitted by normalization: one sellable
// unit of a product. Created once per variant per page, immutable, consumed
// once by deduplication.
//
// Invariant: OfferPrice, when present, is strictly less than ListPrice. A
// source reporting an offer at or above the list price is normalized to
// "no offer" before a variant is built.
type ProductVariant struct {
	EAN          string `json:"ean,omitempty"`
	RefCode      string `json:"ref_code,omitempty"`
	Name         string `json:"name"`
	Category     string `json:"category,omitempty"`
	Subcategory  string `json:"subcategory,omitempty"`
	Brand        string `json:"brand,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`

	ListPrice  decimal.Decimal  `json:"list_price"`
	OfferPrice *decimal.Decimal `json:"offer_price,omitempty"`
	OfferLabel string           `json:"offer_label,omitempty"`

	Available bool   `json:"available"`
	URL       string `json:"url,omitempty"`
}

// HasOffer reports whether the variant carries a reduced price.
func (v ProductVariant) HasOffer() bool {
	return v.OfferPrice != nil
}

// EffectivePrice is the price a buyer actually pays.
func (v ProductVariant) EffectivePrice() decimal.Decimal {
	if v.OfferPrice != nil {
		return *v.OfferPrice
	}
	return v.ListPrice
}
