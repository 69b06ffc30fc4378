package normalize

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"

	"catalog/harvester/internal/money"
)

// RawProduct mirrors the catalog API convention this engine is built against:
// a product object containing nested variant objects, each variant containing
// nested seller/offer objects.
type RawProduct struct {
	ProductID        string     `json:"productId"`
	ProductName      string     `json:"productName"`
	Brand            string     `json:"brand"`
	Manufacturer     string     `json:"manufacturer"`
	ProductReference string     `json:"productReference"`
	Link             string     `json:"link"`
	LinkText         string     `json:"linkText"`
	Categories       []string   `json:"categories"`
	Items            []RawItem  `json:"items"`
	Price            *FlexPrice `json:"price,omitempty"`
	ListPrice        *FlexPrice `json:"listPrice,omitempty"`
}

type RawItem struct {
	ItemID      string         `json:"itemId"`
	EAN         string         `json:"ean"`
	Name        string         `json:"name"`
	ReferenceID []RawReference `json:"referenceId"`
	Sellers     []RawSeller    `json:"sellers"`
}

type RawReference struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

type RawSeller struct {
	SellerID   string   `json:"sellerId"`
	SellerName string   `json:"sellerName"`
	Offer      RawOffer `json:"commertialOffer"`
}

type RawOffer struct {
	Price                FlexPrice      `json:"Price"`
	ListPrice            FlexPrice      `json:"ListPrice"`
	PriceWithoutDiscount FlexPrice      `json:"PriceWithoutDiscount"`
	IsAvailable          bool           `json:"IsAvailable"`
	AvailableQuantity    int            `json:"AvailableQuantity"`
	DiscountHighlights   []RawHighlight `json:"discountHighlights"`
	Teasers              []RawHighlight `json:"teasers"`
}

type RawHighlight struct {
	Name string `json:"name"`
}

// FlexPrice accepts the two price encodings seen in the wild: a plain JSON
// number ("Price": 999.0) or a locale-formatted string ("Price": "$ 999,00").
// Unparseable values decode to "absent" rather than failing the record.
type FlexPrice struct {
	value decimal.Decimal
	valid bool
}

func (f *FlexPrice) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		f.value, f.valid = money.Parse(s)
		return nil
	}

	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return nil
	}
	f.value, f.valid = d, true
	return nil
}

func (f FlexPrice) MarshalJSON() ([]byte, error) {
	if !f.valid {
		return []byte("null"), nil
	}
	return []byte(f.value.String()), nil
}

// Get returns the decoded value and whether one was present. Zero and
// negative prices count as absent; sources use them as "no price" markers.
func (f FlexPrice) Get() (decimal.Decimal, bool) {
	if !f.valid || f.value.Sign() <= 0 {
		return decimal.Decimal{}, false
	}
	return f.value, true
}
