package normalize

import (
	"encoding/json"
	"testing"
)

func TestProductEndToEnd(t *testing.T) {
	raw := json.RawMessage(`{
		"productName": "Aceite 900ml",
		"brand": "Cocinero",
		"link": "https://example.com/aceite-900ml/p",
		"categories": ["/Almacén/Aceites/"],
		"items": [{
			"itemId": "101",
			"ean": "7791234567890",
			"sellers": [{
				"sellerId": "1",
				"commertialOffer": {
					"ListPrice": "$ 1.200,00",
					"Price": "$ 999,00",
					"IsAvailable": true,
					"discountHighlights": [{"name": "Oferta"}]
				}
			}]
		}]
	}`)

	rows := Product(raw)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	v := rows[0]
	if v.EAN != "7791234567890" {
		t.Errorf("EAN = %q", v.EAN)
	}
	if v.ListPrice.String() != "1200" {
		t.Errorf("list price = %s, want 1200", v.ListPrice)
	}
	if v.OfferPrice == nil || v.OfferPrice.String() != "999" {
		t.Errorf("offer price = %v, want 999", v.OfferPrice)
	}
	if v.OfferLabel != "Oferta" {
		t.Errorf("offer label = %q", v.OfferLabel)
	}
	if v.Category != "Almacén" || v.Subcategory != "Aceites" {
		t.Errorf("category = %q / %q", v.Category, v.Subcategory)
	}
}

func TestProductNumericPrices(t *testing.T) {
	raw := json.RawMessage(`{
		"productName": "Yerba 1kg",
		"items": [{
			"itemId": "7",
			"sellers": [{"commertialOffer": {"ListPrice": 3500.0, "Price": 3500.0, "IsAvailable": true}}]
		}]
	}`)

	rows := Product(raw)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].OfferPrice != nil {
		t.Error("equal prices must collapse to list-only")
	}
	if rows[0].ListPrice.String() != "3500" {
		t.Errorf("list price = %s", rows[0].ListPrice)
	}
}

func TestProductSwappedPriceFields(t *testing.T) {
	// Source reports the reduced price in ListPrice: higher value still wins
	// as the list price.
	raw := json.RawMessage(`{
		"productName": "Gaseosa 2.25L",
		"items": [{
			"itemId": "9",
			"sellers": [{"commertialOffer": {"ListPrice": 900, "Price": 1100}}]
		}]
	}`)

	rows := Product(raw)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].ListPrice.String() != "1100" {
		t.Errorf("list price = %s, want 1100", rows[0].ListPrice)
	}
	if rows[0].OfferPrice == nil || rows[0].OfferPrice.String() != "900" {
		t.Errorf("offer price = %v, want 900", rows[0].OfferPrice)
	}
}

func TestProductOfferInvariant(t *testing.T) {
	cases := []string{
		`{"productName":"a","items":[{"sellers":[{"commertialOffer":{"ListPrice":100,"Price":95}}]}]}`,
		`{"productName":"b","items":[{"sellers":[{"commertialOffer":{"ListPrice":100,"Price":100}}]}]}`,
		`{"productName":"c","items":[{"sellers":[{"commertialOffer":{"ListPrice":95,"Price":100}}]}]}`,
		`{"productName":"d","items":[{"sellers":[{"commertialOffer":{"Price":100}}]}]}`,
	}

	for _, c := range cases {
		for _, v := range Product(json.RawMessage(c)) {
			if v.OfferPrice != nil && !v.OfferPrice.LessThan(v.ListPrice) {
				t.Errorf("record %s: offer %s not < list %s", c, v.OfferPrice, v.ListPrice)
			}
		}
	}
}

func TestProductZeroVariantsNoPrice(t *testing.T) {
	if rows := Product(json.RawMessage(`{"productName":"vacío","items":[]}`)); len(rows) != 0 {
		t.Fatalf("expected 0 rows, got %d", len(rows))
	}
}

func TestProductTopLevelPriceFallback(t *testing.T) {
	raw := json.RawMessage(`{"productName":"simple","productReference":"R-1","price":"$ 450,50","items":[]}`)
	rows := Product(raw)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].ListPrice.String() != "450.5" {
		t.Errorf("list price = %s", rows[0].ListPrice)
	}
}

func TestProductMalformedSkipped(t *testing.T) {
	if rows := Product(json.RawMessage(`{"items": "not-an-array"}`)); rows != nil {
		t.Fatalf("expected nil rows for malformed record, got %v", rows)
	}
}

func TestProductUnparseablePriceNotZero(t *testing.T) {
	raw := json.RawMessage(`{"productName":"x","items":[{"sellers":[{"commertialOffer":{"Price":"consultar"}}]}]}`)
	if rows := Product(raw); len(rows) != 0 {
		t.Fatalf("unknown price must not become a row, got %d rows", len(rows))
	}
}
