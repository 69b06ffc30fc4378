package identity

import (
	"testing"

	"github.com/shopspring/decimal"

	"catalog/harvester/internal/domain"
)

func TestKeyOfPriorityChain(t *testing.T) {
	v := domain.ProductVariant{
		EAN:       "7791234567890",
		RefCode:   "SKU-1",
		URL:       "https://example.com/p/1",
		Name:      "Aceite 900ml",
		ListPrice: decimal.NewFromInt(1200),
	}

	if k := KeyOf(v); k.Value != "7791234567890" || k.Synthetic {
		t.Fatalf("expected EAN to win, got %+v", k)
	}

	v.EAN = "   "
	if k := KeyOf(v); k.Value != "sku-1" {
		t.Fatalf("expected ref code fallback, got %+v", k)
	}

	v.RefCode = ""
	if k := KeyOf(v); k.Value != "https://example.com/p/1" {
		t.Fatalf("expected URL fallback, got %+v", k)
	}
}

func TestKeyOfSynthetic(t *testing.T) {
	v := domain.ProductVariant{Name: "Sin identificadores", ListPrice: decimal.NewFromInt(10)}

	k := KeyOf(v)
	if !k.Synthetic {
		t.Fatal("expected synthetic key")
	}
	if k.Value == "" {
		t.Fatal("synthetic key must not be empty")
	}

	// Deterministic for identical content.
	if k2 := KeyOf(v); k2.Value != k.Value {
		t.Fatalf("synthetic key not deterministic: %s vs %s", k.Value, k2.Value)
	}
}
