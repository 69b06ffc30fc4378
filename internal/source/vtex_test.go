package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog/harvester/internal/config"
	"catalog/harvester/internal/domain"
	"catalog/harvester/internal/fetcher"
)

func testFetcher() fetcher.Fetcher {
	return fetcher.New(config.FetcherConfig{
		MaxRetries:           1,
		BackoffBase:          5 * time.Millisecond,
		BackoffMultiplier:    1.5,
		RequestTimeout:       2 * time.Second,
		MaxRequestsPerSecond: 1000,
	}, nil, nil)
}

func TestFetchPageBuildsSearchURL(t *testing.T) {
	var gotPath, gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"productId": "1"}, {"productId": "2"}]`))
	}))
	defer ts.Close()

	s := NewVTEX(testFetcher(), nil, ts.URL+"/")

	path := domain.NewCategoryPath("almacen", "aceites")
	page, err := s.FetchPage(context.Background(), path, 100, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/api/catalog_system/pub/products/search/almacen/aceites" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotQuery != "_from=100&_to=149&map=c,c" {
		t.Errorf("request query = %q", gotQuery)
	}
	if len(page.Records) != 2 {
		t.Errorf("records = %d, want 2", len(page.Records))
	}
	if page.Offset != 100 {
		t.Errorf("offset = %d, want 100", page.Offset)
	}
}

func TestFetchPageDecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer ts.Close()

	s := NewVTEX(testFetcher(), nil, ts.URL)

	_, err := s.FetchPage(context.Background(), domain.NewCategoryPath("almacen"), 0, 50)
	if !errors.Is(err, domain.ErrDecode) {
		t.Fatalf("error = %v, want ErrDecode", err)
	}
}

func TestFetchPageNegativeOffsetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on negative offset")
		}
	}()

	s := NewVTEX(testFetcher(), nil, "http://unused")
	s.FetchPage(context.Background(), domain.NewCategoryPath("almacen"), -1, 50)
}

func TestExtractRecordsNormalizesProducts(t *testing.T) {
	s := NewVTEX(testFetcher(), nil, "http://unused")

	page := &domain.RawPage{
		Path:   domain.NewCategoryPath("almacen"),
		Offset: 0,
		Records: []json.RawMessage{
			json.RawMessage(`{
				"productId": "42",
				"productName": "Aceite de Girasol 900ml",
				"brand": "Cocinero",
				"categories": ["/Almacén/Aceites/"],
				"items": [{
					"ean": "7791234567890",
					"sellers": [{
						"commertialOffer": {"Price": 999.5, "ListPrice": 1200, "IsAvailable": true}
					}]
				}]
			}`),
			json.RawMessage(`{"broken": `),
		},
	}

	rows := s.ExtractRecords(page)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 (malformed record skipped)", len(rows))
	}

	row := rows[0]
	if row.EAN != "7791234567890" {
		t.Errorf("ean = %q", row.EAN)
	}
	if row.ListPrice.String() != "1200" {
		t.Errorf("list price = %s", row.ListPrice)
	}
	if !row.HasOffer() || row.OfferPrice.String() != "999.5" {
		t.Errorf("offer price = %v", row.OfferPrice)
	}
	if row.Category != "Almacén" || row.Subcategory != "Aceites" {
		t.Errorf("category = %q / %q", row.Category, row.Subcategory)
	}
}
