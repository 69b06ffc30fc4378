package discovery

import (
	"context"
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

func TestTreeDiscoverEmitsEveryNode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/catalog_system/pub/category/tree/10" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "name": "Almacén", "url": "https://host/almacen", "children": [
				{"id": 2, "name": "Aceites", "url": "https://host/almacen/aceites", "children": []},
				{"id": 3, "name": "Arroz", "url": "https://host/almacen/arroz", "children": []}
			]},
			{"id": 4, "name": "Bebidas", "url": "https://host/bebidas", "children": [
				{"id": 5, "name": "Duplicada", "url": "https://host/bebidas", "children": []}
			]}
		]`))
	}))
	defer ts.Close()

	d := NewTree(testFetcher(), ts.URL, 10)

	paths, err := d.Discover(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]bool{
		"almacen":         true,
		"almacen/aceites": true,
		"almacen/arroz":   true,
		"bebidas":         true,
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %d, want %d (intermediate nodes included, duplicates dropped): %v", len(paths), len(want), paths)
	}
	for _, p := range paths {
		if !want[p.String()] {
			t.Errorf("unexpected path %q", p)
		}
	}
}

func TestTreeDiscoverRootFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	d := NewTree(testFetcher(), ts.URL, 10)

	_, err := d.Discover(context.Background())
	if !errors.Is(err, domain.ErrDiscoveryFailed) {
		t.Fatalf("error = %v, want ErrDiscoveryFailed", err)
	}
}

func TestCrawlDiscoverCollectsCategoryLinks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<nav class="menu">
				<a href="/almacen/aceites">Aceites</a>
				<a href="/bebidas">Bebidas</a>
				<a href="/producto-suelto/p">Producto</a>
				<a href="/assets/logo.png">Logo</a>
			</nav>
			<a href="/fuera-del-menu">Ignorada</a>
		</body></html>`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	d := NewCrawl(ts.URL, "nav.menu", "")

	paths, err := d.Discover(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := map[string]bool{}
	for _, p := range paths {
		got[p.String()] = true
	}

	// Category anchors plus their prefixes; product pages, assets and links
	// outside the selector are excluded.
	for _, want := range []string{"almacen", "almacen/aceites", "bebidas"} {
		if !got[want] {
			t.Errorf("missing path %q in %v", want, paths)
		}
	}
	if got["producto-suelto"] || got["assets/logo.png"] || got["fuera-del-menu"] {
		t.Errorf("unexpected paths collected: %v", paths)
	}
}

func TestCrawlDiscoverNoLinksFails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>nada</p></body></html>`))
	}))
	defer ts.Close()

	d := NewCrawl(ts.URL, "nav", "")

	_, err := d.Discover(context.Background())
	if !errors.Is(err, domain.ErrDiscoveryFailed) {
		t.Fatalf("error = %v, want ErrDiscoveryFailed", err)
	}
}
