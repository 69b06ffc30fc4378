// Package discovery walks a site's category structure into a flat list of
// traversal paths, either from a category-tree API or by crawling a rendered
// listing.
package discovery

import (
	"context"
	"fmt"
	"net/url"

	log "github.com/sirupsen/logrus"

	"catalog/harvester/internal/domain"
	"catalog/harvester/internal/fetcher"
)

// Discoverer walks a root source into a deduplicated set of category paths.
// Failure to fetch the root is fatal for discovery but not for the program.
type Discoverer interface {
	Discover(ctx context.Context) ([]domain.CategoryPath, error)
}

// TreeNode is one node of the category-tree endpoint's nested
// {segment, children[]} structure.
type TreeNode struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	HasChildren bool       `json:"hasChildren"`
	Children    []TreeNode `json:"children"`
}

type treeDiscoverer struct {
	fetcher fetcher.Fetcher
	baseURL string
	depth   int
}

// NewTree discovers categories from the JSON tree endpoint
// /api/catalog_system/pub/category/tree/{depth}.
func NewTree(f fetcher.Fetcher, baseURL string, depth int) Discoverer {
	if depth <= 0 {
		depth = 10
	}
	return &treeDiscoverer{
		fetcher: f,
		baseURL: baseURL,
		depth:   depth,
	}
}

func (d *treeDiscoverer) Discover(ctx context.Context) ([]domain.CategoryPath, error) {
	treeURL := fmt.Sprintf("%s/api/catalog_system/pub/category/tree/%d", d.baseURL, d.depth)
	log.Infof("📂 Fetching category tree: %s", treeURL)

	var roots []TreeNode
	if err := d.fetcher.GetJSON(ctx, treeURL, &roots); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDiscoveryFailed, err)
	}

	seen := make(map[string]struct{})
	var paths []domain.CategoryPath
	for _, root := range roots {
		walk(root, seen, &paths)
	}

	log.Infof("✅ %d category paths discovered", len(paths))
	return paths, nil
}

// walk emits one path per visited node, not only leaves: some sources expose
// products at intermediate nodes.
func walk(node TreeNode, seen map[string]struct{}, out *[]domain.CategoryPath) {
	if path, ok := PathFromURL(node.URL); ok {
		if _, dup := seen[path.Key()]; !dup {
			seen[path.Key()] = struct{}{}
			*out = append(*out, path)
		}
	}

	for _, child := range node.Children {
		walk(child, seen, out)
	}
}

// PathFromURL derives a category path from a node or listing URL like
// "https://www.example.com.ar/almacen/aceites".
func PathFromURL(raw string) (domain.CategoryPath, bool) {
	if raw == "" {
		return domain.CategoryPath{}, false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return domain.CategoryPath{}, false
	}

	path := domain.NewCategoryPath(u.Path)
	if path.IsZero() {
		return domain.CategoryPath{}, false
	}
	return path, true
}
