package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	log "github.com/sirupsen/logrus"

	"catalog/harvester/internal/domain"
)

// crawlDiscoverer follows category navigation links over a rendered listing
// page instead of a tree API. Used for sites that expose no JSON tree.
type crawlDiscoverer struct {
	root          string
	selector      string
	allowedDomain string
}

// NewCrawl discovers categories by crawling root and collecting anchors under
// selector (a container such as "nav" or ".category-menu"; defaults to the
// whole body).
func NewCrawl(root, selector, allowedDomain string) Discoverer {
	if selector == "" {
		selector = "body"
	}
	return &crawlDiscoverer{
		root:          root,
		selector:      selector,
		allowedDomain: allowedDomain,
	}
}

func (d *crawlDiscoverer) Discover(ctx context.Context) ([]domain.CategoryPath, error) {
	options := []colly.CollectorOption{
		colly.MaxDepth(2),
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		colly.StdlibContext(ctx),
	}
	if d.allowedDomain != "" {
		options = append(options, colly.AllowedDomains(d.allowedDomain))
	}

	c := colly.NewCollector(options...)

	var mu sync.Mutex
	seen := make(map[string]struct{})
	var paths []domain.CategoryPath

	add := func(path domain.CategoryPath) {
		mu.Lock()
		defer mu.Unlock()
		if _, dup := seen[path.Key()]; dup {
			return
		}
		seen[path.Key()] = struct{}{}
		paths = append(paths, path)
	}

	c.OnHTML(d.selector, func(e *colly.HTMLElement) {
		e.DOM.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			link := e.Request.AbsoluteURL(href)
			if link == "" || !looksLikeCategory(link) {
				return
			}

			path, ok := PathFromURL(link)
			if !ok {
				return
			}

			// Intermediate nodes carry products too, so every prefix of
			// the path is a traversal target of its own.
			for depth := 1; depth <= path.Depth(); depth++ {
				add(domain.CategoryPath{Segments: path.Segments[:depth]})
			}
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		log.Warnf("🔄 Crawl error at %s: %v", r.Request.URL, err)
	})

	if err := c.Visit(d.root); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDiscoveryFailed, err)
	}
	c.Wait()

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no category links found at %s", domain.ErrDiscoveryFailed, d.root)
	}

	log.Infof("✅ %d category paths discovered by crawl", len(paths))
	return paths, nil
}

// looksLikeCategory filters out product detail pages, assets and query-only
// links; category listings are plain path URLs.
func looksLikeCategory(link string) bool {
	if strings.ContainsAny(link, "?#") {
		return false
	}
	lower := strings.ToLower(link)
	for _, suffix := range []string{"/p", ".html", ".js", ".css", ".png", ".jpg", ".svg", ".ico"} {
		if strings.HasSuffix(lower, suffix) {
			return false
		}
	}
	return true
}
