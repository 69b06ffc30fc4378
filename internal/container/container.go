package container

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"catalog/harvester/internal/cache"
	"catalog/harvester/internal/config"
	"catalog/harvester/internal/discovery"
	"catalog/harvester/internal/domain"
	"catalog/harvester/internal/export"
	"catalog/harvester/internal/fetcher"
	"catalog/harvester/internal/harvest"
	"catalog/harvester/internal/proxy"
	"catalog/harvester/internal/source"
)

// Container holds all initialized components for one site profile
type Container struct {
	Config      *config.Config
	Site        config.SiteConfig
	Coordinator *harvest.Coordinator
	Exporters   []export.Exporter

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config, siteName string) (*Container, error) {
	site, err := cfg.Site(siteName)
	if err != nil {
		return nil, err
	}

	container := &Container{
		Config: cfg,
		Site:   site,
	}

	proxySupplier := proxy.NewSupplier(context.Background(), cfg.Fetcher.Proxies, site.BaseURL)

	var responseCache fetcher.ResponseCache
	if cfg.Cache.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Cache.Host, cfg.Cache.Port),
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.Database,
		})

		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		container.redis = rdb
		responseCache = cache.NewRedisCache(rdb, cfg.Cache.TTL)
	}

	f := fetcher.New(cfg.Fetcher, proxySupplier, responseCache)

	var disc discovery.Discoverer
	switch site.Discovery {
	case "crawl":
		root := site.CrawlRoot
		if root == "" {
			root = site.BaseURL
		}
		disc = discovery.NewCrawl(root, site.CategorySelector, site.AllowedDomain)
	case "tree", "":
		disc = discovery.NewTree(f, site.BaseURL, site.TreeDepth)
	default:
		return nil, fmt.Errorf("unknown discovery strategy %q for site %q", site.Discovery, siteName)
	}

	strategy := source.NewVTEX(f, disc, site.BaseURL)
	container.Coordinator = harvest.NewCoordinator(strategy, cfg.Harvester)

	if cfg.Export.CSVPath != "" {
		container.Exporters = append(container.Exporters, export.NewCSV(cfg.Export.CSVPath))
	}

	if cfg.Export.Database.Enabled {
		db, err := pgxpool.New(context.Background(),
			fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
				cfg.Export.Database.Host,
				cfg.Export.Database.Port,
				cfg.Export.Database.User,
				cfg.Export.Database.Password,
				cfg.Export.Database.Name,
			))
		if err != nil {
			return nil, err
		}
		container.db = db
		container.Exporters = append(container.Exporters, export.NewPostgres(db))
	}

	return container, nil
}

// Run executes one full harvest and hands the result to every configured
// sink. Export failures are logged, not fatal: the run itself completed.
func (c *Container) Run(ctx context.Context) (*domain.HarvestResult, error) {
	result := c.Coordinator.Run(ctx)

	for _, exporter := range c.Exporters {
		if err := exporter.Export(ctx, result); err != nil {
			log.Errorf("❌ Export failed: %v", err)
		}
	}

	return result, nil
}

// Close performs cleanup when shutting down
func (c *Container) Close() {
	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		c.redis.Close()
	}
}
