package cianparser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const defaultSeedInterval = 30 * time.Minute

// SiteConfig is one seed search. Listings go to Collection, or the default collection when empty.
type SiteConfig struct {
	Name       string
	URL        string
	Collection string
	Engine     Engine
}

// Runner crawls its sites one after another, pausing SeedInterval between seeds.
type Runner struct {
	Sites        []SiteConfig
	SeedInterval time.Duration
	config       *configService
	newCrawler   func(ctx context.Context, site SiteConfig) (*Crawler, error)
	sleep        sleepFunc
}

func NewRunner() *Runner {
	return newRunner(newConfig())
}

func newRunner(config *configService) *Runner {
	r := &Runner{
		SeedInterval: config.EnvDuration("SEED_INTERVAL", defaultSeedInterval),
		config:       config,
		sleep:        sleepContext,
	}
	r.newCrawler = r.siteCrawler
	return r
}

func (r *Runner) AddSite(site SiteConfig) *Runner {
	r.Sites = append(r.Sites, site)
	return r
}

// Start runs every site in order. A failing site is logged and the next one still runs; the
// failures are returned together. Cancelling ctx stops immediately.
func (r *Runner) Start(ctx context.Context) error {
	var errs []error
	for i, site := range r.Sites {
		if i > 0 {
			if err := r.sleep(ctx, r.SeedInterval); err != nil {
				return err
			}
		}

		crawler, err := r.newCrawler(ctx, site)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", site.Name, err))
			continue
		}

		_, err = crawler.Run(ctx)
		if err != nil {
			crawler.Logger.Error("Crawl of %s failed: %v", site.URL, err)
		}
		if closeErr := crawler.Close(); closeErr != nil {
			crawler.Logger.Warn("Failed to close crawler: %v", closeErr)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", site.Name, err))
		}
	}
	return errors.Join(errs...)
}

// siteCrawler wires a crawler to the sink picked by STORE_DRIVER: "mongo" (default) or "datastore".
func (r *Runner) siteCrawler(ctx context.Context, site SiteConfig) (*Crawler, error) {
	crawler := newCrawler(site.Name, site.URL, r.config, newDefaultLogger(r.config, site.Name), site.Engine)

	collection := site.Collection
	if collection == "" {
		collection = defaultCollection
	}

	var sink Sink
	var err error
	switch driver := r.config.EnvString("STORE_DRIVER", "mongo"); driver {
	case "mongo":
		sink, err = newMongoSinkFromConfig(ctx, r.config, collection)
	case "datastore":
		sink, err = newDatastoreSinkFromConfig(ctx, r.config, collection)
	default:
		err = fmt.Errorf("unknown STORE_DRIVER %q", driver)
	}
	if err != nil {
		crawler.Logger.Error("Failed to open sink: %v", err)
		_ = crawler.Close()
		return nil, err
	}
	return crawler.SetSink(sink), nil
}
