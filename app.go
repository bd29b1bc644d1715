package cianparser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Crawler walks one seed search URL: it follows pagination, extracts every listing it finds and
// hands each one to the sink.
type Crawler struct {
	Config  *configService
	Name    string
	Url     string
	Markers Markers
	Logger  Logger
	engine  *Engine
	fetcher Fetcher
	sink    Sink
	archive HtmlArchiver
	sleep   sleepFunc
}

// NewCrawler builds a crawler for one seed. Settings come from the `.env` file and the
// environment, then from engines, which win over both.
func NewCrawler(name, url string, engines ...Engine) *Crawler {
	config := newConfig()
	return newCrawler(name, url, config, newDefaultLogger(config, name), engines...)
}

func newCrawler(name, url string, config *configService, logger Logger, engines ...Engine) *Crawler {
	defaultEngine := getDefaultEngine()
	fromConfig := engineFromConfig(config)
	overrideEngineDefaults(&defaultEngine, &fromConfig)
	if len(engines) > 0 {
		eng := engines[0]
		overrideEngineDefaults(&defaultEngine, &eng)
	}

	return &Crawler{
		Config:  config,
		Name:    name,
		Url:     url,
		Markers: DefaultMarkers(),
		Logger:  logger,
		engine:  &defaultEngine,
		sleep:   sleepContext,
	}
}

func (app *Crawler) SetSink(sink Sink) *Crawler {
	app.sink = sink
	return app
}

func (app *Crawler) SetFetcher(fetcher Fetcher) *Crawler {
	app.fetcher = fetcher
	return app
}

func (app *Crawler) SetArchive(archive HtmlArchiver) *Crawler {
	app.archive = archive
	return app
}

func (app *Crawler) SetMarkers(markers Markers) *Crawler {
	app.Markers = markers
	return app
}

// Run checks robots.txt, crawls the seed and, when EXPORT_CSV is set, exports what the sink holds.
func (app *Crawler) Run(ctx context.Context) (CrawlStats, error) {
	startTime := time.Now()
	app.Logger.Summary("Crawler Started! 🚀 %s", app.Url)

	if err := app.bootstrap(ctx); err != nil {
		return CrawlStats{}, err
	}
	if err := app.prepare(ctx); err != nil {
		return CrawlStats{}, err
	}

	stats, err := app.Crawl(ctx)
	app.Logger.Summary("Crawled %d index pages, saved %d listings, %d failed. Time taken: %v",
		stats.IndexPages, stats.Listings, stats.Failed, time.Since(startTime))
	if err != nil {
		return stats, err
	}

	if app.Config.EnvBool("EXPORT_CSV") {
		if err := app.export(ctx); err != nil {
			app.Logger.Error("Export failed: %v", err)
		}
	}
	return stats, nil
}

// prepare creates the fetcher, and the archive when ArchiveHtml is set, unless they were injected.
func (app *Crawler) prepare(ctx context.Context) error {
	if app.fetcher == nil {
		if app.engine.IsDynamic {
			fetcher, err := newRodFetcher(app.engine, app.Logger)
			if err != nil {
				return fmt.Errorf("failed to initialize browser: %w", err)
			}
			app.fetcher = fetcher
		} else {
			app.fetcher = newStaticFetcher(app.engine, app.Logger)
		}
	}
	if app.archive == nil && app.engine.ArchiveHtml {
		archive, err := NewBigQueryArchiver(ctx, app.Config)
		if err != nil {
			return err
		}
		app.archive = archive
	}
	return nil
}

// Close releases the browser, the sink connection and the Cloud Logging client.
func (app *Crawler) Close() error {
	var errs []error
	for _, v := range []interface{}{app.fetcher, app.sink, app.archive, app.Logger} {
		if closer, ok := v.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
