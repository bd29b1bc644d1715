package cianparser

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/PuerkitoBio/goquery"
	mapset "github.com/deckarep/golang-set/v2"
)

// ErrNoSink is returned by Crawl when no sink was configured.
var ErrNoSink = errors.New("no sink configured")

// Traversal is the state of one crawl: index pages still to visit and index pages already handled.
// A URL enters Visited only after it was fetched successfully.
type Traversal struct {
	Visited mapset.Set[string]
	Failed  mapset.Set[string]
	pending []string
}

func NewTraversal(seeds ...string) *Traversal {
	t := &Traversal{
		Visited: mapset.NewThreadUnsafeSet[string](),
		Failed:  mapset.NewThreadUnsafeSet[string](),
	}
	t.Push(seeds...)
	return t
}

// Push schedules urls so that the first one is popped first.
func (t *Traversal) Push(urls ...string) {
	for i := len(urls) - 1; i >= 0; i-- {
		t.pending = append(t.pending, urls[i])
	}
}

func (t *Traversal) Pop() (string, bool) {
	if len(t.pending) == 0 {
		return "", false
	}
	last := len(t.pending) - 1
	url := t.pending[last]
	t.pending = t.pending[:last]
	return url, true
}

func (t *Traversal) Len() int {
	return len(t.pending)
}

// seen reports whether url was already handled, successfully or not.
func (t *Traversal) seen(url string) bool {
	return t.Visited.Contains(url) || t.Failed.Contains(url)
}

type CrawlStats struct {
	IndexPages int
	Listings   int
	Failed     int
}

// Crawl visits the seed and every reachable pagination page depth first.
func (app *Crawler) Crawl(ctx context.Context) (CrawlStats, error) {
	return app.Traverse(ctx, NewTraversal(app.Url))
}

// Traverse drains t. Fetch failures are logged and counted; sink failures stop the crawl.
func (app *Crawler) Traverse(ctx context.Context, t *Traversal) (CrawlStats, error) {
	var stats CrawlStats
	if app.sink == nil {
		return stats, ErrNoSink
	}
	if app.fetcher == nil {
		app.fetcher = newStaticFetcher(app.engine, app.Logger)
	}

	first := true
	for {
		pageURL, ok := t.Pop()
		if !ok {
			return stats, nil
		}
		if t.seen(pageURL) {
			continue
		}

		if !first {
			if err := app.sleep(ctx, app.engine.PageDelay); err != nil {
				return stats, err
			}
		}
		first = false

		doc, err := app.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			app.Logger.Error("Failed to fetch index page %s: %v", pageURL, err)
			t.Failed.Add(pageURL)
			stats.Failed++
			continue
		}
		t.Visited.Add(pageURL)
		stats.IndexPages++

		listings, pagination := app.Markers.ExtractLinks(doc, pageURL)
		app.Logger.Info("%s: %d listings, %d pagination links", pageURL, listings.Cardinality(), pagination.Cardinality())

		for _, link := range sorted(listings) {
			saved, err := app.crawlListing(ctx, link)
			if err != nil {
				return stats, err
			}
			if saved {
				stats.Listings++
			} else {
				stats.Failed++
			}
		}

		t.Push(sorted(pagination.Difference(t.Visited))...)
	}
}

// crawlListing fetches and stores one listing. It reports false when the page could not be
// fetched, and an error only when the listing could not be saved. Listings are not tracked by the
// traversal: a listing linked from several index pages is saved once per index page.
func (app *Crawler) crawlListing(ctx context.Context, link string) (bool, error) {
	doc, err := app.fetcher.Fetch(ctx, link)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		app.Logger.Error("Failed to fetch listing %s: %v", link, err)
		return false, nil
	}

	listing := app.Markers.ExtractListing(doc, link)
	app.archiveHtml(ctx, link, doc)

	if err := app.sink.Save(ctx, listing); err != nil {
		return false, fmt.Errorf("save %s: %w", link, err)
	}
	app.Logger.Info("Saved %s", link)
	return true, nil
}

func (app *Crawler) archiveHtml(ctx context.Context, url string, doc *goquery.Document) {
	if app.archive == nil {
		return
	}
	if err := app.archive.Archive(ctx, url, doc); err != nil {
		app.Logger.Error("Failed to archive html of %s: %v", url, err)
	}
}

func sorted(set mapset.Set[string]) []string {
	items := set.ToSlice()
	slices.Sort(items)
	return items
}
