package cianparser

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerCrawlsSeedsInOrderWithInterval(t *testing.T) {
	r := newRunner(newConfigFromMap(map[string]interface{}{"SEED_INTERVAL": "1800"}))
	require.Equal(t, 1800*time.Second, r.SeedInterval)

	sleeps := &recordedSleeps{}
	r.sleep = sleeps.sleep

	sink := &memorySink{}
	var started []string
	r.newCrawler = func(_ context.Context, site SiteConfig) (*Crawler, error) {
		started = append(started, site.Name)
		if site.Name == "broken" {
			return nil, errors.New("no database")
		}
		fetcher := &fakeFetcher{pages: map[string]string{
			site.URL:                           `<div data-name="LinkArea"><a href="/sale/flat/1/">1</a></div>`,
			"https://www.cian.ru/sale/flat/1/": detailPage(1),
		}}
		app := newCrawler(site.Name, site.URL, r.config, newWriterLogger(io.Discard), site.Engine)
		return app.SetFetcher(fetcher).SetSink(sink), nil
	}

	r.AddSite(SiteConfig{Name: "first", URL: "https://www.cian.ru/cat.php?room1=1"}).
		AddSite(SiteConfig{Name: "broken", URL: "https://www.cian.ru/cat.php?room2=1"}).
		AddSite(SiteConfig{Name: "third", URL: "https://www.cian.ru/cat.php?room3=1"})

	err := r.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, []string{"first", "broken", "third"}, started)
	assert.Equal(t, []time.Duration{1800 * time.Second, 1800 * time.Second}, sleeps.delays)
	assert.Len(t, sink.saved, 2)
}

func TestRunnerDefaultInterval(t *testing.T) {
	r := newRunner(newConfigFromMap(nil))
	assert.Equal(t, defaultSeedInterval, r.SeedInterval)
}

func TestRunnerStopsWhenCancelled(t *testing.T) {
	r := newRunner(newConfigFromMap(nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	r.newCrawler = func(context.Context, SiteConfig) (*Crawler, error) {
		calls++
		return nil, errors.New("unreachable")
	}
	r.AddSite(SiteConfig{Name: "a"}).AddSite(SiteConfig{Name: "b"})

	err := r.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
