package cianparser

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// rodFetcher renders pages in a headless Chromium. It is used when the site serves its offer
// cards through client-side scripts.
type rodFetcher struct {
	browser *rod.Browser
	engine  *Engine
	logger  Logger
	sleep   sleepFunc
}

// newRodFetcher connects to BrowserControlURL, or launches a local headless browser.
func newRodFetcher(engine *Engine, logger Logger) (*rodFetcher, error) {
	controlURL := engine.BrowserControlURL
	if controlURL == "" {
		u, err := launcher.New().Headless(true).NoSandbox(true).Launch()
		if err != nil {
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect browser: %w", err)
	}

	return &rodFetcher{
		browser: browser,
		engine:  engine,
		logger:  logger,
		sleep:   sleepContext,
	}, nil
}

func (f *rodFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	return retryFetch(ctx, f.engine, f.logger, f.sleep, url, func() (*goquery.Document, error) {
		return f.NavigateRodURL(ctx, url)
	})
}

// NavigateRodURL opens url in a fresh tab, waits for the load event and returns the rendered DOM.
func (f *rodFetcher) NavigateRodURL(ctx context.Context, url string) (*goquery.Document, error) {
	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	p := page.Context(ctx).Timeout(f.engine.Timeout)
	if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.engine.UserAgent}); err != nil {
		return nil, fmt.Errorf("error setting user agent: %w", err)
	}

	e := proto.NetworkResponseReceived{}
	wait := p.WaitEvent(&e)
	if err := p.Navigate(url); err != nil {
		return nil, fmt.Errorf("failed to navigate %s: %w", url, err)
	}
	wait()
	if e.Response != nil && e.Response.Status != 200 {
		return nil, fmt.Errorf("StatusCode:%d %s", e.Response.Status, e.Response.StatusText)
	}

	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("page did not load: %w", err)
	}
	html, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read page html: %w", err)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (f *rodFetcher) Close() error {
	return f.browser.Close()
}
