package cianparser

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// staticFetcher issues plain GET requests carrying only the engine's User-Agent.
type staticFetcher struct {
	client *http.Client
	engine *Engine
	logger Logger
	sleep  sleepFunc
}

func newStaticFetcher(engine *Engine, logger Logger) *staticFetcher {
	return &staticFetcher{
		client: newHttpClient(engine),
		engine: engine,
		logger: logger,
		sleep:  sleepContext,
	}
}

func newHttpClient(engine *Engine) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   60 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 60 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   engine.Timeout,
	}
}

func (f *staticFetcher) Fetch(ctx context.Context, urlString string) (*goquery.Document, error) {
	return retryFetch(ctx, f.engine, f.logger, f.sleep, urlString, func() (*goquery.Document, error) {
		return f.NavigateToStaticURL(ctx, urlString)
	})
}

// NavigateToStaticURL performs a single attempt: GET, status check, charset decoding, parse.
func (f *staticFetcher) NavigateToStaticURL(ctx context.Context, urlString string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlString, nil)
	if err != nil {
		return nil, &permanentError{fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", f.engine.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to navigate %s: %w", urlString, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("StatusCode:%d %s", resp.StatusCode, resp.Status)
	}

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to create reader with correct encoding: %w", err)
	}

	document, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", urlString, err)
	}
	return document, nil
}
