package cianparser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
)

// ErrDisallowedByRobots is returned by Run when robots.txt forbids the seed for our User-Agent.
var ErrDisallowedByRobots = errors.New("crawling is disallowed by robots.txt")

func (app *Crawler) bootstrap(ctx context.Context) error {
	if !app.engine.CheckRobotsTxt {
		return nil
	}
	app.Logger.Info("Checking robots.txt")
	if !checkRobotsTxt(ctx, newHttpClient(app.engine), app.Url, app.engine.UserAgent) {
		app.Logger.Summary("Crawling is disallowed by robots.txt")
		return fmt.Errorf("%s: %w", app.Url, ErrDisallowedByRobots)
	}
	return nil
}

// checkRobotsTxt reports whether userAgent may fetch seed. An unreachable or unparsable
// robots.txt allows everything.
func checkRobotsTxt(ctx context.Context, client *http.Client, seed, userAgent string) bool {
	u, err := url.Parse(seed)
	if err != nil || u.Host == "" {
		return true
	}
	robotsURL := (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return true
	}
	req.Header.Set("User-Agent", userAgent)

	response, err := client.Do(req)
	if err != nil {
		return true
	}
	defer response.Body.Close()

	robotsData, err := robotstxt.FromResponse(response)
	if err != nil {
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return robotsData.FindGroup(userAgent).Test(path)
}
