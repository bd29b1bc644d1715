package cianparser

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func robotsServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckRobotsTxt(t *testing.T) {
	srv := robotsServer(t, http.StatusOK, "User-agent: *\nDisallow: /cat.php\n")
	ctx := context.Background()

	assert.False(t, checkRobotsTxt(ctx, srv.Client(), srv.URL+"/cat.php?room1=1", defaultUserAgent))
	assert.True(t, checkRobotsTxt(ctx, srv.Client(), srv.URL+"/sale/flat/1/", defaultUserAgent))
}

func TestCheckRobotsTxtMissingAllowsAll(t *testing.T) {
	srv := robotsServer(t, http.StatusNotFound, "")
	assert.True(t, checkRobotsTxt(context.Background(), srv.Client(), srv.URL+"/cat.php", defaultUserAgent))
}

func TestRunRefusesDisallowedSeed(t *testing.T) {
	srv := robotsServer(t, http.StatusOK, "User-agent: *\nDisallow: /\n")

	fetcher := &fakeFetcher{}
	app := newCrawler("test", srv.URL+"/cat.php", newConfigFromMap(nil), newWriterLogger(io.Discard), Engine{CheckRobotsTxt: true})
	app.SetFetcher(fetcher).SetSink(&memorySink{})

	_, err := app.Run(context.Background())
	require.ErrorIs(t, err, ErrDisallowedByRobots)
	assert.Empty(t, fetcher.calls)
}
