package cianparser

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedSleeps struct {
	delays []time.Duration
}

func (r *recordedSleeps) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func testFetcher(engine Engine) (*staticFetcher, *recordedSleeps) {
	eng := getDefaultEngine()
	overrideEngineDefaults(&eng, &engine)
	f := newStaticFetcher(&eng, newWriterLogger(io.Discard))
	sleeps := &recordedSleeps{}
	f.sleep = sleeps.sleep
	return f, sleeps
}

func TestFetchRetriesUntilSuccess(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))
		if atomic.AddInt32(&hits, 1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, `<html><body><h1>ok</h1></body></html>`)
	}))
	defer srv.Close()

	f, sleeps := testFetcher(Engine{RetryDelay: time.Second, MaxRetryAttempts: 5})
	doc, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", doc.Find("h1").Text())
	assert.EqualValues(t, 3, atomic.LoadInt32(&hits))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeps.delays)
}

func TestFetchGivesUpAfterMaxAttempts(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f, sleeps := testFetcher(Engine{RetryDelay: time.Second, MaxRetryDelay: 3 * time.Second, MaxRetryAttempts: 5})
	_, err := f.Fetch(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrRetriesExhausted)
	assert.EqualValues(t, 5, atomic.LoadInt32(&hits))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second, 3 * time.Second}, sleeps.delays)
}

func TestFetchDoesNotRetryMalformedURL(t *testing.T) {
	f, sleeps := testFetcher(Engine{MaxRetryAttempts: 5})
	_, err := f.Fetch(context.Background(), "http://bad host/")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRetriesExhausted)
	assert.Empty(t, sleeps.delays)
}

func TestFetchStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	f, _ := testFetcher(Engine{MaxRetryAttempts: 5})
	f.sleep = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	_, err := f.Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchDecodesDeclaredCharset(t *testing.T) {
	// "Жилая" in windows-1251
	body := append([]byte("<html><body><span>"), 0xC6, 0xE8, 0xEB, 0xE0, 0xFF)
	body = append(body, []byte("</span></body></html>")...)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=windows-1251")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f, _ := testFetcher(Engine{})
	doc, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Жилая", doc.Find("span").Text())
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleepContext(context.Background(), 0))
}
