package cianparser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrRetriesExhausted is wrapped by fetch errors once every attempt has failed.
var ErrRetriesExhausted = errors.New("retries exhausted")

// Fetcher loads a page and parses it into a document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// permanentError marks failures that another attempt cannot fix, such as a malformed URL.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryFetch calls fetch until it succeeds, doubling the delay after each failure up to
// MaxRetryDelay, for at most MaxRetryAttempts attempts.
func retryFetch(ctx context.Context, engine *Engine, logger Logger, sleep sleepFunc, url string, fetch func() (*goquery.Document, error)) (*goquery.Document, error) {
	var lastErr error
	delay := engine.RetryDelay
	attempts := max(engine.MaxRetryAttempts, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		doc, err := fetch()
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var permanent *permanentError
		if errors.As(err, &permanent) {
			return nil, err
		}
		if attempt == attempts {
			break
		}

		logger.Warn("[retry] %s failed (attempt %d/%d): %v, retrying in %v", url, attempt, attempts, err, delay)
		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
		delay *= 2
		if engine.MaxRetryDelay > 0 && delay > engine.MaxRetryDelay {
			delay = engine.MaxRetryDelay
		}
	}

	return nil, fmt.Errorf("%s: %w after %d attempts: %v", url, ErrRetriesExhausted, attempts, lastErr)
}
