package vestractor

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/go-resty/resty/v2"
	"vestibot/internal/components/assert"
	"vestibot/internal/components/telemetry"
)

const (
	report_fetcher_fetch_document = "fetcher.fetch-document"
)

// Fetcher retrieves a page and parses it into a Document.
//
// note: fault injection point
type Fetcher interface {
	FetchDocument(ctx context.Context, url string) (*Document, error)
}

type HttpFetcherOptions struct {
	// Timeout bounds a single request, defaults to 30 seconds.
	Timeout time.Duration
	// Retries is how many extra attempts a failed request gets, 0 disables retrying.
	Retries int
	// RetryDelay is the backoff before the first retry, defaults to 500 milliseconds.
	RetryDelay time.Duration
	UserAgent  string
}

// HttpFetcher is the Fetcher that talks to the real platform.
type HttpFetcher struct {
	http    *resty.Client
	retrier retry.Retry[*Document]
	tel     telemetry.API
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

func NewHttpFetcher(tel telemetry.API, opts HttpFetcherOptions) *HttpFetcher {
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("vestractor", tel)

	if opts.Timeout <= 0 {
		opts.Timeout = time.Second * 30
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 500 * time.Millisecond
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	client.SetHeader("user-agent", opts.UserAgent)
	telemetry.InstrumentResty(client, tel)

	f := &HttpFetcher{
		http: client,
		tel:  tel,
	}

	if opts.Retries > 0 {
		f.retrier = retry.New[*Document](retry.Config{
			MaxAttempts:   opts.Retries + 1,
			InitialDelay:  opts.RetryDelay,
			MaxDelay:      10 * time.Second,
			Multiplier:    2.0,
			BackoffPolicy: retry.BackoffExponential,
			Jitter:        true,
			IsRetryable:   isRetryableFetch,
		})
	}

	return f
}

func (f *HttpFetcher) FetchDocument(ctx context.Context, url string) (*Document, error) {
	if f.retrier == nil {
		return f.fetchOnce(ctx, url)
	}

	var last error
	doc, err := f.retrier.Do(ctx, func(ctx context.Context) (*Document, error) {
		doc, err := f.fetchOnce(ctx, url)
		last = err
		return doc, err
	})
	if err != nil {
		// keep the typed error of the last attempt unless we gave up because of ctx
		if last != nil && ctx.Err() == nil {
			return nil, last
		}
		return nil, err
	}
	return doc, nil
}

func (f *HttpFetcher) fetchOnce(ctx context.Context, url string) (*Document, error) {
	f.tel.ReportDebug(report_fetcher_fetch_document, url)

	res, err := f.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		f.tel.ReportBroken(report_fetcher_fetch_document, err, url)
		return nil, &FetchError{Url: url, Err: err}
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		err := &FetchError{Url: url, StatusCode: res.StatusCode()}
		f.tel.ReportBroken(report_fetcher_fetch_document, err, url)
		return nil, err
	}

	doc, err := ParseDocument(url, bytes.NewBuffer(res.Body()))
	if err != nil {
		f.tel.ReportBroken(report_fetcher_fetch_document, err, url)
		return nil, err
	}
	return doc, nil
}

func isRetryableFetch(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		return false
	}
	switch {
	case fetchErr.StatusCode == 0:
		return true
	case fetchErr.StatusCode == http.StatusTooManyRequests:
		return true
	case fetchErr.StatusCode >= 500:
		return true
	}
	return false
}
