/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package fetch provides the default implementation of the
// capability.Fetcher used by the Resolver and CLI when no custom
// fetcher is supplied: a net/http client wrapped with bounded
// exponential backoff on transient failures.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/trustbloc/didwebvh-go/errkind"
	"github.com/trustbloc/didwebvh-go/internal/logging"
)

// HTTPFetcher implements capability.Fetcher over net/http.
type HTTPFetcher struct {
	client      *http.Client
	maxAttempts uint64
	authToken   string
	logger      logging.Logger
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// New creates an HTTPFetcher with sane defaults: a 10s-timeout client
// and up to 3 attempts for retryable failures.
func New(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:      &http.Client{Timeout: 10 * time.Second},
		maxAttempts: 3,
		logger:      logging.NopLogger(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// WithTimeout sets the client timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) { f.client.Timeout = d }
}

// WithHTTPClient overrides the underlying client entirely.
func WithHTTPClient(client *http.Client) Option {
	return func(f *HTTPFetcher) { f.client = client }
}

// WithMaxAttempts bounds the number of attempts made for retryable
// failures (5xx responses and connection errors); 4xx responses are
// never retried.
func WithMaxAttempts(n uint64) Option {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// WithAuthToken attaches a bearer token to every request.
func WithAuthToken(token string) Option {
	return func(f *HTTPFetcher) { f.authToken = token }
}

// WithLogger attaches a logger; Fetch logs one line per retryable failure.
func WithLogger(logger logging.Logger) Option {
	return func(f *HTTPFetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Fetch implements capability.Fetcher. It retries 5xx responses and
// connection-level errors with exponential backoff, honoring ctx
// cancellation between attempts, and never retries a 4xx response.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	reqID := uuid.NewString()

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), f.maxAttempts-1)
	policy = backoff.WithContext(policy, ctx)

	operation := func() error {
		b, retryable, err := f.attempt(ctx, reqID, url)
		if err != nil {
			if retryable {
				f.logger.Warnf("fetch: [%s] retryable error from %s: %v", reqID, url, err)

				return err
			}

			return backoff.Permanent(err)
		}

		body = b

		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, errkind.Wrap(errkind.KindResolutionError, err, "fetch: %s", url)
	}

	return body, nil
}

// attempt performs a single GET, tagging the request with reqID (via
// the X-Request-Id header) so retries of the same logical fetch can
// be correlated in a server's access log even though each retry is a
// distinct TCP connection.
func (f *HTTPFetcher) attempt(ctx context.Context, reqID, url string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}

	req.Header.Set("X-Request-Id", reqID)

	if f.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+f.authToken)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, true, err
	}

	defer closeBody(resp.Body)

	if resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("fetch: server error %d from %s", resp.StatusCode, url)
	}

	if resp.StatusCode >= 400 {
		return nil, false, fmt.Errorf("fetch: client error %d from %s", resp.StatusCode, url)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	return b, false, nil
}

func closeBody(body io.Closer) {
	_ = body.Close()
}
