// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the API clients.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxRetryAfter caps how long a Retry-After header may make us wait.
const maxRetryAfter = time.Minute

const defaultMaxRetries = 5

// DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests). The wait honours a Retry-After header given in seconds and
// otherwise doubles from RetryBaseDelay on each attempt.
//
// Request bodies are replayed through req.GetBody, so requests built with
// http.NewRequest over a bytes.Reader can be retried. When maxRetries is 0
// the default (5) is used. After exhausting retries the last 429 response is
// returned so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, log zerolog.Logger) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewinding request body: %w", err)
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		if attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		wait := backoff(attempt, resp.Header.Get("Retry-After"))
		log.Warn().
			Str("host", req.URL.Host).
			Dur("wait", wait).
			Int("attempt", attempt+1).
			Int("max_retries", maxRetries).
			Msg("rate limited, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		d := time.Duration(secs) * time.Second
		if d > maxRetryAfter {
			d = maxRetryAfter
		}
		return d
	}
	return RetryBaseDelay << attempt
}

// ReadError drains a non-2xx response into an error that names the API.
func ReadError(api string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if len(body) == 0 {
		return fmt.Errorf("%s returned HTTP %d", api, resp.StatusCode)
	}
	return fmt.Errorf("%s returned HTTP %d: %s", api, resp.StatusCode, string(body))
}
