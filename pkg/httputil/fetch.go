package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/actionviz/pkg/errors"
	"github.com/matzehuels/actionviz/pkg/observability"
)

// MaxPayloadBytes bounds downloaded payloads.
const MaxPayloadBytes = 32 << 20

// DefaultClient is used by Fetch when no client is given.
var DefaultClient = &http.Client{Timeout: 30 * time.Second}

// retryDelay is the first backoff interval of Fetch.
var retryDelay = time.Second

// IsURL reports whether s names an http or https resource.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch GETs url and returns the body. A 404 maps to NOT_FOUND, other 4xx
// responses to INVALID_INPUT. Bodies over MaxPayloadBytes are rejected.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}
	if client == nil {
		client = DefaultClient
	}

	var body []byte
	err := Retry(ctx, 3, retryDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
		}
		req.Header.Set("Accept", "application/json")

		hooks := observability.HTTP()
		host, path := req.URL.Host, req.URL.Path
		hooks.OnRequest(ctx, req.Method, host, path)
		start := time.Now()

		resp, err := client.Do(req)
		if err != nil {
			hooks.OnError(ctx, req.Method, host, path, err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &RetryableError{Err: fmt.Errorf("fetch %s: %w", url, err)}
		}
		defer resp.Body.Close()
		hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return errors.New(errors.ErrCodeNotFound, "fetch %s: not found", url)
		case resp.StatusCode >= 500:
			return &RetryableError{Err: fmt.Errorf("fetch %s: %s", url, resp.Status)}
		case resp.StatusCode >= 400:
			return errors.New(errors.ErrCodeInvalidInput, "fetch %s: %s", url, resp.Status)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, MaxPayloadBytes+1))
		if err != nil {
			return &RetryableError{Err: fmt.Errorf("read %s: %w", url, err)}
		}
		if len(data) > MaxPayloadBytes {
			return errors.New(errors.ErrCodeInvalidPayload, "payload at %s exceeds %d bytes", url, MaxPayloadBytes)
		}
		body = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}
