package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"time"

	"github.com/exo9planet/SubWallet-Extension/internal/swaperr"
)

// Client is a small retrying JSON client for routing-provider calls.
// Transient failures (timeouts, 429, 5xx) are retried with jittered
// exponential backoff; everything else maps to a terminal error kind.
type Client struct {
	httpClient *http.Client
	retries    int
	userAgent  string
}

func New(timeout time.Duration, retries int) *Client {
	if retries < 0 {
		retries = 0
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		retries:    retries,
		userAgent:  "subwallet-swap-engine/1.0",
	}
}

func (c *Client) DoJSON(ctx context.Context, req *http.Request, out any) error {
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return swaperr.Wrap(swaperr.KindErrorFetchingQuote, "request cancelled", ctx.Err())
			case <-time.After(retryDelay(attempt)):
			}
		}

		cloned := req.Clone(ctx)
		if req.Body != nil && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return swaperr.Wrap(swaperr.KindInternalError, "clone request body", err)
			}
			cloned.Body = body
		}

		resp, err := c.httpClient.Do(cloned)
		if err != nil {
			lastErr = mapTransportError(err)
			if attempt < c.retries {
				continue
			}
			return lastErr
		}

		buf, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return swaperr.Wrap(swaperr.KindErrorFetchingQuote, "read provider response", readErr)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = swaperr.New(swaperr.KindErrorFetchingQuote, "routing provider rate limited the request")
			if attempt < c.retries {
				continue
			}
			return lastErr
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return swaperr.New(swaperr.KindUnknown, "routing provider rejected credentials")
		case resp.StatusCode >= http.StatusInternalServerError:
			lastErr = swaperr.New(swaperr.KindErrorFetchingQuote, fmt.Sprintf("routing provider unavailable (status %d)", resp.StatusCode))
			if attempt < c.retries {
				continue
			}
			return lastErr
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return swaperr.New(swaperr.KindErrorFetchingQuote, fmt.Sprintf("routing provider returned status %d", resp.StatusCode))
		}

		if out == nil {
			return nil
		}
		if len(bytes.TrimSpace(buf)) == 0 {
			return swaperr.New(swaperr.KindErrorFetchingQuote, "routing provider returned an empty response")
		}
		if err := json.Unmarshal(buf, out); err != nil {
			return swaperr.Wrap(swaperr.KindErrorFetchingQuote, "decode routing provider JSON", err)
		}
		return nil
	}

	if lastErr != nil {
		return lastErr
	}
	return swaperr.New(swaperr.KindErrorFetchingQuote, "request failed")
}

func mapTransportError(err error) error {
	if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
		return swaperr.Wrap(swaperr.KindErrorFetchingQuote, "routing provider timeout", err)
	}
	return swaperr.Wrap(swaperr.KindErrorFetchingQuote, "routing provider request failed", err)
}

func retryDelay(attempt int) time.Duration {
	base := 150 * time.Millisecond
	d := base * time.Duration(1<<uint(attempt-1))
	if d > 2*time.Second {
		d = 2 * time.Second
	}
	return d + time.Duration(rand.Intn(60))*time.Millisecond
}
