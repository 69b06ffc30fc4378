// Package fetcher performs single HTTP requests with bounded retries,
// exponential backoff and status-code-aware classification.
package fetcher

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"

	"catalog/harvester/internal/config"
	"catalog/harvester/internal/domain"
	"catalog/harvester/internal/proxy"
)

// ResponseCache memoizes successful GET bodies for the duration of one run.
// Implementations must be safe for concurrent use.
type ResponseCache interface {
	Get(ctx context.Context, url string) ([]byte, bool)
	Set(ctx context.Context, url string, body []byte)
}

type Fetcher interface {
	// Get fetches one URL and returns the response body. Exhausted retries
	// yield an error classified by the domain taxonomy; callers treat it as
	// "this page is empty" rather than aborting the whole path.
	Get(ctx context.Context, url string) ([]byte, error)

	// GetJSON fetches one URL and decodes the body into out. A body that
	// fails to decode after a success status is fatal for the request.
	GetJSON(ctx context.Context, url string, out any) error
}

type fetcher struct {
	rl            ratelimit.Limiter
	cfg           config.FetcherConfig
	httpClient    *resty.Client
	proxySupplier proxy.Supplier
	cache         ResponseCache
}

func New(cfg config.FetcherConfig, proxySupplier proxy.Supplier, cache ResponseCache) Fetcher {
	client := resty.New().
		SetTimeout(cfg.RequestTimeout).
		SetRetryCount(0). // retry policy lives here, not in resty
		SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36").
		SetHeader("Accept", "application/json, text/html;q=0.9, */*;q=0.8").
		SetHeader("Accept-Language", "es-AR,es;q=0.9,en;q=0.5").
		SetTLSClientConfig(&tls.Config{
			InsecureSkipVerify: true,
		})

	if proxySupplier != nil {
		if proxyURL := proxySupplier.Get(); proxyURL != "" {
			client.SetProxy(proxyURL)
			log.Infof("🔗 Using initial proxy: %s", proxyURL)
		}
	}

	rps := cfg.MaxRequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	return &fetcher{
		rl:            ratelimit.New(rps),
		cfg:           cfg,
		httpClient:    client,
		proxySupplier: proxySupplier,
		cache:         cache,
	}
}

func (f *fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	if f.cache != nil {
		if body, ok := f.cache.Get(ctx, url); ok {
			log.Debugf("Cache hit for %s", url)
			return body, nil
		}
	}

	var lastErr error
	for attempt := 0; attempt <= f.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := f.sleep(ctx, f.backoff(lastErr, attempt)); err != nil {
				return nil, err
			}
		}

		body, err := f.doRequest(ctx, url)
		if err == nil {
			if f.cache != nil {
				f.cache.Set(ctx, url, body)
			}
			return body, nil
		}

		lastErr = err
		if !retryable(err) {
			return nil, err
		}
		log.Debugf("Attempt %d/%d for %s failed: %v", attempt+1, f.cfg.MaxRetries+1, url, err)
	}

	return nil, fmt.Errorf("retries exhausted for %s: %w", url, lastErr)
}

func (f *fetcher) GetJSON(ctx context.Context, url string, out any) error {
	body, err := f.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrDecode, url, err)
	}
	return nil
}

// retryAfterError carries the Retry-After hint of a rate-limited response.
type retryAfterError struct {
	err   error
	delay time.Duration
}

func (e *retryAfterError) Error() string { return e.err.Error() }
func (e *retryAfterError) Unwrap() error { return e.err }

func (f *fetcher) doRequest(ctx context.Context, url string) ([]byte, error) {
	f.rl.Take()

	resp, err := f.httpClient.R().
		SetContext(ctx).
		Get(url)

	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrTransientNetwork, url, err)
	}

	status := resp.StatusCode()
	switch {
	case status >= 200 && status < 300:
		return resp.Bytes(), nil

	case status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable:
		f.rotateProxy()
		rlErr := fmt.Errorf("%w: HTTP %d for %s", domain.ErrRateLimited, status, url)
		if delay := parseRetryAfter(resp.Header().Get("Retry-After")); delay > 0 {
			return nil, &retryAfterError{err: rlErr, delay: delay}
		}
		return nil, rlErr

	case status >= 500:
		return nil, fmt.Errorf("%w: HTTP %d for %s", domain.ErrTransientNetwork, status, url)

	default:
		return nil, fmt.Errorf("%w: HTTP %d for %s", domain.ErrFatalRequest, status, url)
	}
}

// backoff computes the wait before the given attempt. Rate limits honor the
// server's Retry-After hint; other 5xx and network errors use a shorter base.
func (f *fetcher) backoff(lastErr error, attempt int) time.Duration {
	if ra, ok := lastErr.(*retryAfterError); ok && ra.delay > 0 {
		return ra.delay
	}

	base := f.cfg.BackoffBase
	if !isRateLimited(lastErr) {
		base /= 2
	}

	d := float64(base)
	for i := 1; i < attempt; i++ {
		d *= f.cfg.BackoffMultiplier
	}

	// Up to 50% jitter so concurrent paths don't hammer in lockstep.
	return time.Duration(d + rand.Float64()*d/2)
}

func (f *fetcher) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (f *fetcher) rotateProxy() {
	if f.proxySupplier == nil {
		return
	}
	if next := f.proxySupplier.Get(); next != "" {
		log.Infof("🔄 Switching to proxy %s after rate limit", next)
		f.httpClient.SetProxy(next)
	}
}

func retryable(err error) bool {
	return isRateLimited(err) || errors.Is(err, domain.ErrTransientNetwork)
}

func isRateLimited(err error) bool {
	return errors.Is(err, domain.ErrRateLimited)
}

func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
