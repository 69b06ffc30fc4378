package proxy

import (
	"context"
	"crypto/tls"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// Supplier hands out proxy URLs in round-robin order. An empty string means
// "connect directly".
type Supplier interface {
	Get() string
}

type supplier struct {
	proxies []string
	current int
	mutex   sync.Mutex
}

// NewSupplier validates the configured proxies in parallel and keeps only the
// working ones.
func NewSupplier(ctx context.Context, proxies []string, testURL string) Supplier {
	if len(proxies) == 0 {
		return &supplier{}
	}

	validCh := make(chan string, len(proxies))
	semaphore := make(chan struct{}, 10)

	var wg sync.WaitGroup
	for _, proxyURL := range proxies {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if isValid(ctx, p, testURL) {
				validCh <- p
			} else {
				log.Infof("❌ Proxy %s is not working, skipping", p)
			}
		}(proxyURL)
	}

	wg.Wait()
	close(validCh)

	valid := make([]string, 0, len(proxies))
	for p := range validCh {
		valid = append(valid, p)
	}

	log.Infof("✅ Proxy supplier ready with %d working proxies out of %d", len(valid), len(proxies))
	return &supplier{proxies: valid}
}

func (s *supplier) Get() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if len(s.proxies) == 0 {
		return ""
	}

	p := s.proxies[s.current]
	s.current = (s.current + 1) % len(s.proxies)
	return p
}

func isValid(ctx context.Context, proxyURL, testURL string) bool {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(0).
		SetProxy(proxyURL).
		SetTLSClientConfig(&tls.Config{
			InsecureSkipVerify: true,
		})

	resp, err := client.R().
		SetContext(ctx).
		Get(testURL)

	return err == nil && !resp.IsError()
}
