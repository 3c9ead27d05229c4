package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/student-service/pkg/config"
	"github.com/noah-isme/student-service/pkg/middleware/requestid"
)

// ErrNotFound is returned when a peer answers 404 for the requested resource.
var ErrNotFound = errors.New("peer resource not found")

// StatusError is returned when a peer answers with an unexpected status code.
type StatusError struct {
	Service    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded with status %d", e.Service, e.StatusCode)
}

// IsNotFound reports whether err means the peer cleanly answered 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// CallObserver receives one observation per logical peer call, retries included.
type CallObserver interface {
	ObservePeerCall(service, operation, outcome string, duration time.Duration)
}

// peer is the shared JSON-over-HTTP transport for sibling services.
type peer struct {
	name       string
	baseURL    string
	http       *http.Client
	maxRetries int
	initial    time.Duration
	observer   CallObserver
	logger     *zap.Logger
}

func newPeer(name, baseURL string, cfg config.PeersConfig, observer CallObserver, logger *zap.Logger) *peer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	initial := cfg.RetryInitial
	if initial <= 0 {
		initial = 100 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &peer{
		name:       name,
		baseURL:    baseURL,
		http:       &http.Client{Timeout: timeout},
		maxRetries: cfg.MaxRetries,
		initial:    initial,
		observer:   observer,
		logger:     logger,
	}
}

// getJSON fetches path and decodes the body into dest. Transport failures and 5xx
// answers are retried; 404 and other 4xx answers are final.
func (p *peer) getJSON(ctx context.Context, operation, path string, dest interface{}) error {
	url := p.baseURL + path
	start := time.Now()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = p.initial

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		return struct{}{}, p.do(ctx, url, dest)
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(p.maxRetries+1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			p.logger.Debug("peer call retry",
				zap.String("service", p.name),
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Duration("next", next),
				zap.Error(err))
		}),
	)

	if p.observer != nil {
		p.observer.ObservePeerCall(p.name, operation, outcome(err), time.Since(start))
	}
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("%s %s: %w", p.name, operation, err)
	}
	return err
}

func (p *peer) do(ctx context.Context, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.HeaderKey, id)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return backoff.Permanent(ErrNotFound)
	case resp.StatusCode >= http.StatusInternalServerError:
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Service: p.name, StatusCode: resp.StatusCode}
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		_, _ = io.Copy(io.Discard, resp.Body)
		return backoff.Permanent(&StatusError{Service: p.name, StatusCode: resp.StatusCode})
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}
