// Package pipeline implements the resilient outbound-request pipeline shared
// by every client of the generative service: a retry/backoff policy engine
// over the transport invoker, fronted by an admission-controlled
// single-flight queue.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/lorekeep/gm-assist/internal/adapter/observability"
	"github.com/lorekeep/gm-assist/internal/domain"
)

// Policy controls retry behavior for one client instance.
type Policy struct {
	// MaxAttempts is the total number of invoker calls, first attempt
	// included. Must be >= 1.
	MaxAttempts int
	// BaseDelay is the delay before the first retry; subsequent retries
	// double it.
	BaseDelay time.Duration
	// MaxDelay caps the per-retry delay.
	MaxDelay time.Duration
	// RetryEnabled false forces single-attempt behavior regardless of
	// classification.
	RetryEnabled bool
}

// Engine invokes the transport up to MaxAttempts times, retrying only
// transient failures. Attempts are strictly sequential; nothing is shared
// across executions.
type Engine struct {
	name    string
	invoker domain.Invoker
	policy  Policy
}

// NewEngine wraps an invoker with the given retry policy. name labels
// metrics and logs only.
func NewEngine(name string, invoker domain.Invoker, policy Policy) *Engine {
	return &Engine{name: name, invoker: invoker, policy: policy}
}

// classify maps one attempt's outcome onto the error taxonomy. A nil return
// means success (2xx). Transient: 429, 500, 502, 503, and any
// transport-level failure. Everything else is terminal.
func classify(resp domain.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransientUpstream, err)
	}
	if resp.Status >= 200 && resp.Status < 300 {
		return nil
	}
	switch resp.Status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable:
		return fmt.Errorf("%w: status %d", domain.ErrTransientUpstream, resp.Status)
	}
	return fmt.Errorf("%w: status %d", domain.ErrTerminalUpstream, resp.Status)
}

// Execute runs one request to a final outcome. It returns the invoker's
// success response, or the last classified failure once attempts are
// exhausted or a terminal classification is hit.
func (e *Engine) Execute(ctx domain.Context, req domain.Request) (domain.Response, error) {
	attempts := e.policy.MaxAttempts
	if !e.policy.RetryEnabled {
		attempts = 1
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = e.policy.BaseDelay
	expo.Multiplier = 2
	// Zero randomization keeps delays at exactly base * 2^(n-2).
	expo.RandomizationFactor = 0
	expo.MaxInterval = e.policy.MaxDelay
	expo.MaxElapsedTime = 0

	var final domain.Response
	attempt := 0
	op := func() error {
		attempt++
		resp, err := e.invoker.Invoke(ctx, req)
		cerr := classify(resp, err)
		if cerr == nil {
			observability.UpstreamAttemptsTotal.WithLabelValues(e.name, "success").Inc()
			final = resp
			return nil
		}
		if errors.Is(cerr, domain.ErrTerminalUpstream) {
			observability.UpstreamAttemptsTotal.WithLabelValues(e.name, "terminal").Inc()
			return backoff.Permanent(cerr)
		}
		observability.UpstreamAttemptsTotal.WithLabelValues(e.name, "transient").Inc()
		slog.Debug("transient upstream failure",
			slog.String("client", e.name),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Any("error", cerr))
		return cerr
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(expo, uint64(attempts-1)), ctx))
	if err != nil {
		return domain.Response{}, err
	}
	return final, nil
}
