// Package transport performs single outbound HTTP calls to the generative
// service. It carries no resilience: no retries, no queueing, no
// classification beyond surfacing transport-level errors. Everything above
// it is layered in the pipeline package.
package transport

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/lorekeep/gm-assist/internal/domain"
)

// maxResponseBytes caps how much of an upstream body is read into memory.
// Anything past the cap is discarded; the sanitizer bounds field sizes
// further downstream.
const maxResponseBytes = 16 << 20 // 16 MiB

// HTTPInvoker implements domain.Invoker over a shared http.Client.
type HTTPInvoker struct {
	hc *http.Client
}

// New constructs an invoker with the given per-call timeout. The transport
// is wrapped with otelhttp so outbound spans correlate with panel traces.
func New(timeout time.Duration) *HTTPInvoker {
	return &HTTPInvoker{
		hc: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Invoke performs exactly one HTTP exchange. A non-2xx status is not an
// error at this layer; it is returned in the Response for the policy engine
// to classify. Only transport-level failures (DNS, refused connection,
// timeout) produce an error.
func (i *HTTPInvoker) Invoke(ctx domain.Context, req domain.Request) (domain.Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return domain.Response{}, fmt.Errorf("op=transport.Invoke: %w: %v", domain.ErrInvalidArgument, err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if httpReq.Header.Get("Content-Type") == "" && len(req.Body) > 0 {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := i.hc.Do(httpReq)
	if err != nil {
		return domain.Response{}, fmt.Errorf("op=transport.Invoke url=%s: %w", req.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.Response{}, fmt.Errorf("op=transport.Invoke read body: %w", err)
	}

	slog.Debug("upstream call completed",
		slog.String("url", req.URL),
		slog.Int("status", resp.StatusCode),
		slog.Int("body_bytes", len(body)),
		slog.Duration("elapsed", time.Since(start)))

	return domain.Response{Status: resp.StatusCode, Body: body}, nil
}
