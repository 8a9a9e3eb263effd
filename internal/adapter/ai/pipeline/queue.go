package pipeline

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/lorekeep/gm-assist/internal/adapter/observability"
	"github.com/lorekeep/gm-assist/internal/domain"
)

type outcome struct {
	resp domain.Response
	err  error
}

type pendingRequest struct {
	id         string
	ctx        domain.Context
	req        domain.Request
	result     chan outcome // buffered 1; single producer, single consumer
	enqueuedAt time.Time
}

// Client is the admission-controlled entry point every caller uses. It
// admits at most one in-flight execution at a time, holds excess callers in
// a bounded FIFO, and rejects outright once the FIFO is full. Two client
// instances (text, image) do not share state or limit each other.
type Client struct {
	name    string
	engine  *Engine
	maxSize int

	mu       sync.Mutex
	pending  []*pendingRequest
	inFlight bool
}

// NewClient builds a queue over the given engine. maxQueueSize bounds the
// number of outstanding requests (the in-flight one plus the pending tail).
func NewClient(name string, engine *Engine, maxQueueSize int) *Client {
	return &Client{name: name, engine: engine, maxSize: maxQueueSize}
}

var ulidEntropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0) //nolint:gosec // Weak random is sufficient for ULID entropy.

func newRequestID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// Submit admits a request and suspends the caller until its outcome is
// delivered. If the queue is idle the request is serviced immediately; if
// the pending list is full it fails at once with ErrQueueFull and never
// suspends. Admitted requests are serviced in strict FIFO order.
func (c *Client) Submit(ctx domain.Context, req domain.Request) (domain.Response, error) {
	p := &pendingRequest{
		id:         newRequestID(),
		ctx:        ctx,
		req:        req,
		result:     make(chan outcome, 1),
		enqueuedAt: time.Now(),
	}

	c.mu.Lock()
	// Capacity counts the in-flight slot: at most maxSize requests may be
	// outstanding (one servicing plus the pending tail).
	outstanding := len(c.pending)
	if c.inFlight {
		outstanding++
	}
	switch {
	case !c.inFlight && len(c.pending) == 0:
		c.inFlight = true
		c.mu.Unlock()
		observability.QueueAdmissionsTotal.WithLabelValues(c.name).Inc()
		go c.service(p)
	case outstanding < c.maxSize:
		c.pending = append(c.pending, p)
		depth := len(c.pending)
		c.mu.Unlock()
		observability.QueueAdmissionsTotal.WithLabelValues(c.name).Inc()
		observability.QueueDepth.WithLabelValues(c.name).Set(float64(depth))
		slog.Debug("request queued",
			slog.String("client", c.name),
			slog.String("request_id", p.id),
			slog.Int("depth", depth))
	default:
		c.mu.Unlock()
		observability.QueueRejectionsTotal.WithLabelValues(c.name).Inc()
		return domain.Response{}, fmt.Errorf("op=pipeline.Submit client=%s: %w", c.name, domain.ErrQueueFull)
	}

	select {
	case out := <-p.result:
		return out.resp, out.err
	case <-ctx.Done():
		// The caller gave up; the entry stays in the queue and its
		// eventual outcome is discarded via the buffered channel.
		return domain.Response{}, ctx.Err()
	}
}

// service runs the in-flight request to completion, delivers its outcome,
// then drains the pending list one request at a time until empty.
func (c *Client) service(first *pendingRequest) {
	p := first
	for {
		start := time.Now()
		resp, err := c.engine.Execute(p.ctx, p.req)
		observability.UpstreamDuration.WithLabelValues(c.name).Observe(time.Since(start).Seconds())
		p.result <- outcome{resp: resp, err: err}
		slog.Debug("request serviced",
			slog.String("client", c.name),
			slog.String("request_id", p.id),
			slog.Duration("total", time.Since(p.enqueuedAt)))

		c.mu.Lock()
		if len(c.pending) == 0 {
			c.inFlight = false
			c.mu.Unlock()
			return
		}
		p = c.pending[0]
		c.pending = c.pending[1:]
		observability.QueueDepth.WithLabelValues(c.name).Set(float64(len(c.pending)))
		c.mu.Unlock()
	}
}

// Size returns the number of queued requests, not counting the in-flight
// one. Non-blocking read.
func (c *Client) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Clear atomically removes every queued request and resolves each with
// ErrCancelled. The in-flight request, if any, finishes naturally.
func (c *Client) Clear() {
	c.mu.Lock()
	dropped := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, p := range dropped {
		p.result <- outcome{err: fmt.Errorf("op=pipeline.Clear client=%s: %w", c.name, domain.ErrCancelled)}
	}
	if len(dropped) > 0 {
		observability.QueueCancellationsTotal.WithLabelValues(c.name).Add(float64(len(dropped)))
		observability.QueueDepth.WithLabelValues(c.name).Set(0)
		slog.Info("queue cleared",
			slog.String("client", c.name),
			slog.Int("dropped", len(dropped)))
	}
}
