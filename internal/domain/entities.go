package domain

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Error taxonomy (sentinels)
var (
	// ErrQueueFull signals that admission was rejected because the pending
	// queue is at capacity. Callers must back off; the queue never retries.
	ErrQueueFull = errors.New("queue full")
	// ErrCancelled signals that a queued (not yet started) request was
	// dropped by a queue clear.
	ErrCancelled = errors.New("cancelled")
	// ErrTransientUpstream covers retryable upstream failures (429, 5xx,
	// transport errors); surfaced only after retries are exhausted.
	ErrTransientUpstream = errors.New("transient upstream failure")
	// ErrTerminalUpstream covers non-retryable upstream failures (4xx other
	// than 429 and any unclassified anomaly); surfaced after one attempt.
	ErrTerminalUpstream = errors.New("terminal upstream failure")
	// ErrInvalidArgument signals caller-side misuse (empty input, bad config).
	ErrInvalidArgument = errors.New("invalid argument")
)

// Context aliases the standard context for port signatures.
type Context = context.Context

// Request describes one outbound call to the generative service.
// The pipeline treats it as opaque; only the Invoker interprets it.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the raw upstream reply. Body is untrusted until it has passed
// through the sanitizer.
type Response struct {
	Status int
	Body   []byte
}

// Invoker performs exactly one outbound call. Implementations must not
// retry or queue; all resilience is layered above.
type Invoker interface {
	Invoke(ctx Context, req Request) (Response, error)
}

// Suggestion is one bounded narrative suggestion from the assistant.
type Suggestion struct {
	Content    string
	Reason     string
	Confidence float64 // [0,1]
}

// Analysis is the sanitized result of a transcript analysis call.
type Analysis struct {
	OffTrack    bool
	Severity    float64 // [0,1]
	Summary     string
	Suggestions []Suggestion
}

// RuleAnswer is the sanitized result of a rules lookup.
type RuleAnswer struct {
	Answer     string
	Pages      []string
	Confidence float64 // [0,1]
}

// Bridge is a sanitized narrative bridge between two scenes.
type Bridge struct {
	Text string
}

// Summary is a sanitized session summary.
type Summary struct {
	Text      string
	KeyEvents []string
}

// Illustration is a decoded, type-sniffed scene image.
type Illustration struct {
	Prompt    string
	MediaType string
	Data      []byte
	CreatedAt time.Time
}

// Assistant is the text caller boundary (port).
type Assistant interface {
	Analyze(ctx Context, transcript string) (Analysis, error)
	LookupRules(ctx Context, question string) (RuleAnswer, error)
	BridgeNarrative(ctx Context, fromScene, toScene string) (Bridge, error)
	Summarize(ctx Context, transcript string) (Summary, error)
	QueueSize() int
	ClearQueue()
}

// Illustrator is the image caller boundary (port).
type Illustrator interface {
	Illustrate(ctx Context, description, style string) (Illustration, error)
	QueueSize() int
	ClearQueue()
}
