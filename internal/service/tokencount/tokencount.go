// Package tokencount provides token counting for prompt budgeting.
//
// It uses tiktoken-go, a Go port of OpenAI's tiktoken library, so transcript
// trimming decisions match what the upstream service will actually bill.
package tokencount

import (
	"log/slog"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Counter provides thread-safe token counting.
type Counter struct {
	mu            sync.RWMutex
	encodingCache map[string]*tiktoken.Tiktoken
}

// NewCounter creates a new token counter instance.
func NewCounter() *Counter {
	return &Counter{encodingCache: make(map[string]*tiktoken.Tiktoken)}
}

// Count returns the token count of text for the given model. When the model
// encoding cannot be resolved (offline, unknown model) it falls back to a
// bytes/4 estimate rather than failing the call.
func (c *Counter) Count(text, model string) int {
	if text == "" {
		return 0
	}
	enc := c.encoding(model)
	if enc == nil {
		return estimate(text)
	}
	return len(enc.Encode(text, nil, nil))
}

// TrimToBudget drops the oldest text until the token count fits budget.
// Transcript tails carry the live context, so trimming removes from the
// front in quarter-length steps.
func (c *Counter) TrimToBudget(text, model string, budget int) string {
	if budget <= 0 {
		return ""
	}
	for c.Count(text, model) > budget {
		cut := len(text) / 4
		if cut == 0 {
			return ""
		}
		text = text[cut:]
	}
	return text
}

func (c *Counter) encoding(model string) *tiktoken.Tiktoken {
	c.mu.RLock()
	enc, ok := c.encodingCache[model]
	c.mu.RUnlock()
	if ok {
		return enc
	}

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		slog.Debug("token encoding unavailable, using estimate",
			slog.String("model", model),
			slog.Any("error", err))
		return nil
	}
	c.mu.Lock()
	c.encodingCache[model] = enc
	c.mu.Unlock()
	return enc
}

// estimate approximates tokens as bytes/4, the usual English-text heuristic.
func estimate(text string) int {
	return (len(text) + 3) / 4
}
