// Package assistant is the text caller boundary of the pipeline: it builds
// prompts from session transcripts, submits them through the shared
// admission-controlled queue, and sanitizes every response before it reaches
// the rest of the application.
package assistant

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lorekeep/gm-assist/internal/adapter/ai/sanitize"
	"github.com/lorekeep/gm-assist/internal/config"
	"github.com/lorekeep/gm-assist/internal/domain"
	"github.com/lorekeep/gm-assist/internal/service/scenes"
	"github.com/lorekeep/gm-assist/internal/service/tokencount"
)

// Submitter is the pipeline surface the service depends on.
type Submitter interface {
	Submit(ctx domain.Context, req domain.Request) (domain.Response, error)
	Size() int
	Clear()
}

// Service implements domain.Assistant.
type Service struct {
	cfg     config.Config
	pipe    Submitter
	counter *tokencount.Counter
}

// New constructs the text assistant over its pipeline client.
func New(cfg config.Config, pipe Submitter) *Service {
	return &Service{cfg: cfg, pipe: pipe, counter: tokencount.NewCounter()}
}

// chatEnvelope is the upstream chat-completions outer shape. Only the first
// choice's content is consumed; everything inside it stays untrusted until
// sanitized.
type chatEnvelope struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chat submits one chat-completion call and returns the raw (untrusted)
// message content. Pipeline errors propagate unchanged.
func (s *Service) chat(ctx domain.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"model":           s.cfg.TextModel,
		"max_tokens":      maxTokens,
		"response_format": map[string]string{"type": "json_object"},
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("op=assistant.chat marshal: %w", err)
	}

	resp, err := s.pipe.Submit(ctx, domain.Request{
		Method: http.MethodPost,
		URL:    s.cfg.TextBaseURL + "/chat/completions",
		Header: http.Header{
			"Authorization": []string{"Bearer " + s.cfg.APIKey},
			"Content-Type":  []string{"application/json"},
		},
		Body: payload,
	})
	if err != nil {
		return "", err
	}

	var env chatEnvelope
	if err := json.Unmarshal(resp.Body, &env); err != nil || len(env.Choices) == 0 {
		// Formatting drift from the upstream is absorbed downstream by the
		// sanitizer's safe defaults, not surfaced as an error.
		slog.Warn("unexpected chat envelope",
			slog.Int("status", resp.Status),
			slog.Int("body_bytes", len(resp.Body)))
		return "", nil
	}
	return env.Choices[0].Message.Content, nil
}

// Analyze reviews a transcript for narrative drift and suggests direction.
func (s *Service) Analyze(ctx domain.Context, transcript string) (domain.Analysis, error) {
	transcript = s.counter.TrimToBudget(transcript, s.cfg.TokenModel, s.cfg.PromptTokenBudget)
	scene := scenes.Classify(transcript)
	content, err := s.chat(ctx, analyzeSystemPrompt, analyzeUserPrompt(transcript, scene), 1200)
	if err != nil {
		return domain.Analysis{}, err
	}
	return sanitize.Analysis([]byte(content)), nil
}

// LookupRules answers a rules question with page references.
func (s *Service) LookupRules(ctx domain.Context, question string) (domain.RuleAnswer, error) {
	if question == "" {
		return domain.RuleAnswer{}, fmt.Errorf("op=assistant.LookupRules: %w: empty question", domain.ErrInvalidArgument)
	}
	content, err := s.chat(ctx, rulesSystemPrompt, rulesUserPrompt(question), 800)
	if err != nil {
		return domain.RuleAnswer{}, err
	}
	return sanitize.RuleAnswer([]byte(content)), nil
}

// BridgeNarrative drafts a short bridge between two scenes.
func (s *Service) BridgeNarrative(ctx domain.Context, fromScene, toScene string) (domain.Bridge, error) {
	content, err := s.chat(ctx, bridgeSystemPrompt, bridgeUserPrompt(fromScene, toScene), 600)
	if err != nil {
		return domain.Bridge{}, err
	}
	return sanitize.Bridge([]byte(content)), nil
}

// Summarize condenses a transcript into a recap with key events.
func (s *Service) Summarize(ctx domain.Context, transcript string) (domain.Summary, error) {
	transcript = s.counter.TrimToBudget(transcript, s.cfg.TokenModel, s.cfg.PromptTokenBudget)
	content, err := s.chat(ctx, summarySystemPrompt, summaryUserPrompt(transcript), 800)
	if err != nil {
		return domain.Summary{}, err
	}
	return sanitize.Summary([]byte(content)), nil
}

// QueueSize reports pending (not in-flight) requests. Safe from any context.
func (s *Service) QueueSize() int { return s.pipe.Size() }

// ClearQueue cancels pending work; the in-flight request finishes naturally.
func (s *Service) ClearQueue() { s.pipe.Clear() }
