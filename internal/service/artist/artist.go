// Package artist is the image caller boundary: it turns scene descriptions
// into illustration requests, submits them through its own pipeline instance
// (independent queue and limits from the text assistant), and bounds and
// type-sniffs the returned image before it reaches the panel.
package artist

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/lorekeep/gm-assist/internal/adapter/ai/sanitize"
	"github.com/lorekeep/gm-assist/internal/config"
	"github.com/lorekeep/gm-assist/internal/domain"
	"github.com/lorekeep/gm-assist/pkg/textx"
)

// maxPromptChars bounds the prompt sent upstream; image APIs reject long
// prompts with a terminal 400, which wastes the queue slot.
const maxPromptChars = 3500

// Submitter is the pipeline surface the service depends on.
type Submitter interface {
	Submit(ctx domain.Context, req domain.Request) (domain.Response, error)
	Size() int
	Clear()
}

// Service implements domain.Illustrator.
type Service struct {
	cfg  config.Config
	pipe Submitter
}

// New constructs the illustrator over its pipeline client.
func New(cfg config.Config, pipe Submitter) *Service {
	return &Service{cfg: cfg, pipe: pipe}
}

// Illustrate generates one scene image. Malformed upstream bodies yield an
// empty Illustration rather than an error; pipeline failures propagate
// unchanged.
func (s *Service) Illustrate(ctx domain.Context, description, style string) (domain.Illustration, error) {
	if description == "" {
		return domain.Illustration{}, fmt.Errorf("op=artist.Illustrate: %w: empty description", domain.ErrInvalidArgument)
	}
	prompt := textx.TruncateRunes(description+", "+style, maxPromptChars)

	payload, err := json.Marshal(map[string]any{
		"model":           s.cfg.ImageModel,
		"prompt":          prompt,
		"size":            s.cfg.ImageSize,
		"n":               1,
		"response_format": "b64_json",
	})
	if err != nil {
		return domain.Illustration{}, fmt.Errorf("op=artist.Illustrate marshal: %w", err)
	}

	resp, err := s.pipe.Submit(ctx, domain.Request{
		Method: http.MethodPost,
		URL:    s.cfg.ImageBaseURL + "/images/generations",
		Header: http.Header{
			"Authorization": []string{"Bearer " + s.cfg.APIKey},
			"Content-Type":  []string{"application/json"},
		},
		Body: payload,
	})
	if err != nil {
		return domain.Illustration{}, err
	}

	b64 := sanitize.ImageB64(resp.Body)
	if b64 == "" {
		slog.Warn("image response missing payload", slog.Int("status", resp.Status))
		return domain.Illustration{Prompt: prompt, CreatedAt: time.Now()}, nil
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		// Malformed but recoverable: degrade to an empty illustration.
		slog.Warn("image payload not valid base64", slog.Any("error", err))
		return domain.Illustration{Prompt: prompt, CreatedAt: time.Now()}, nil
	}

	return domain.Illustration{
		Prompt:    prompt,
		MediaType: mimetype.Detect(data).String(),
		Data:      data,
		CreatedAt: time.Now(),
	}, nil
}

// QueueSize reports pending (not in-flight) requests.
func (s *Service) QueueSize() int { return s.pipe.Size() }

// ClearQueue cancels pending work; the in-flight request finishes naturally.
func (s *Service) ClearQueue() { s.pipe.Clear() }
