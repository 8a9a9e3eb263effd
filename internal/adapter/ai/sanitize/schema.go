package sanitize

import (
	"encoding/json"

	"github.com/lorekeep/gm-assist/internal/domain"
)

// Field caps. Policy constants, applied uniformly; not derived from the
// upstream contract because there is none.
const (
	// MaxContentChars bounds free-text suggestion and answer content.
	MaxContentChars = 5000
	// MaxReasonChars bounds short status reasons.
	MaxReasonChars = 1000
	// MaxBridgeChars bounds narrative bridges.
	MaxBridgeChars = 2000
	// MaxSummaryChars bounds summaries.
	MaxSummaryChars = 2000
	// MaxPageRefChars bounds a single reference-page entry.
	MaxPageRefChars = 200
	// MaxSuggestions caps suggestion lists.
	MaxSuggestions = 10
	// MaxPageRefs caps reference-page lists.
	MaxPageRefs = 20
	// MaxKeyEvents caps key-event lists in summaries.
	MaxKeyEvents = 10
	// MaxImageB64Chars bounds a base64 image payload field.
	MaxImageB64Chars = 12 << 20
)

// parseObject interprets body as a JSON object. The bool result is false
// when the body is not an object at all; callers fall back to defaults.
func parseObject(body []byte) (map[string]any, bool) {
	var tree any
	if err := json.Unmarshal(body, &tree); err != nil {
		return nil, false
	}
	obj, ok := tree.(map[string]any)
	return obj, ok
}

// Analysis bounds a transcript-analysis body into a typed payload. A body
// that is not a JSON object yields the zero Analysis.
func Analysis(body []byte) domain.Analysis {
	obj, ok := parseObject(body)
	if !ok {
		return domain.Analysis{Suggestions: []domain.Suggestion{}}
	}
	out := domain.Analysis{
		OffTrack: Bool(obj["is_off_track"]),
		Severity: Number(obj["severity"], 0, 1),
		Summary:  clean(String(obj["summary"], MaxSummaryChars)),
	}
	raw := Array(obj["suggestions"], MaxSuggestions)
	out.Suggestions = make([]domain.Suggestion, 0, len(raw))
	for _, el := range raw {
		m, ok := el.(map[string]any)
		if !ok {
			// A bare string still counts as a suggestion body.
			if s := clean(String(el, MaxContentChars)); s != "" {
				out.Suggestions = append(out.Suggestions, domain.Suggestion{Content: s})
			}
			continue
		}
		out.Suggestions = append(out.Suggestions, domain.Suggestion{
			Content:    clean(String(m["content"], MaxContentChars)),
			Reason:     clean(String(m["reason"], MaxReasonChars)),
			Confidence: Number(m["confidence"], 0, 1),
		})
	}
	return out
}

// RuleAnswer bounds a rules-lookup body.
func RuleAnswer(body []byte) domain.RuleAnswer {
	obj, ok := parseObject(body)
	if !ok {
		return domain.RuleAnswer{Pages: []string{}}
	}
	return domain.RuleAnswer{
		Answer:     clean(String(obj["answer"], MaxContentChars)),
		Pages:      StringSlice(obj["pages"], MaxPageRefs, MaxPageRefChars),
		Confidence: Number(obj["confidence"], 0, 1),
	}
}

// Bridge bounds a narrative-bridge body.
func Bridge(body []byte) domain.Bridge {
	obj, ok := parseObject(body)
	if !ok {
		return domain.Bridge{}
	}
	return domain.Bridge{Text: clean(String(obj["bridge"], MaxBridgeChars))}
}

// Summary bounds a session-summary body.
func Summary(body []byte) domain.Summary {
	obj, ok := parseObject(body)
	if !ok {
		return domain.Summary{KeyEvents: []string{}}
	}
	return domain.Summary{
		Text:      clean(String(obj["summary"], MaxSummaryChars)),
		KeyEvents: StringSlice(obj["key_events"], MaxKeyEvents, MaxReasonChars),
	}
}

// ImageB64 extracts a bounded base64 image field from an image-generation
// body shaped like {"data":[{"b64_json": "..."}]}. Returns "" when absent.
func ImageB64(body []byte) string {
	obj, ok := parseObject(body)
	if !ok {
		return ""
	}
	data := Array(obj["data"], 1)
	if len(data) == 0 {
		return ""
	}
	entry, ok := data[0].(map[string]any)
	if !ok {
		return ""
	}
	return String(entry["b64_json"], MaxImageB64Chars)
}
