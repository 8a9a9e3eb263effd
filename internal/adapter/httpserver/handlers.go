package httpserver

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lorekeep/gm-assist/internal/domain"
	"github.com/lorekeep/gm-assist/internal/service/scenes"
)

// maxBodyBytes caps panel request bodies; transcripts are text, not uploads.
const maxBodyBytes = 1 << 20

// Server bundles the caller boundaries behind the panel routes.
type Server struct {
	Assistant domain.Assistant
	Artist    domain.Illustrator
}

// NewServer builds the panel handler set.
func NewServer(assistant domain.Assistant, artist domain.Illustrator) *Server {
	return &Server{Assistant: assistant, Artist: artist}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, fmt.Errorf("%w: malformed request body", domain.ErrInvalidArgument))
		return false
	}
	return true
}

type analyzeRequest struct {
	Transcript string `json:"transcript"`
}

// HandleAnalyze runs transcript analysis and returns bounded suggestions.
func (s *Server) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.Assistant.Analyze(r.Context(), req.Transcript)
	if err != nil {
		writeError(w, err)
		return
	}
	scene := scenes.Classify(req.Transcript)
	suggestions := make([]map[string]any, 0, len(res.Suggestions))
	for _, sg := range res.Suggestions {
		suggestions = append(suggestions, map[string]any{
			"content":    sg.Content,
			"reason":     sg.Reason,
			"confidence": sg.Confidence,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"is_off_track": res.OffTrack,
		"severity":     res.Severity,
		"summary":      res.Summary,
		"suggestions":  suggestions,
		"scene": map[string]any{
			"type":       scene.Type,
			"confidence": scene.Confidence,
		},
	})
}

type rulesRequest struct {
	Question string `json:"question"`
}

// HandleRules answers a rules question.
func (s *Server) HandleRules(w http.ResponseWriter, r *http.Request) {
	var req rulesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.Assistant.LookupRules(r.Context(), req.Question)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"answer":     res.Answer,
		"pages":      res.Pages,
		"confidence": res.Confidence,
	})
}

type bridgeRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// HandleBridge drafts a narrative bridge between two scenes.
func (s *Server) HandleBridge(w http.ResponseWriter, r *http.Request) {
	var req bridgeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.Assistant.BridgeNarrative(r.Context(), req.From, req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bridge": res.Text})
}

type summaryRequest struct {
	Transcript string `json:"transcript"`
}

// HandleSummary produces a session recap.
func (s *Server) HandleSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.Assistant.Summarize(r.Context(), req.Transcript)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"summary":    res.Text,
		"key_events": res.KeyEvents,
	})
}

type illustrateRequest struct {
	Description string `json:"description"`
	Style       string `json:"style"`
}

// HandleIllustrate generates a scene illustration; image bytes are returned
// base64-encoded with the sniffed media type.
func (s *Server) HandleIllustrate(w http.ResponseWriter, r *http.Request) {
	var req illustrateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.Artist.Illustrate(r.Context(), req.Description, req.Style)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"prompt":     res.Prompt,
		"media_type": res.MediaType,
		"image_b64":  base64.StdEncoding.EncodeToString(res.Data),
	})
}

// HandleQueueSize reports both queues. Safe to call at any time, including
// during shutdown.
func (s *Server) HandleQueueSize(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{
		"assistant": s.Assistant.QueueSize(),
		"artist":    s.Artist.QueueSize(),
	})
}

// HandleQueueClear cancels all pending (not in-flight) work on both queues.
func (s *Server) HandleQueueClear(w http.ResponseWriter, _ *http.Request) {
	s.Assistant.ClearQueue()
	s.Artist.ClearQueue()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// HandleHealthz is a liveness probe.
func (s *Server) HandleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
