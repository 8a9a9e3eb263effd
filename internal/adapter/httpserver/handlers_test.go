package httpserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/gm-assist/internal/config"
	"github.com/lorekeep/gm-assist/internal/domain"
)

type stubAssistant struct {
	analysis domain.Analysis
	rules    domain.RuleAnswer
	bridge   domain.Bridge
	summary  domain.Summary
	err      error
	size     int
	cleared  bool
}

func (s *stubAssistant) Analyze(_ domain.Context, _ string) (domain.Analysis, error) {
	return s.analysis, s.err
}
func (s *stubAssistant) LookupRules(_ domain.Context, _ string) (domain.RuleAnswer, error) {
	return s.rules, s.err
}
func (s *stubAssistant) BridgeNarrative(_ domain.Context, _, _ string) (domain.Bridge, error) {
	return s.bridge, s.err
}
func (s *stubAssistant) Summarize(_ domain.Context, _ string) (domain.Summary, error) {
	return s.summary, s.err
}
func (s *stubAssistant) QueueSize() int { return s.size }
func (s *stubAssistant) ClearQueue()    { s.cleared = true }

type stubArtist struct {
	ill     domain.Illustration
	err     error
	size    int
	cleared bool
}

func (s *stubArtist) Illustrate(_ domain.Context, _, _ string) (domain.Illustration, error) {
	return s.ill, s.err
}
func (s *stubArtist) QueueSize() int { return s.size }
func (s *stubArtist) ClearQueue()    { s.cleared = true }

func testRouter(a *stubAssistant, ar *stubArtist, cfg config.Config) http.Handler {
	return NewRouter(cfg, NewServer(a, ar))
}

func baseConfig() config.Config {
	return config.Config{CORSAllowOrigins: "*", RateLimitPerMin: 0}
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeEndpoint(t *testing.T) {
	a := &stubAssistant{analysis: domain.Analysis{
		OffTrack: true,
		Severity: 0.7,
		Summary:  "the heist has stalled",
	}}
	h := testRouter(a, &stubArtist{}, baseConfig())

	rec := doJSON(t, h, http.MethodPost, "/v1/assistant/analyze", `{"transcript":"roll initiative, the guard attacks"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_off_track":true`)
	assert.Contains(t, rec.Body.String(), `"scene"`)
}

func TestAnalyzeMalformedBody(t *testing.T) {
	h := testRouter(&stubAssistant{}, &stubArtist{}, baseConfig())
	rec := doJSON(t, h, http.MethodPost, "/v1/assistant/analyze", `{broken`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_ARGUMENT")
}

func TestQueueFullMapsTo503(t *testing.T) {
	a := &stubAssistant{err: fmt.Errorf("op=pipeline.Submit: %w", domain.ErrQueueFull)}
	h := testRouter(a, &stubArtist{}, baseConfig())

	rec := doJSON(t, h, http.MethodPost, "/v1/assistant/analyze", `{"transcript":"x"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "QUEUE_FULL")
}

func TestExhaustedRetriesMapTo502(t *testing.T) {
	a := &stubAssistant{err: fmt.Errorf("%w: status 503", domain.ErrTransientUpstream)}
	h := testRouter(a, &stubArtist{}, baseConfig())

	rec := doJSON(t, h, http.MethodPost, "/v1/assistant/rules", `{"question":"grappling?"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "UPSTREAM_TRANSIENT")
}

func TestRulesEndpoint(t *testing.T) {
	a := &stubAssistant{rules: domain.RuleAnswer{Answer: "opposed check", Pages: []string{"p. 195"}, Confidence: 0.9}}
	h := testRouter(a, &stubArtist{}, baseConfig())

	rec := doJSON(t, h, http.MethodPost, "/v1/assistant/rules", `{"question":"grappling?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "opposed check")
}

func TestIllustrateEndpoint(t *testing.T) {
	ar := &stubArtist{ill: domain.Illustration{
		Prompt:    "a tower, oil",
		MediaType: "image/png",
		Data:      []byte{1, 2, 3},
	}}
	h := testRouter(&stubAssistant{}, ar, baseConfig())

	rec := doJSON(t, h, http.MethodPost, "/v1/artist/illustrate", `{"description":"a tower","style":"oil"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"media_type":"image/png"`)
	assert.Contains(t, rec.Body.String(), `"image_b64":"AQID"`)
}

func TestQueueEndpoints(t *testing.T) {
	a := &stubAssistant{size: 2}
	ar := &stubArtist{size: 1}
	h := testRouter(a, ar, baseConfig())

	rec := doJSON(t, h, http.MethodGet, "/v1/queue", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"assistant":2`)
	assert.Contains(t, rec.Body.String(), `"artist":1`)

	rec = doJSON(t, h, http.MethodDelete, "/v1/queue", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, a.cleared)
	assert.True(t, ar.cleared)
}

func TestHealthz(t *testing.T) {
	h := testRouter(&stubAssistant{}, &stubArtist{}, baseConfig())
	rec := doJSON(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSecurityHeadersPresent(t *testing.T) {
	h := testRouter(&stubAssistant{}, &stubArtist{}, baseConfig())
	rec := doJSON(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
