package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/gm-assist/internal/domain"
)

func TestInvokeReturnsStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	inv := New(5 * time.Second)
	resp, err := inv.Invoke(context.Background(), domain.Request{
		URL:    srv.URL,
		Header: http.Header{"Authorization": []string{"Bearer k"}},
		Body:   []byte(`{}`),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, `{"ok":true}`, string(resp.Body))
}

func TestInvokeNonOKStatusIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	inv := New(5 * time.Second)
	resp, err := inv.Invoke(context.Background(), domain.Request{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.Status)
}

func TestInvokeTransportError(t *testing.T) {
	inv := New(500 * time.Millisecond)
	// Closed port: connection refused surfaces as a transport error.
	_, err := inv.Invoke(context.Background(), domain.Request{URL: "http://127.0.0.1:1"})
	require.Error(t, err)
}

func TestInvokeCapsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 1024)))
	}))
	defer srv.Close()

	inv := New(5 * time.Second)
	resp, err := inv.Invoke(context.Background(), domain.Request{URL: srv.URL})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(resp.Body), maxResponseBytes)
	assert.Len(t, resp.Body, 1024)
}
