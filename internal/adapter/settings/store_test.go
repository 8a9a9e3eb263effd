package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreMissingFileUsesDefaults(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s.Get())
}

func TestUpdateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	s, err := NewStore(path)
	require.NoError(t, err)

	next := Defaults()
	next.MaxQueueSize = 4
	next.RetryBaseDelay = 250 * time.Millisecond
	next.RetryEnabled = false
	require.NoError(t, s.Update(next))
	assert.Equal(t, next, s.Get())

	// A fresh store sees the persisted values.
	s2, err := NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, next, s2.Get())
}

func TestUpdateRejectsInvalid(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)

	bad := Defaults()
	bad.MaxQueueSize = 0
	assert.Error(t, s.Update(bad))
	// Current settings untouched.
	assert.Equal(t, Defaults(), s.Get())
}

func TestNewStoreRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_queue_size: [broken"), 0o600))
	_, err := NewStore(path)
	assert.Error(t, err)
}

func TestNewStoreRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_queue_size: 0\nmax_retry_attempts: 3\n"), 0o600))
	_, err := NewStore(path)
	assert.Error(t, err)
}
