// Package settings implements the YAML-file settings store the host
// application edits. The pipeline consumes these values as runtime
// parameters only; no queued work is ever persisted.
package settings

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Settings are the user-tunable knobs surfaced in the host application.
type Settings struct {
	MaxQueueSize      int           `yaml:"max_queue_size" validate:"gte=1"`
	MaxRetryAttempts  int           `yaml:"max_retry_attempts" validate:"gte=1"`
	RetryBaseDelay    time.Duration `yaml:"retry_base_delay" validate:"gte=0"`
	RetryEnabled      bool          `yaml:"retry_enabled"`
	TextModel         string        `yaml:"text_model"`
	ImageModel        string        `yaml:"image_model"`
	IllustrationStyle string        `yaml:"illustration_style"`
}

// Defaults returns the settings used when no file exists yet.
func Defaults() Settings {
	return Settings{
		MaxQueueSize:      10,
		MaxRetryAttempts:  3,
		RetryBaseDelay:    2 * time.Second,
		RetryEnabled:      true,
		TextModel:         "gpt-4o-mini",
		ImageModel:        "dall-e-3",
		IllustrationStyle: "ink and watercolor",
	}
}

var validate = validator.New()

// Store is a file-backed settings store safe for concurrent use.
type Store struct {
	path string

	mu  sync.RWMutex
	cur Settings
}

// NewStore loads settings from path, falling back to defaults when the file
// does not exist. A malformed or invalid file is an error; silent fallback
// would hide user mistakes.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, cur: Defaults()}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("op=settings.NewStore: %w", err)
	}
	var loaded Settings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("op=settings.NewStore parse %s: %w", path, err)
	}
	if err := validate.Struct(loaded); err != nil {
		return nil, fmt.Errorf("op=settings.NewStore validate %s: %w", path, err)
	}
	s.cur = loaded
	return s, nil
}

// Get returns a copy of the current settings.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Update validates, persists, and swaps in new settings.
func (s *Store) Update(next Settings) error {
	if err := validate.Struct(next); err != nil {
		return fmt.Errorf("op=settings.Update: %w", err)
	}
	data, err := yaml.Marshal(next)
	if err != nil {
		return fmt.Errorf("op=settings.Update marshal: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("op=settings.Update write %s: %w", s.path, err)
	}
	s.cur = next
	return nil
}
