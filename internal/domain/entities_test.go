package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrQueueFull, ErrCancelled, ErrTransientUpstream, ErrTerminalUpstream, ErrInvalidArgument}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}

func TestSentinelWrapping(t *testing.T) {
	err := fmt.Errorf("op=submit: %w", ErrQueueFull)
	assert.True(t, errors.Is(err, ErrQueueFull))

	err = fmt.Errorf("%w: status 503", ErrTransientUpstream)
	assert.True(t, errors.Is(err, ErrTransientUpstream))
	assert.False(t, errors.Is(err, ErrTerminalUpstream))
}
