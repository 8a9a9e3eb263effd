package sanitize

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "", String(nil, 100))
	assert.Equal(t, "hello", String("hello", 100))
	assert.Len(t, String(strings.Repeat("A", 10000), 100), 100)
	assert.Equal(t, "42", String(42.0, 100))
	assert.Equal(t, "3.5", String(3.5, 100))
	assert.Equal(t, "true", String(true, 100))
	// Truncation counts characters, not bytes.
	assert.Equal(t, "héé", String("hééllo", 3))
	// No truncation marker at this layer.
	assert.False(t, strings.HasSuffix(String(strings.Repeat("A", 200), 100), "..."))
}

func TestNumber(t *testing.T) {
	assert.Equal(t, 0.0, Number(nil, 0, 1))
	assert.Equal(t, 0.5, Number(0.5, 0, 1))
	assert.Equal(t, 0.0, Number(-5.0, 0, 1))
	assert.Equal(t, 1.0, Number(5.0, 0, 1))
	assert.Equal(t, 0.0, Number(math.NaN(), 0, 1))
	assert.Equal(t, 1.0, Number(math.Inf(1), 0, 1))
	assert.Equal(t, 0.0, Number(math.Inf(-1), 0, 1))
	assert.Equal(t, 0.0, Number("not a number", 0, 1))
	// Numeric strings are coerced, not rejected.
	assert.Equal(t, 0.7, Number("0.7", 0, 1))
	assert.Equal(t, 0.0, Number([]any{}, 0, 1))
	assert.Equal(t, 1.0, Number(true, 0, 1))
}

func TestArray(t *testing.T) {
	assert.Empty(t, Array(nil, 10))
	assert.Empty(t, Array("not an array", 10))
	assert.Empty(t, Array(map[string]any{}, 10))

	big := make([]any, 100)
	for i := range big {
		big[i] = i
	}
	got := Array(big, 10)
	assert.Len(t, got, 10)
	// Order and identity preserved: first ten elements.
	for i := 0; i < 10; i++ {
		assert.Equal(t, i, got[i])
	}

	small := []any{"a", "b"}
	assert.Equal(t, small, Array(small, 10))
}

func TestBool(t *testing.T) {
	assert.True(t, Bool(true))
	assert.False(t, Bool(false))
	assert.True(t, Bool("yes"))
	assert.True(t, Bool("TRUE"))
	assert.True(t, Bool("1"))
	assert.False(t, Bool("no"))
	assert.False(t, Bool(""))
	assert.True(t, Bool(1.0))
	assert.False(t, Bool(0.0))
	assert.False(t, Bool(nil))
	assert.False(t, Bool([]any{}))
}

func TestStringSlice(t *testing.T) {
	got := StringSlice([]any{"p. 12", 42.0, "", "p. 90"}, 10, 50)
	assert.Equal(t, []string{"p. 12", "42", "p. 90"}, got)

	assert.Empty(t, StringSlice(nil, 10, 50))
	assert.Len(t, StringSlice([]any{"a", "b", "c"}, 2, 50), 2)
}
