// Package sanitize converts untrusted, loosely-structured upstream response
// bodies into bounded, typed payloads. It never raises on malformed content;
// a body that cannot be interpreted yields a safe default with empty or zero
// values for every field. No escaping is performed here; rendering safety is
// a presentation-layer concern.
package sanitize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lorekeep/gm-assist/pkg/textx"
)

// String coerces v into a string of at most maxLen characters. nil yields
// the empty string; non-strings go through their default string
// representation. No truncation marker is inserted.
func String(v any, maxLen int) string {
	if v == nil {
		return ""
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	default:
		s = fmt.Sprint(t)
	}
	return textx.TruncateRunes(s, maxLen)
}

// Number coerces v into a float64 clamped to [min, max]. nil, NaN, and
// anything non-numeric yield min. Infinities clamp to the respective bound.
// Numeric strings are coerced rather than rejected.
func Number(v any, min, max float64) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return min
		}
		f = parsed
	case bool:
		if t {
			f = 1
		}
	default:
		return min
	}
	switch {
	case math.IsNaN(f):
		return min
	case f < min || math.IsInf(f, -1):
		return min
	case f > max || math.IsInf(f, 1):
		return max
	}
	return f
}

// Array coerces v into a slice of at most maxItems elements, order and
// element identity preserved. nil or non-arrays yield an empty slice.
func Array(v any, maxItems int) []any {
	arr, ok := v.([]any)
	if !ok || maxItems <= 0 {
		return []any{}
	}
	if len(arr) > maxItems {
		arr = arr[:maxItems]
	}
	return arr
}

// Bool coerces v permissively: booleans pass through, affirmative strings
// ("true", "yes", "1") and non-zero numbers count as true, everything else
// is false. The upstream format is not contractually guaranteed, so
// wrong-typed fields are coerced rather than rejected.
func Bool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1":
			return true
		}
		return false
	case float64:
		return t != 0
	case int:
		return t != 0
	}
	return false
}

// StringSlice coerces v into a slice of bounded strings, dropping elements
// that coerce to empty.
func StringSlice(v any, maxItems, maxLen int) []string {
	arr := Array(v, maxItems)
	out := make([]string, 0, len(arr))
	for _, el := range arr {
		s := clean(String(el, maxLen))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// clean strips control characters from text destined for application state.
func clean(s string) string {
	return textx.SanitizeText(s)
}
