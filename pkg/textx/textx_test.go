// Package textx contains tests for the text utilities.
package textx

import (
	"strings"
	"testing"
)

func TestSanitizeText(t *testing.T) {
	in := "he\x00llo\nwo\x7frld\t!"
	got := SanitizeText(in)
	if got != "hello\nworld\t!" {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes(strings.Repeat("A", 10), 4); got != "AAAA" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := TruncateRunes("héllo", 2); got != "hé" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := TruncateRunes("abc", 10); got != "abc" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := TruncateRunes("abc", 0); got != "" {
		t.Fatalf("unexpected: %q", got)
	}
}
