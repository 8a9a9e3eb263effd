// Package scenes classifies transcript excerpts into scene types using
// fixed keyword patterns. Deterministic and single-threaded; it never calls
// the generative service.
package scenes

import (
	"regexp"
	"strings"
)

// Type is a coarse scene classification.
type Type string

// Scene types recognized by the classifier.
const (
	TypeCombat      Type = "combat"
	TypeSocial      Type = "social"
	TypeExploration Type = "exploration"
	TypeDowntime    Type = "downtime"
	TypeUnknown     Type = "unknown"
)

// Classification is the result of pattern matching over a transcript.
type Classification struct {
	Type       Type
	Confidence float64 // [0,1], share of matches belonging to the winner
	Matches    int
}

var patterns = map[Type][]*regexp.Regexp{
	TypeCombat: compileAll(
		`\b(initiative|attack(s|ed|ing)?|damage|hit points?|hp\b|saving throw|crit(ical)?|round \d+)\b`,
		`\b(swing(s|ing)?|cast(s|ing)? .{0,20}(bolt|blast|smite)|parr(y|ies)|dodge(s|d)?)\b`,
	),
	TypeSocial: compileAll(
		`\b(persua(de|sion)|deception|intimidat(e|ion)|negotiat(e|ion)|barter(s|ing)?)\b`,
		`\b(says?|whisper(s|ed)?|shout(s|ed)?|asks?|tells?|convinc(e|es|ed|ing))\b`,
	),
	TypeExploration: compileAll(
		`\b(explor(e|es|ing)|search(es|ing)?|investigat(e|es|ing)|perception|map|corridor|passage|door(way)?)\b`,
		`\b(trap(s|ped)?|secret (door|passage)|torch(es)?|dungeon|cavern|ruins?)\b`,
	),
	TypeDowntime: compileAll(
		`\b(long rest|short rest|camp(s|ing)?|shopping|tavern|inn\b|downtime)\b`,
		`\b(craft(s|ing)?|train(s|ing)?|carous(e|ing)|restock(s|ing)?)\b`,
	),
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + e)
	}
	return out
}

// Classify scores text against each scene type's patterns and returns the
// best match. Empty or matchless text classifies as unknown with zero
// confidence.
func Classify(text string) Classification {
	text = strings.TrimSpace(text)
	if text == "" {
		return Classification{Type: TypeUnknown}
	}

	counts := make(map[Type]int, len(patterns))
	total := 0
	for typ, res := range patterns {
		for _, re := range res {
			n := len(re.FindAllStringIndex(text, -1))
			counts[typ] += n
			total += n
		}
	}
	if total == 0 {
		return Classification{Type: TypeUnknown}
	}

	best := TypeUnknown
	bestCount := 0
	// Iterate in a fixed order so ties break deterministically.
	for _, typ := range []Type{TypeCombat, TypeSocial, TypeExploration, TypeDowntime} {
		if counts[typ] > bestCount {
			best = typ
			bestCount = counts[typ]
		}
	}
	return Classification{
		Type:       best,
		Confidence: float64(bestCount) / float64(total),
		Matches:    bestCount,
	}
}
