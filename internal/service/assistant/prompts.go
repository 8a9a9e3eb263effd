package assistant

import (
	"fmt"

	"github.com/lorekeep/gm-assist/internal/service/scenes"
)

const analyzeSystemPrompt = `You are a game-master co-pilot. You read live session transcripts and help the GM keep the story coherent. Respond with ONLY valid JSON in this exact format:
{
  "is_off_track": true/false,
  "severity": 0.0-1.0,
  "summary": "one-paragraph read of where the scene stands",
  "suggestions": [
    {"content": "a concrete narrative suggestion", "reason": "why it helps", "confidence": 0.0-1.0}
  ]
}`

func analyzeUserPrompt(transcript string, scene scenes.Classification) string {
	return fmt.Sprintf(`Current scene type (pattern classifier): %s (confidence %.2f).

TRANSCRIPT:
%s

Assess whether the session has drifted from its arc and propose up to 5 suggestions.`, scene.Type, scene.Confidence, transcript)
}

const rulesSystemPrompt = `You are a tabletop rules assistant. Answer strictly from the rules as written. Respond with ONLY valid JSON:
{"answer": "the ruling", "pages": ["p. 195"], "confidence": 0.0-1.0}`

func rulesUserPrompt(question string) string {
	return "RULES QUESTION:\n" + question
}

const bridgeSystemPrompt = `You are a game-master co-pilot. Write a short narrative bridge the GM can read aloud to move between scenes. Respond with ONLY valid JSON:
{"bridge": "two to four sentences of read-aloud text"}`

func bridgeUserPrompt(fromScene, toScene string) string {
	return fmt.Sprintf("CURRENT SCENE:\n%s\n\nNEXT SCENE:\n%s", fromScene, toScene)
}

const summarySystemPrompt = `You are a game-master co-pilot. Condense the transcript into a session recap. Respond with ONLY valid JSON:
{"summary": "one-paragraph recap", "key_events": ["event 1", "event 2"]}`

func summaryUserPrompt(transcript string) string {
	return "TRANSCRIPT:\n" + transcript
}
