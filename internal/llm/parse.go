package llm

import (
	"encoding/json"
	"strings"

	"codearch/internal/types"
)

// StripFences removes a surrounding markdown code fence, which models emit
// even when asked for bare JSON.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// DecodeNarrative parses the model's analysis JSON leniently. A response that
// is not valid JSON becomes the architecture text with everything else
// defaulted; within valid JSON, missing or mistyped fields default to zero
// values. It never fails.
func DecodeNarrative(raw string) types.Narrative {
	cleaned := StripFences(raw)
	var n types.Narrative
	if err := json.Unmarshal([]byte(cleaned), &n); err != nil {
		// Modules may have non-string values; retry field by field before
		// falling back to wrapping the whole text.
		var loose map[string]json.RawMessage
		if err := json.Unmarshal([]byte(cleaned), &loose); err != nil {
			return types.Narrative{Architecture: raw, Modules: map[string]string{}}
		}
		n.Modules = decodeModules(loose["modules"])
		n.Architecture = decodeString(loose["architecture"])
		n.TechnicalDebt = decodeString(loose["technical_debt"])
		n.TechnicalDebtSuggestions = decodeString(loose["technical_debt_suggestions"])
		n.OnboardingGuide = decodeString(loose["onboarding_guide"])
		return n
	}
	if n.Modules == nil {
		n.Modules = map[string]string{}
	}
	return n
}

func decodeModules(raw json.RawMessage) map[string]string {
	out := map[string]string{}
	if len(raw) == 0 {
		return out
	}
	var typed map[string]string
	if err := json.Unmarshal(raw, &typed); err == nil {
		return typed
	}
	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return out
	}
	for k, v := range loose {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func decodeString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// DecodeDetection parses the AI-detection JSON, normalizing the percentage
// pair so human_percentage is always 100 - ai_percentage. Malformed input
// yields DefaultDetection.
func DecodeDetection(raw string) json.RawMessage {
	cleaned := StripFences(raw)
	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		return DefaultDetection("model returned malformed detection output")
	}
	if v, ok := obj["ai_percentage"].(float64); ok {
		obj["human_percentage"] = 100 - v
	}
	out, err := json.Marshal(obj)
	if err != nil {
		return DefaultDetection("model returned malformed detection output")
	}
	return out
}

// DefaultDetection is the degraded AI-detection payload used whenever the
// detection call fails or returns garbage. The request still succeeds.
func DefaultDetection(summary string) json.RawMessage {
	obj := map[string]any{
		"ai_percentage":    0,
		"human_percentage": 100,
		"confidence":       "low",
		"indicators_found": []any{},
		"summary":          summary,
		"details":          map[string]any{},
		"recommendation":   "",
	}
	out, _ := json.Marshal(obj)
	return out
}
