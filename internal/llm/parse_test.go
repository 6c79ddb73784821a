package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	require.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, StripFences("```\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, StripFences(`{"a":1}`))
}

func TestDecodeNarrative_WellFormed(t *testing.T) {
	raw := `{"modules":{"api":"handlers"},"architecture":"arch","technical_debt":"debt","technical_debt_suggestions":"fix","onboarding_guide":"guide"}`
	n := DecodeNarrative(raw)
	require.Equal(t, "handlers", n.Modules["api"])
	require.Equal(t, "arch", n.Architecture)
	require.Equal(t, "debt", n.TechnicalDebt)
	require.Equal(t, "fix", n.TechnicalDebtSuggestions)
	require.Equal(t, "guide", n.OnboardingGuide)
}

func TestDecodeNarrative_Fenced(t *testing.T) {
	n := DecodeNarrative("```json\n{\"architecture\":\"arch\"}\n```")
	require.Equal(t, "arch", n.Architecture)
}

func TestDecodeNarrative_NotJSON(t *testing.T) {
	n := DecodeNarrative("The repository is a web service.")
	require.Equal(t, "The repository is a web service.", n.Architecture)
	require.NotNil(t, n.Modules)
	require.Empty(t, n.Modules)
}

func TestDecodeNarrative_MistypedModules(t *testing.T) {
	raw := `{"modules":{"api":{"nested":"object"},"core":"fine"},"architecture":"arch"}`
	n := DecodeNarrative(raw)
	require.Equal(t, "fine", n.Modules["core"])
	require.NotContains(t, n.Modules, "api")
	require.Equal(t, "arch", n.Architecture)
}

func TestDecodeNarrative_MissingFieldsDefault(t *testing.T) {
	n := DecodeNarrative(`{"architecture":"only arch"}`)
	require.Equal(t, "only arch", n.Architecture)
	require.Empty(t, n.TechnicalDebt)
	require.Empty(t, n.OnboardingGuide)
}

func TestDecodeDetection_NormalizesPercentages(t *testing.T) {
	raw := `{"ai_percentage": 30, "human_percentage": 90, "confidence": "high"}`
	out := DecodeDetection(raw)
	var obj map[string]any
	require.NoError(t, json.Unmarshal(out, &obj))
	require.Equal(t, float64(30), obj["ai_percentage"])
	require.Equal(t, float64(70), obj["human_percentage"])
}

func TestDecodeDetection_MalformedFallsBack(t *testing.T) {
	out := DecodeDetection("not json at all")
	var obj map[string]any
	require.NoError(t, json.Unmarshal(out, &obj))
	require.Equal(t, float64(0), obj["ai_percentage"])
	require.Equal(t, float64(100), obj["human_percentage"])
	require.Equal(t, "low", obj["confidence"])
}
