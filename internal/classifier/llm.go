package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mikey/phish-detector/internal/utils"
)

// LLMPrompt asks a language model to score a rendered feature listing
const LLMPrompt = `You are a phishing detection system. The following binary features were extracted from an email.
A value of 1 means the feature is present, 0 means it is absent.

Features:
%s

Respond with a JSON object containing:
- phishing_probability: number between 0 and 1 (higher means more likely to be phishing)
- explanation: string (brief reason for the score)

Respond only with the JSON object and nothing else.`

// LLMVerdict is the structured reply expected from a language model
type LLMVerdict struct {
	PhishingProbability float64 `json:"phishing_probability"`
	Explanation         string  `json:"explanation"`
}

// Probabilities returns the verdict as [benign, phishing]
func (v *LLMVerdict) Probabilities() []float64 {
	p := clamp(v.PhishingProbability)
	return []float64{1 - p, p}
}

// FeatureListing renders one "name: value" line per feature. Features past
// the end of names are numbered.
func FeatureListing(names []string, vector []float64) string {
	var sb strings.Builder
	for i, v := range vector {
		name := fmt.Sprintf("feature_%d", i)
		if i < len(names) {
			name = names[i]
		}
		fmt.Fprintf(&sb, "- %s: %g\n", name, v)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ParseLLMVerdict decodes a model reply, tolerating text around the JSON object
func ParseLLMVerdict(text string) (*LLMVerdict, error) {
	var verdict LLMVerdict
	if err := json.Unmarshal([]byte(text), &verdict); err != nil {
		object, ok := utils.ExtractJSONObject(text)
		if !ok {
			return nil, fmt.Errorf("failed to extract JSON from LLM response: %w", err)
		}
		if err := json.Unmarshal([]byte(object), &verdict); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
		}
	}
	if math.IsNaN(verdict.PhishingProbability) {
		return nil, fmt.Errorf("LLM returned an invalid probability")
	}
	return &verdict, nil
}
