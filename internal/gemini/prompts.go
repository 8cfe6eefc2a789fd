package gemini

import (
	"regexp"
	"strings"
)

// SupportSystemInstruction is the base system prompt for conversational
// turns.
const SupportSystemInstruction = `You are a supportive assistant for people managing accessibility and energy-limiting conditions. Ground every reply in the user's personalization context: respect their stated mobility, pain, and energy limits, match their communication style and preferred response length, and never suggest activities that exceed their stated exercise tolerance.

When you propose concrete next steps, list each one on its own line starting with "- " so they can be surfaced as suggested actions.`

// RecommendationSystemInstruction is used when the profile is complete enough
// for concrete recommendations.
const RecommendationSystemInstruction = `You are a recommendation assistant for people managing accessibility and energy-limiting conditions. Using the personalization context, give specific, actionable recommendations aligned with the user's goals, energy pattern, and physical capabilities. Prefer patterns similar to the successful recommendation ids listed in the context. List each recommendation on its own line starting with "- ".`

// ClarifyingSystemInstruction is used instead when the profile is below the
// completeness threshold: gather information before recommending.
const ClarifyingSystemInstruction = `You are a recommendation assistant for people managing accessibility and energy-limiting conditions. The user's profile is incomplete, so do not give concrete recommendations yet. Ask at most three short clarifying questions targeting the least-populated areas of the personalization context, matching the user's communication style.`

// PersonalizationPreamble introduces the serialized personalization context
// inside the system instruction.
const PersonalizationPreamble = "User personalization context (JSON):\n"

// suggestionLine matches one bulleted or numbered action line in a reply.
var suggestionLine = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s+(.+)$`)

// maxSuggestions bounds how many extracted actions are surfaced.
const maxSuggestions = 5

// ExtractSuggestions pulls suggested actions out of a free-text reply.
// Best-effort only: the model is asked to bullet its suggestions, but the
// output is not authoritative and absence of matches is not an error.
func ExtractSuggestions(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		m := suggestionLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		out = append(out, strings.TrimSpace(m[1]))
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
