package insight

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/harshitnub077/SynapticCare-sub000/internal/models"
)

// ErrNoInsightPayload means the response text held no parseable object
// literal.
var ErrNoInsightPayload = errors.New("no structured insight payload in response")

// ParseStructuredInsight recovers a fixed-shape insight from free-form
// model output. It strips code-fence wrapping, locates the first
// balanced object literal, parses it, and normalizes the urgency and
// disclaimer invariants. Model output is untrusted text; anything that
// does not yield a valid object is an error for the caller's fallback
// branch.
func ParseStructuredInsight(response string) (models.Insight, error) {
	payload, ok := extractObjectLiteral(stripCodeFences(response))
	if !ok {
		return models.Insight{}, ErrNoInsightPayload
	}

	var raw struct {
		Summary         string   `json:"summary"`
		Concerns        []string `json:"concerns"`
		Recommendations []string `json:"recommendations"`
		Urgency         string   `json:"urgency"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return models.Insight{}, fmt.Errorf("failed to parse insight payload: %w", err)
	}

	if strings.TrimSpace(raw.Summary) == "" {
		return models.Insight{}, fmt.Errorf("insight payload has no summary")
	}

	return models.Insight{
		Summary:         strings.TrimSpace(raw.Summary),
		Concerns:        raw.Concerns,
		Recommendations: raw.Recommendations,
		Urgency:         normalizeUrgency(raw.Urgency),
		Disclaimer:      StandardDisclaimer,
	}, nil
}

// normalizeUrgency clamps free-text urgency to the three allowed
// values; anything unrecognized becomes medium.
func normalizeUrgency(s string) models.Urgency {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return models.UrgencyLow
	case "high":
		return models.UrgencyHigh
	default:
		return models.UrgencyMedium
	}
}

// stripCodeFences unwraps ```json ... ``` style fencing if present.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		// drop the language tag line, e.g. "json"
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// extractObjectLiteral returns the first balanced top-level object
// literal in s. The scan is string- and escape-aware so braces inside
// JSON strings do not unbalance it.
func extractObjectLiteral(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
