package insight

import (
	"errors"
	"strings"
	"testing"

	"github.com/harshitnub077/SynapticCare-sub000/internal/models"
)

func TestParseStructuredInsightCleanJSON(t *testing.T) {
	response := `{"summary":"All values look fine.","concerns":["none"],"recommendations":["routine checkup"],"urgency":"low"}`

	got, err := ParseStructuredInsight(response)
	if err != nil {
		t.Fatalf("ParseStructuredInsight: %v", err)
	}
	if got.Summary != "All values look fine." {
		t.Errorf("Summary = %q", got.Summary)
	}
	if got.Urgency != models.UrgencyLow {
		t.Errorf("Urgency = %q", got.Urgency)
	}
	if got.Disclaimer != StandardDisclaimer {
		t.Errorf("Disclaimer = %q", got.Disclaimer)
	}
}

func TestParseStructuredInsightCodeFenced(t *testing.T) {
	response := "```json\n{\"summary\":\"Fenced.\",\"concerns\":[],\"recommendations\":[],\"urgency\":\"high\"}\n```"

	got, err := ParseStructuredInsight(response)
	if err != nil {
		t.Fatalf("ParseStructuredInsight: %v", err)
	}
	if got.Summary != "Fenced." {
		t.Errorf("Summary = %q", got.Summary)
	}
	if got.Urgency != models.UrgencyHigh {
		t.Errorf("Urgency = %q", got.Urgency)
	}
}

func TestParseStructuredInsightSurroundingProse(t *testing.T) {
	response := "Sure, here is the analysis you asked for:\n" +
		`{"summary":"Wrapped in prose.","concerns":["a"],"recommendations":["b"],"urgency":"medium"}` +
		"\nLet me know if you need anything else."

	got, err := ParseStructuredInsight(response)
	if err != nil {
		t.Fatalf("ParseStructuredInsight: %v", err)
	}
	if got.Summary != "Wrapped in prose." {
		t.Errorf("Summary = %q", got.Summary)
	}
}

// Braces inside JSON strings must not unbalance the object scan.
func TestParseStructuredInsightBracesInStrings(t *testing.T) {
	response := `{"summary":"Value {in braces} and a quote \" here.","concerns":[],"recommendations":[],"urgency":"low"}`

	got, err := ParseStructuredInsight(response)
	if err != nil {
		t.Fatalf("ParseStructuredInsight: %v", err)
	}
	if !strings.Contains(got.Summary, "{in braces}") {
		t.Errorf("Summary = %q", got.Summary)
	}
}

func TestParseStructuredInsightUrgencyNormalization(t *testing.T) {
	tests := []struct {
		raw  string
		want models.Urgency
	}{
		{"low", models.UrgencyLow},
		{"LOW", models.UrgencyLow},
		{" high ", models.UrgencyHigh},
		{"medium", models.UrgencyMedium},
		{"urgent", models.UrgencyMedium},
		{"", models.UrgencyMedium},
	}
	for _, tt := range tests {
		response := `{"summary":"s","urgency":"` + tt.raw + `"}`
		got, err := ParseStructuredInsight(response)
		if err != nil {
			t.Fatalf("ParseStructuredInsight(%q): %v", tt.raw, err)
		}
		if got.Urgency != tt.want {
			t.Errorf("urgency %q normalized to %q, want %q", tt.raw, got.Urgency, tt.want)
		}
	}
}

func TestParseStructuredInsightRejectsUnusableResponses(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"plain prose", "The patient appears healthy overall."},
		{"empty", ""},
		{"unterminated object", `{"summary":"never closed"`},
		{"object without summary", `{"urgency":"low"}`},
		{"invalid json", `{summary: not json}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseStructuredInsight(tt.response); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	if _, err := ParseStructuredInsight("no object here"); !errors.Is(err, ErrNoInsightPayload) {
		t.Errorf("expected ErrNoInsightPayload, got %v", err)
	}
}
