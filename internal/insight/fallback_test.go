package insight

import (
	"strings"
	"testing"

	"github.com/harshitnub077/SynapticCare-sub000/internal/models"
)

func TestMockInsightWithAbnormalities(t *testing.T) {
	abnormalities := []models.Abnormality{
		{Test: "Hemoglobin", Message: "Hemoglobin is below normal range"},
		{Test: "Glucose", Message: "Glucose is above normal range"},
	}

	got := mockInsight(abnormalities)
	if got.Urgency != models.UrgencyMedium {
		t.Errorf("Urgency = %q, want medium", got.Urgency)
	}
	if len(got.Concerns) != 2 {
		t.Fatalf("Concerns = %v", got.Concerns)
	}
	if got.Concerns[0] != "Hemoglobin is below normal range" {
		t.Errorf("Concerns[0] = %q", got.Concerns[0])
	}
	if got.Disclaimer != simulatedDisclaimer {
		t.Errorf("Disclaimer = %q", got.Disclaimer)
	}
	if len(got.Recommendations) == 0 {
		t.Error("expected recommendations")
	}
}

func TestMockInsightWithoutAbnormalities(t *testing.T) {
	got := mockInsight(nil)
	if got.Urgency != models.UrgencyLow {
		t.Errorf("Urgency = %q, want low", got.Urgency)
	}
	if len(got.Concerns) != 1 || !strings.Contains(got.Concerns[0], "No values outside") {
		t.Errorf("Concerns = %v", got.Concerns)
	}
	if !strings.Contains(got.Disclaimer, "simulated") {
		t.Errorf("Disclaimer = %q", got.Disclaimer)
	}
}

func TestDegradedInsightTruncatesLongResponses(t *testing.T) {
	long := strings.Repeat("x", degradedSummaryLimit+200)

	got := degradedInsight("  " + long + "  ")
	if len(got.Summary) != degradedSummaryLimit {
		t.Errorf("Summary length = %d, want %d", len(got.Summary), degradedSummaryLimit)
	}
	if got.Urgency != models.UrgencyMedium {
		t.Errorf("Urgency = %q, want medium", got.Urgency)
	}
	if got.Disclaimer != StandardDisclaimer {
		t.Errorf("Disclaimer = %q", got.Disclaimer)
	}
}

func TestDegradedInsightKeepsShortResponses(t *testing.T) {
	got := degradedInsight("The values look mostly fine.")
	if got.Summary != "The values look mostly fine." {
		t.Errorf("Summary = %q", got.Summary)
	}
}

func TestCannedChatReplyKeywordRouting(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"hello there", "Hello!"},
		{"Hi", "Hello!"},
		{"I want to book an appointment", "appointment"},
		{"can you explain my lab report", "upload a medical report"},
		{"thanks a lot", "You're welcome"},
		{"what is the meaning of life", "basic answers"},
	}
	for _, tt := range tests {
		got := cannedChatReply(tt.message)
		if !strings.Contains(got, tt.want) {
			t.Errorf("cannedChatReply(%q) = %q, want substring %q", tt.message, got, tt.want)
		}
	}
}
