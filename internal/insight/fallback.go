package insight

import (
	"strings"

	"github.com/harshitnub077/SynapticCare-sub000/internal/models"
)

// StandardDisclaimer is attached to every AI-generated insight.
const StandardDisclaimer = "This AI-generated summary is for informational purposes only and is not a substitute for professional medical advice, diagnosis, or treatment. Always discuss your results with a qualified healthcare provider."

// simulatedDisclaimer marks insights produced without a working AI
// provider.
const simulatedDisclaimer = "This is a simulated summary generated without an AI provider. It is for informational purposes only and is not medical advice. Always discuss your results with a qualified healthcare provider."

const degradedSummaryLimit = 500

// mockInsight is the deterministic insight returned when the provider
// is unavailable or a call to it fails. The pipeline always completes;
// AI failure degrades quality, never correctness.
func mockInsight(abnormalities []models.Abnormality) models.Insight {
	concerns := make([]string, 0, len(abnormalities))
	for _, a := range abnormalities {
		concerns = append(concerns, a.Message)
	}

	urgency := models.UrgencyLow
	summary := "Your report has been processed. The measured values were compared against standard reference ranges."
	if len(abnormalities) > 0 {
		urgency = models.UrgencyMedium
		summary = "Your report has been processed and some values fall outside the standard reference ranges. A doctor can tell you what this means for you."
	} else {
		concerns = []string{"No values outside the normal range were found."}
	}

	return models.Insight{
		Summary:  summary,
		Concerns: concerns,
		Recommendations: []string{
			"Share this report with your doctor at your next visit.",
			"Keep a copy of your reports to track values over time.",
		},
		Urgency:    urgency,
		Disclaimer: simulatedDisclaimer,
	}
}

// degradedInsight salvages an unusable provider response by carrying
// its leading text as the summary.
func degradedInsight(response string) models.Insight {
	summary := strings.TrimSpace(response)
	if len(summary) > degradedSummaryLimit {
		summary = summary[:degradedSummaryLimit]
	}

	return models.Insight{
		Summary:         summary,
		Concerns:        []string{},
		Recommendations: []string{"Discuss this report with your doctor for a full interpretation."},
		Urgency:         models.UrgencyMedium,
		Disclaimer:      StandardDisclaimer,
	}
}

// cannedChatReply routes a chat message to a fixed response by keyword
// when the provider cannot answer.
func cannedChatReply(message string) string {
	msg := strings.ToLower(message)

	switch {
	case containsAny(msg, "hello", "hi ", "hey"), msg == "hi":
		return "Hello! I can help you with questions about your uploaded reports and appointments. How can I help you today?"
	case containsAny(msg, "appointment", "book", "schedule", "doctor visit"):
		return "To book or manage an appointment, please use the appointments section of the app. Would you like help with anything else?"
	case containsAny(msg, "report", "result", "test", "lab"):
		return "You can upload a medical report and I will summarize it for you once processing finishes. Open a report to see its extracted values and flagged results."
	case containsAny(msg, "thank", "thanks"):
		return "You're welcome! Take care, and don't hesitate to ask if anything else comes up."
	default:
		return "I'm currently unable to reach the AI service, so I can only give basic answers. Please try again in a moment, or consult your doctor for medical questions."
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
