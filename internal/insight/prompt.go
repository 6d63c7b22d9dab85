package insight

import (
	"fmt"
	"strings"

	"github.com/harshitnub077/SynapticCare-sub000/internal/models"
)

// Turn is one prior conversational exchange passed into chat mode.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ReportContext is the situational context attached to a chat turn
// when the user is asking about a specific report.
type ReportContext struct {
	Filename      string
	Measurements  []models.Measurement
	Abnormalities []models.Abnormality
}

// buildReportPrompt embeds the structured values, the abnormalities,
// and the full raw text into one analysis prompt asking for a
// fixed-shape JSON object.
func buildReportPrompt(measurements []models.Measurement, abnormalities []models.Abnormality, rawText string) string {
	var sb strings.Builder

	sb.WriteString("You are a medical assistant helping a patient understand a lab report.\n\n")

	if len(measurements) > 0 {
		sb.WriteString("Structured lab values extracted from the report:\n")
		for _, m := range measurements {
			fmt.Fprintf(&sb, "- %s: %g %s\n", m.Test, m.Value, m.Unit)
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("No structured lab values could be extracted from the report.\n\n")
	}

	if len(abnormalities) > 0 {
		sb.WriteString("Values flagged outside the normal range. Explain the clinical significance of each in plain language:\n")
		for _, a := range abnormalities {
			fmt.Fprintf(&sb, "- %s: %g %s (%s, normal range %s)\n", a.Test, a.Value, a.Unit, a.Status, a.NormalRange)
		}
		sb.WriteString("\n")
	}

	if strings.TrimSpace(rawText) != "" {
		sb.WriteString("Full extracted report text. Also extract patient metadata, findings and notes that go beyond the structured values above:\n---\n")
		sb.WriteString(rawText)
		sb.WriteString("\n---\n\n")
	} else {
		sb.WriteString("No text was extracted from the report document.\n\n")
	}

	sb.WriteString(`Respond with ONLY a JSON object in exactly this shape (no extra text):
{
  "summary": "plain-language summary of the report in at most 5 short sentences",
  "concerns": ["2 to 4 short plain-language concerns; if nothing is abnormal, a single item saying so"],
  "recommendations": ["2 to 3 short actionable recommendations"],
  "urgency": "low|medium|high"
}

Urgency policy: "low" means routine follow-up, "medium" means a prompt
non-emergency consultation is advisable, "high" means the values need
urgent medical attention.`)

	return sb.String()
}

// buildChatPrompt assembles the bounded conversation window, optional
// report context, and the new user message into one chat prompt.
func buildChatPrompt(message string, turns []Turn, reportCtx *ReportContext) string {
	var sb strings.Builder

	sb.WriteString("You are a friendly medical assistant chatbot for a patient portal. ")
	sb.WriteString("Answer briefly and in plain language. You must not diagnose; ")
	sb.WriteString("encourage the patient to consult their doctor for medical decisions.\n\n")

	if reportCtx != nil {
		fmt.Fprintf(&sb, "The patient is asking about their report %q.\n", reportCtx.Filename)
		if len(reportCtx.Measurements) > 0 {
			sb.WriteString("Values in that report:\n")
			for _, m := range reportCtx.Measurements {
				fmt.Fprintf(&sb, "- %s: %g %s\n", m.Test, m.Value, m.Unit)
			}
		}
		if len(reportCtx.Abnormalities) > 0 {
			sb.WriteString("Flagged values:\n")
			for _, a := range reportCtx.Abnormalities {
				fmt.Fprintf(&sb, "- %s: %g %s (%s, normal range %s)\n", a.Test, a.Value, a.Unit, a.Status, a.NormalRange)
			}
		}
		sb.WriteString("\n")
	}

	if len(turns) > 0 {
		sb.WriteString("Conversation so far:\n")
		for _, t := range turns {
			fmt.Fprintf(&sb, "%s: %s\n", t.Role, t.Content)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "user: %s\nassistant:", message)

	return sb.String()
}
