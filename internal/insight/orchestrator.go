// Package insight builds prompts from extracted report data, calls the
// language-generation provider, and defensively parses its output into
// fixed-shape insights. Provider failure never escapes this package:
// every path returns a usable insight.
package insight

import (
	"context"
	"time"

	"github.com/harshitnub077/SynapticCare-sub000/internal/models"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/logger"
)

const defaultCallTimeout = 45 * time.Second

// Orchestrator drives report analysis and chat generation. A nil
// provider means mock mode: deterministic fallback insights without
// network calls.
type Orchestrator struct {
	provider Provider
	timeout  time.Duration
	logger   logger.Logger
}

// OrchestratorOption customizes the orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithCallTimeout bounds each provider call.
func WithCallTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// NewOrchestrator wires a provider (may be nil) and a logger.
func NewOrchestrator(provider Provider, log logger.Logger, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		provider: provider,
		timeout:  defaultCallTimeout,
		logger:   log,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// AnalyzeReport produces the patient-facing insight for one report.
// It never returns an error: provider unavailability or an unusable
// response degrades to the mock or salvage insight.
func (o *Orchestrator) AnalyzeReport(ctx context.Context, measurements []models.Measurement, abnormalities []models.Abnormality, rawText string) models.Insight {
	if o.provider == nil {
		o.logger.Info("ai provider not configured, returning simulated insight")
		return mockInsight(abnormalities)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	prompt := buildReportPrompt(measurements, abnormalities, rawText)
	response, err := o.provider.Generate(callCtx, prompt)
	if err != nil {
		o.logger.Warn("ai provider call failed, returning simulated insight",
			logger.Error(err),
		)
		return mockInsight(abnormalities)
	}

	parsed, err := ParseStructuredInsight(response)
	if err != nil {
		o.logger.Warn("unusable ai response, returning degraded insight",
			logger.Error(err),
			logger.Int("responseChars", len(response)),
		)
		return degradedInsight(response)
	}

	return parsed
}

// Chat answers one conversational turn given the bounded prior-turn
// window and optional report context. Provider failure falls back to
// canned keyword replies rather than a hard error.
func (o *Orchestrator) Chat(ctx context.Context, message string, turns []Turn, reportCtx *ReportContext) string {
	if o.provider == nil {
		return cannedChatReply(message)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	prompt := buildChatPrompt(message, turns, reportCtx)
	response, err := o.provider.Generate(callCtx, prompt)
	if err != nil {
		o.logger.Warn("ai provider chat call failed, using canned reply",
			logger.Error(err),
		)
		return cannedChatReply(message)
	}

	return response
}
