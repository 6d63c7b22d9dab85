// Package chat handles conversational turns: context assembly from
// recent history, optional report grounding, and reply generation.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harshitnub077/SynapticCare-sub000/internal/insight"
	"github.com/harshitnub077/SynapticCare-sub000/internal/models"
	"github.com/harshitnub077/SynapticCare-sub000/internal/store"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/logger"
)

const (
	defaultContextWindow = 10

	// historyLimit caps how far back a history read goes; matches the
	// per-user retention in the Redis store.
	historyLimit = 200
)

// Turn is one completed exchange: the stored user message and the
// stored assistant reply.
type Turn struct {
	UserMessage *models.ChatMessage `json:"userMessage"`
	AIMessage   *models.ChatMessage `json:"aiMessage"`
}

// Service generates chat replies grounded in the user's recent
// conversation and, optionally, one of their reports.
type Service struct {
	messages      store.ChatStore
	reports       store.ReportStore
	insights      *insight.Orchestrator
	logger        logger.Logger
	contextWindow int
}

func NewService(messages store.ChatStore, reports store.ReportStore, insights *insight.Orchestrator, log logger.Logger, contextWindow int) *Service {
	if contextWindow <= 0 {
		contextWindow = defaultContextWindow
	}
	return &Service{
		messages:      messages,
		reports:       reports,
		insights:      insights,
		logger:        log,
		contextWindow: contextWindow,
	}
}

// Send stores the user message, generates a reply from the bounded
// context window, stores the reply, and returns the completed turn.
func (s *Service) Send(ctx context.Context, userID, message, reportID string) (*Turn, error) {
	turns, reportCtx, err := s.buildContext(ctx, userID, reportID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userMsg := &models.ChatMessage{
		ID:        uuid.New().String(),
		UserID:    userID,
		Role:      models.RoleUser,
		Message:   message,
		ReportID:  reportID,
		CreatedAt: now,
	}
	if err := s.messages.AppendMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	reply := s.insights.Chat(ctx, message, turns, reportCtx)

	aiMsg := &models.ChatMessage{
		ID:        uuid.New().String(),
		UserID:    userID,
		Role:      models.RoleAssistant,
		Message:   reply,
		ReportID:  reportID,
		CreatedAt: now.Add(time.Millisecond),
	}
	if err := s.messages.AppendMessage(ctx, aiMsg); err != nil {
		return nil, fmt.Errorf("failed to save assistant message: %w", err)
	}

	s.logger.Info("chat turn completed",
		logger.String("userId", userID),
		logger.Int("contextTurns", len(turns)),
		logger.Bool("reportContext", reportCtx != nil),
	)

	return &Turn{UserMessage: userMsg, AIMessage: aiMsg}, nil
}

// History returns the user's messages in ascending createdAt order.
func (s *Service) History(ctx context.Context, userID string) ([]*models.ChatMessage, error) {
	recent, err := s.messages.RecentMessages(ctx, userID, historyLimit)
	if err != nil {
		return nil, err
	}
	return reverse(recent), nil
}

// buildContext assembles the prior-turn window, oldest first, plus the
// report context when the report exists, belongs to the user, and has
// finished processing. A missing or foreign report is treated as no
// context rather than an error.
func (s *Service) buildContext(ctx context.Context, userID, reportID string) ([]insight.Turn, *insight.ReportContext, error) {
	recent, err := s.messages.RecentMessages(ctx, userID, s.contextWindow)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	turns := make([]insight.Turn, 0, len(recent))
	for _, msg := range reverse(recent) {
		turns = append(turns, insight.Turn{
			Role:    string(msg.Role),
			Content: msg.Message,
		})
	}

	if reportID == "" {
		return turns, nil, nil
	}

	report, err := s.reports.GetReport(ctx, reportID)
	if err != nil {
		s.logger.Warn("chat report context unavailable",
			logger.String("reportId", reportID),
			logger.Error(err),
		)
		return turns, nil, nil
	}
	if report.UserID != userID || report.Status != models.StatusDone {
		return turns, nil, nil
	}

	reportCtx := &insight.ReportContext{
		Filename:     report.Filename,
		Measurements: report.ParsedData,
	}
	if report.Flags != nil {
		reportCtx.Abnormalities = report.Flags.Abnormalities
	}

	return turns, reportCtx, nil
}

func reverse(msgs []*models.ChatMessage) []*models.ChatMessage {
	out := make([]*models.ChatMessage, len(msgs))
	for i, msg := range msgs {
		out[len(msgs)-1-i] = msg
	}
	return out
}
