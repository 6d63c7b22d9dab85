package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/harshitnub077/SynapticCare-sub000/internal/models"
)

// MemoryStore is a mutex-guarded in-memory implementation of both
// ReportStore and ChatStore.
type MemoryStore struct {
	mu       sync.RWMutex
	reports  map[string]*models.Report
	messages map[string][]*models.ChatMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reports:  make(map[string]*models.Report),
		messages: make(map[string][]*models.ChatMessage),
	}
}

func (s *MemoryStore) SaveReport(ctx context.Context, report *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reports[report.ID]; exists {
		return fmt.Errorf("report %s already exists", report.ID)
	}

	clone := *report
	s.reports[report.ID] = &clone
	return nil
}

func (s *MemoryStore) GetReport(ctx context.Context, id string) (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
	}

	clone := *report
	return &clone, nil
}

func (s *MemoryStore) ListReports(ctx context.Context, userID string) ([]*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Report
	for _, r := range s.reports {
		if r.UserID == userID {
			clone := *r
			result = append(result, &clone)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].UploadedAt.After(result[j].UploadedAt)
	})

	return result, nil
}

func (s *MemoryStore) MarkProcessing(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[id]
	if !ok {
		return fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	if !canTransition(report.Status, models.StatusProcessing) {
		return fmt.Errorf("%s -> processing: %w", report.Status, ErrInvalidTransition)
	}

	report.Status = models.StatusProcessing
	return nil
}

func (s *MemoryStore) CompleteReport(ctx context.Context, id, extractedText string, parsed []models.Measurement, flags *models.Flags) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[id]
	if !ok {
		return fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	if !canTransition(report.Status, models.StatusDone) {
		return fmt.Errorf("%s -> done: %w", report.Status, ErrInvalidTransition)
	}

	report.Status = models.StatusDone
	report.ExtractedText = extractedText
	report.ParsedData = parsed
	report.Flags = flags
	return nil
}

func (s *MemoryStore) FailReport(ctx context.Context, id, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[id]
	if !ok {
		return fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	if !canTransition(report.Status, models.StatusError) {
		return fmt.Errorf("%s -> error: %w", report.Status, ErrInvalidTransition)
	}

	report.Status = models.StatusError
	report.ExtractedText = message
	report.ProcessingError = message
	report.ParsedData = nil
	report.Flags = nil
	return nil
}

func (s *MemoryStore) AppendMessage(ctx context.Context, msg *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *msg
	// prepend: newest first, matching the Redis list layout
	s.messages[msg.UserID] = append([]*models.ChatMessage{&clone}, s.messages[msg.UserID]...)
	return nil
}

func (s *MemoryStore) RecentMessages(ctx context.Context, userID string, limit int) ([]*models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[userID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}

	result := make([]*models.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		clone := *m
		result = append(result, &clone)
	}
	return result, nil
}
