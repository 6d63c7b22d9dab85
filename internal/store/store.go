// Package store is the abstract record store behind the pipeline:
// reports and chat messages. The Redis implementation backs runtime;
// the in-memory implementation backs tests and single-node dev runs.
package store

import (
	"context"
	"errors"

	"github.com/harshitnub077/SynapticCare-sub000/internal/models"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ReportStore persists reports. Status transitions are monotonic:
// pending -> processing -> done|error; implementations reject anything
// else with ErrInvalidTransition and leave the record untouched.
type ReportStore interface {
	// SaveReport creates a report record at pending status.
	SaveReport(ctx context.Context, report *models.Report) error
	GetReport(ctx context.Context, id string) (*models.Report, error)
	// ListReports returns the user's reports, newest first.
	ListReports(ctx context.Context, userID string) ([]*models.Report, error)
	// MarkProcessing moves pending -> processing.
	MarkProcessing(ctx context.Context, id string) error
	// CompleteReport writes extracted text, parsed data, flags and the
	// done status as one update.
	CompleteReport(ctx context.Context, id, extractedText string, parsed []models.Measurement, flags *models.Flags) error
	// FailReport moves to error status; the message lands in the
	// extractedText field, the channel downstream consumers read.
	FailReport(ctx context.Context, id, message string) error
}

// ChatStore persists conversational turns, append-only.
type ChatStore interface {
	AppendMessage(ctx context.Context, msg *models.ChatMessage) error
	// RecentMessages returns up to limit messages, newest first.
	RecentMessages(ctx context.Context, userID string, limit int) ([]*models.ChatMessage, error)
}

func canTransition(from, to models.ReportStatus) bool {
	switch to {
	case models.StatusProcessing:
		return from == models.StatusPending
	case models.StatusDone, models.StatusError:
		return from == models.StatusProcessing
	default:
		return false
	}
}
