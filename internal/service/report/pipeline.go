package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harshitnub077/SynapticCare-sub000/internal/models"
	"github.com/harshitnub077/SynapticCare-sub000/internal/store"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/logger"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/queue"
)

// emptyTextMessage is persisted as the user-facing failure when a
// readable document yields no recognizable text.
const emptyTextMessage = "No text could be extracted from the document. Please ensure the image is clear and readable."

// HandleProcessTask runs one report's pipeline on the worker side:
// extraction, parsing, flagging, insight generation, in strict
// sequence. Any stage failure lands the report in terminal error
// status with a human-readable message; failures never escape to
// other reports or back to the upload request.
func (s *Service) HandleProcessTask(ctx context.Context, task *queue.ReportTask) error {
	log := s.logger.With(logger.String("reportId", task.ReportID))

	if err := s.store.MarkProcessing(ctx, task.ReportID); err != nil {
		if errors.Is(err, store.ErrInvalidTransition) {
			// duplicate delivery of an already-handled report
			log.Warn("skipping report not in pending status", logger.Error(err))
			return nil
		}
		return fmt.Errorf("failed to mark report processing: %w", err)
	}

	log.Info("pipeline stage started", logger.String("stage", "extract"))

	file, err := s.files.Get(ctx, task.FileRef)
	if err != nil {
		return s.fail(ctx, log, task.ReportID, fmt.Sprintf("Failed to read the stored file: %s", err))
	}
	defer file.Close()

	result, err := s.extractor.Extract(ctx, file, task.MediaType)
	if err != nil {
		return s.fail(ctx, log, task.ReportID, err.Error())
	}
	if strings.TrimSpace(result.Text) == "" {
		return s.fail(ctx, log, task.ReportID, emptyTextMessage)
	}

	log.Info("pipeline stage completed",
		logger.String("stage", "extract"),
		logger.Int("chars", len(result.Text)),
		logger.Int("pages", result.Meta.Pages),
	)
	log.Info("pipeline stage started", logger.String("stage", "parse"))

	measurements := s.parser.Parse(result.Text)

	log.Info("pipeline stage completed",
		logger.String("stage", "parse"),
		logger.Int("measurements", len(measurements)),
	)
	log.Info("pipeline stage started", logger.String("stage", "flag"))

	abnormalities := s.flagger.Flag(measurements, task.Gender)

	log.Info("pipeline stage completed",
		logger.String("stage", "flag"),
		logger.Int("abnormalities", len(abnormalities)),
	)
	log.Info("pipeline stage started", logger.String("stage", "insight"))

	// AnalyzeReport never fails; provider trouble degrades to a
	// simulated insight instead of failing the report.
	aiInsight := s.insights.AnalyzeReport(ctx, measurements, abnormalities, result.Text)

	log.Info("pipeline stage completed",
		logger.String("stage", "insight"),
		logger.String("urgency", string(aiInsight.Urgency)),
	)

	if measurements == nil {
		measurements = []models.Measurement{}
	}
	if abnormalities == nil {
		abnormalities = []models.Abnormality{}
	}
	flags := &models.Flags{
		Abnormalities: abnormalities,
		AIInsights:    &aiInsight,
	}

	if err := s.store.CompleteReport(ctx, task.ReportID, result.Text, measurements, flags); err != nil {
		return s.fail(ctx, log, task.ReportID, fmt.Sprintf("Failed to save processing result: %s", err))
	}

	log.Info("report processing completed",
		logger.Int("measurements", len(measurements)),
		logger.Int("abnormalities", len(abnormalities)),
	)

	return nil
}

// fail moves the report to terminal error status. The message is
// stored where extracted text would go, which is the error channel
// downstream consumers read. The task itself is considered handled.
func (s *Service) fail(ctx context.Context, log logger.Logger, reportID, message string) error {
	log.Error("report processing failed", logger.String("message", message))

	if err := s.store.FailReport(ctx, reportID, message); err != nil {
		log.Error("failed to persist error status", logger.Error(err))
		return fmt.Errorf("failed to persist error status: %w", err)
	}
	return nil
}
