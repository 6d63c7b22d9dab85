// Package report owns the report lifecycle: intake, the per-report
// processing state machine, and read access for callers.
package report

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harshitnub077/SynapticCare-sub000/internal/extract"
	"github.com/harshitnub077/SynapticCare-sub000/internal/flagging"
	"github.com/harshitnub077/SynapticCare-sub000/internal/insight"
	"github.com/harshitnub077/SynapticCare-sub000/internal/labparse"
	"github.com/harshitnub077/SynapticCare-sub000/internal/models"
	"github.com/harshitnub077/SynapticCare-sub000/internal/store"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/logger"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/queue"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/storage"
)

const defaultMaxFileSize = 20 * 1024 * 1024

// Upload is one incoming report file.
type Upload struct {
	UserID   string
	Filename string
	Size     int64
	Gender   string
	Content  io.Reader
}

// Service coordinates report intake and processing.
type Service struct {
	store       store.ReportStore
	files       storage.Storage
	queue       queue.Queue
	extractor   *extract.Service
	parser      *labparse.Parser
	flagger     *flagging.Engine
	insights    *insight.Orchestrator
	logger      logger.Logger
	maxFileSize int64
}

// Deps wires the service's collaborators.
type Deps struct {
	Store       store.ReportStore
	Files       storage.Storage
	Queue       queue.Queue
	Extractor   *extract.Service
	Parser      *labparse.Parser
	Flagger     *flagging.Engine
	Insights    *insight.Orchestrator
	Logger      logger.Logger
	MaxFileSize int64
}

func NewService(deps Deps) *Service {
	maxFileSize := deps.MaxFileSize
	if maxFileSize <= 0 {
		maxFileSize = defaultMaxFileSize
	}

	return &Service{
		store:       deps.Store,
		files:       deps.Files,
		queue:       deps.Queue,
		extractor:   deps.Extractor,
		parser:      deps.Parser,
		flagger:     deps.Flagger,
		insights:    deps.Insights,
		logger:      deps.Logger,
		maxFileSize: maxFileSize,
	}
}

// Create validates and stores the upload, persists the report at
// pending status, and enqueues the pipeline run. It returns as soon as
// the task is enqueued; processing results arrive via report status.
func (s *Service) Create(ctx context.Context, upload *Upload) (*models.Report, error) {
	mediaType, err := s.validateUpload(upload)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	fileRef := id + strings.ToLower(filepath.Ext(upload.Filename))

	if _, err := s.files.Store(ctx, upload.Content, fileRef); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	report := &models.Report{
		ID:         id,
		UserID:     upload.UserID,
		Filename:   upload.Filename,
		MediaType:  mediaType,
		FileSize:   upload.Size,
		FileRef:    fileRef,
		Gender:     upload.Gender,
		UploadedAt: time.Now(),
		Status:     models.StatusPending,
	}

	if err := s.store.SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	task := &queue.ReportTask{
		ReportID:  id,
		FileRef:   fileRef,
		MediaType: mediaType,
		Gender:    upload.Gender,
	}
	if err := s.queue.EnqueueReport(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to enqueue report: %w", err)
	}

	s.logger.Info("report created",
		logger.String("reportId", id),
		logger.String("filename", upload.Filename),
		logger.Int64("size", upload.Size),
	)

	return report, nil
}

// Get returns one report, restricted to its owner.
func (s *Service) Get(ctx context.Context, userID, reportID string) (*models.Report, error) {
	report, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.UserID != userID {
		return nil, fmt.Errorf("report %s: %w", reportID, store.ErrNotFound)
	}
	return report, nil
}

// List returns the user's reports, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]*models.Report, error) {
	return s.store.ListReports(ctx, userID)
}

func (s *Service) validateUpload(upload *Upload) (string, error) {
	if upload.Size > s.maxFileSize {
		return "", fmt.Errorf("file size exceeds maximum limit of %d bytes", s.maxFileSize)
	}

	ext := filepath.Ext(upload.Filename)
	mediaType, ok := extract.MediaTypeForExt(ext)
	if !ok {
		return "", fmt.Errorf("%w: %s", extract.ErrUnsupportedMediaType, ext)
	}

	return mediaType, nil
}
