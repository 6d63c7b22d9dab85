package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/harshitnub077/SynapticCare-sub000/pkg/logger"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/queue"
)

// ProcessHandler runs one report pipeline. Pipeline failures are
// persisted as the report's terminal error status, not returned; a
// returned error means the task itself could not be handled.
type ProcessHandler interface {
	HandleProcessTask(ctx context.Context, task *queue.ReportTask) error
}

// ReportWorker consumes report tasks from the queue.
type ReportWorker struct {
	BaseWorker
	handler ProcessHandler
}

func NewReportWorker(cfg *Config, handler ProcessHandler, log logger.Logger) *ReportWorker {
	queues := cfg.Queues
	if len(queues) == 0 {
		queues = map[string]int{"default": 1}
	}

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB},
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues:      queues,
		},
	)

	w := &ReportWorker{
		BaseWorker: BaseWorker{
			server: server,
			mux:    asynq.NewServeMux(),
			logger: log,
		},
		handler: handler,
	}

	w.mux.HandleFunc(queue.TaskTypeReportProcess, w.handleReportProcess)
	return w
}

func (w *ReportWorker) handleReportProcess(ctx context.Context, t *asynq.Task) error {
	var task queue.ReportTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		w.logger.Error("failed to unmarshal report task",
			logger.Error(err),
			logger.String("payload", string(t.Payload())),
		)
		return fmt.Errorf("failed to unmarshal task: %w", err)
	}

	if task.ReportID == "" || task.FileRef == "" {
		return fmt.Errorf("invalid task data: missing required fields")
	}

	w.logger.Info("processing report task",
		logger.String("reportId", task.ReportID),
		logger.String("mediaType", task.MediaType),
	)

	return w.handler.HandleProcessTask(ctx, &task)
}

func (w *ReportWorker) Start(ctx context.Context) error {
	go func() {
		if err := w.server.Run(w.mux); err != nil {
			w.logger.Error("worker server stopped", logger.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	return nil
}
