// Package queue enqueues report-processing tasks. Triggering is
// fire-and-forget: the caller gets an acknowledgment immediately and
// never a pipeline result.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TaskTypeReportProcess identifies the report pipeline task.
const TaskTypeReportProcess = "report:process"

const taskTimeout = 10 * time.Minute

// ReportTask is the payload handed from the API process to the worker.
type ReportTask struct {
	ReportID  string `json:"reportId"`
	FileRef   string `json:"fileRef"`
	MediaType string `json:"mediaType"`
	Gender    string `json:"gender,omitempty"`
}

// ErrDuplicateTask means a task for the same report id is already
// pending or active.
var ErrDuplicateTask = errors.New("task already enqueued for this report")

// Queue is the enqueue side of the task pipeline.
type Queue interface {
	EnqueueReport(ctx context.Context, task *ReportTask) error
	Close() error
}

// AsynqQueue enqueues into asynq over Redis.
type AsynqQueue struct {
	client *asynq.Client
}

func NewAsynqQueue(redisAddr string, redisDB int) *AsynqQueue {
	return &AsynqQueue{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr: redisAddr,
			DB:   redisDB,
		}),
	}
}

// EnqueueReport enqueues one pipeline run. The asynq task id is the
// report id, so a duplicate trigger for the same report is rejected
// while the first run is pending or active. A failed report is never
// retried automatically; it stays in error status until re-uploaded
// as a new report.
func (q *AsynqQueue) EnqueueReport(ctx context.Context, task *ReportTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	opts := []asynq.Option{
		asynq.TaskID(task.ReportID),
		asynq.MaxRetry(0),
		asynq.Timeout(taskTimeout),
		asynq.Queue("default"),
	}

	t := asynq.NewTask(TaskTypeReportProcess, payload, opts...)
	if _, err := q.client.EnqueueContext(ctx, t); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return fmt.Errorf("%w: %s", ErrDuplicateTask, task.ReportID)
		}
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	return nil
}

func (q *AsynqQueue) Close() error {
	return q.client.Close()
}
