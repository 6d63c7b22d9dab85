package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/harshitnub077/SynapticCare-sub000/internal/models"
)

const chatHistoryCap = 200

// reportRecord is the persisted envelope. It carries the processing
// error separately from the report's outward JSON shape.
type reportRecord struct {
	models.Report
	ProcessingError string `json:"processingError,omitempty"`
}

// RedisStore implements ReportStore and ChatStore on top of Redis.
// Reports are JSON records keyed by id with a per-user index list;
// chat history is one list per user, newest first.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string, db int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		}),
	}
}

// NewRedisStoreFromClient wraps an existing client, e.g. in tests.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func reportKey(id string) string { return fmt.Sprintf("report:%s", id) }

func reportIndexKey(uid string) string { return fmt.Sprintf("user_reports:%s", uid) }

func chatKey(uid string) string { return fmt.Sprintf("chat:%s", uid) }

func (s *RedisStore) SaveReport(ctx context.Context, report *models.Report) error {
	record := reportRecord{Report: *report, ProcessingError: report.ProcessingError}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	ok, err := s.client.SetNX(ctx, reportKey(report.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	if !ok {
		return fmt.Errorf("report %s already exists", report.ID)
	}

	if err := s.client.LPush(ctx, reportIndexKey(report.UserID), report.ID).Err(); err != nil {
		return fmt.Errorf("failed to index report: %w", err)
	}

	return nil
}

func (s *RedisStore) GetReport(ctx context.Context, id string) (*models.Report, error) {
	record, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	report := record.Report
	report.ProcessingError = record.ProcessingError
	return &report, nil
}

func (s *RedisStore) ListReports(ctx context.Context, userID string) ([]*models.Report, error) {
	ids, err := s.client.LRange(ctx, reportIndexKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]*models.Report, 0, len(ids))
	for _, id := range ids {
		report, err := s.GetReport(ctx, id)
		if err != nil {
			// index can momentarily point at a record being written
			continue
		}
		reports = append(reports, report)
	}

	return reports, nil
}

func (s *RedisStore) MarkProcessing(ctx context.Context, id string) error {
	return s.update(ctx, id, models.StatusProcessing, func(record *reportRecord) {
		record.Status = models.StatusProcessing
	})
}

func (s *RedisStore) CompleteReport(ctx context.Context, id, extractedText string, parsed []models.Measurement, flags *models.Flags) error {
	return s.update(ctx, id, models.StatusDone, func(record *reportRecord) {
		record.Status = models.StatusDone
		record.ExtractedText = extractedText
		record.ParsedData = parsed
		record.Flags = flags
	})
}

func (s *RedisStore) FailReport(ctx context.Context, id, message string) error {
	return s.update(ctx, id, models.StatusError, func(record *reportRecord) {
		record.Status = models.StatusError
		record.ExtractedText = message
		record.ProcessingError = message
		record.ParsedData = nil
		record.Flags = nil
	})
}

func (s *RedisStore) getRecord(ctx context.Context, id string) (*reportRecord, error) {
	data, err := s.client.Get(ctx, reportKey(id)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var record reportRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &record, nil
}

func (s *RedisStore) update(ctx context.Context, id string, to models.ReportStatus, mutate func(*reportRecord)) error {
	record, err := s.getRecord(ctx, id)
	if err != nil {
		return err
	}
	if !canTransition(record.Status, to) {
		return fmt.Errorf("%s -> %s: %w", record.Status, to, ErrInvalidTransition)
	}

	mutate(record)

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := s.client.Set(ctx, reportKey(id), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}
	return nil
}

func (s *RedisStore) AppendMessage(ctx context.Context, msg *models.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal chat message: %w", err)
	}

	key := chatKey(msg.UserID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, chatHistoryCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	return nil
}

func (s *RedisStore) RecentMessages(ctx context.Context, userID string, limit int) ([]*models.ChatMessage, error) {
	if limit <= 0 {
		limit = chatHistoryCap
	}

	items, err := s.client.LRange(ctx, chatKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read chat history: %w", err)
	}

	msgs := make([]*models.ChatMessage, 0, len(items))
	for _, item := range items {
		var msg models.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chat message: %w", err)
		}
		msgs = append(msgs, &msg)
	}
	return msgs, nil
}
