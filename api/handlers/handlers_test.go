package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/harshitnub077/SynapticCare-sub000/api/handlers"
	"github.com/harshitnub077/SynapticCare-sub000/api/routes"
	"github.com/harshitnub077/SynapticCare-sub000/internal/extract"
	"github.com/harshitnub077/SynapticCare-sub000/internal/flagging"
	"github.com/harshitnub077/SynapticCare-sub000/internal/insight"
	"github.com/harshitnub077/SynapticCare-sub000/internal/labparse"
	"github.com/harshitnub077/SynapticCare-sub000/internal/registry"
	"github.com/harshitnub077/SynapticCare-sub000/internal/service/chat"
	"github.com/harshitnub077/SynapticCare-sub000/internal/service/report"
	"github.com/harshitnub077/SynapticCare-sub000/internal/store"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/logger"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/queue"
)

const testThresholds = `
Hemoglobin:
  aliases: [hemoglobin, hgb]
  unit: g/dL
  normalRange:
    male: {min: 13.8, max: 17.2}
    female: {min: 12.1, max: 15.1}
`

type memFiles struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (f *memFiles) Store(ctx context.Context, reader io.Reader, key string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[key] = data
	return key, nil
}

func (f *memFiles) Get(ctx context.Context, ref string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[ref]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", ref)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *memFiles) Delete(ctx context.Context, ref string) error { return nil }

type stubQueue struct {
	mu    sync.Mutex
	tasks []*queue.ReportTask
}

func (q *stubQueue) EnqueueReport(ctx context.Context, task *queue.ReportTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *stubQueue) Close() error { return nil }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg, err := registry.Parse([]byte(testThresholds))
	if err != nil {
		t.Fatalf("registry.Parse: %v", err)
	}
	log := logger.NewTestLogger()

	parser, err := labparse.NewParser(reg, log)
	if err != nil {
		t.Fatalf("labparse.NewParser: %v", err)
	}

	memStore := store.NewMemoryStore()
	orchestrator := insight.NewOrchestrator(nil, log)

	reportService := report.NewService(report.Deps{
		Store:     memStore,
		Files:     &memFiles{files: make(map[string][]byte)},
		Queue:     &stubQueue{},
		Extractor: extract.NewService(log),
		Parser:    parser,
		Flagger:   flagging.NewEngine(reg, log),
		Insights:  orchestrator,
		Logger:    log,
	})
	chatService := chat.NewService(memStore, memStore, orchestrator, log, 10)

	r := gin.New()
	routes.SetupRoutes(r, handlers.NewHandlers(reportService, chatService, log))
	return r
}

func multipartUpload(t *testing.T, filename string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("file bytes")); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return body, writer.FormDataContentType()
}

func TestUploadReturnsAcceptedPendingReport(t *testing.T) {
	r := newTestRouter(t)

	body, contentType := multipartUpload(t, "cbc.pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var got handlers.ReportResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Status != "pending" {
		t.Errorf("Status = %q, want pending", got.Status)
	}
	if got.ID == "" || got.Filename != "cbc.pdf" {
		t.Errorf("response = %+v", got)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	r := newTestRouter(t)

	body, contentType := multipartUpload(t, "notes.docx")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestGetReportScopedToUser(t *testing.T) {
	r := newTestRouter(t)

	body, contentType := multipartUpload(t, "cbc.pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-ID", "alice")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusAccepted {
		t.Fatalf("upload status = %d", w.Code)
	}

	var created handlers.ReportResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	// owner sees the report
	req = httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+created.ID, nil)
	req.Header.Set("X-User-ID", "alice")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("owner get status = %d", w.Code)
	}

	// everyone else gets 404
	req = httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+created.ID, nil)
	req.Header.Set("X-User-ID", "bob")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("foreign get status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/reports/unknown-id", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing get status = %d", w.Code)
	}
}

func TestListReports(t *testing.T) {
	r := newTestRouter(t)

	for i := 0; i < 2; i++ {
		body, contentType := multipartUpload(t, fmt.Sprintf("cbc-%d.pdf", i))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusAccepted {
			t.Fatalf("upload %d status = %d", i, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}

	var got struct {
		Reports []handlers.ReportResponse `json:"reports"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Reports) != 2 {
		t.Errorf("reports = %d, want 2", len(got.Reports))
	}
}

func TestChatTurnAndHistory(t *testing.T) {
	r := newTestRouter(t)

	payload := `{"message":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("chat status = %d, body = %s", w.Code, w.Body.String())
	}

	var turn struct {
		UserMessage struct {
			Role    string `json:"role"`
			Message string `json:"message"`
		} `json:"userMessage"`
		AIMessage struct {
			Role    string `json:"role"`
			Message string `json:"message"`
		} `json:"aiMessage"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &turn); err != nil {
		t.Fatal(err)
	}
	if turn.UserMessage.Role != "user" || turn.UserMessage.Message != "hello" {
		t.Errorf("userMessage = %+v", turn.UserMessage)
	}
	if turn.AIMessage.Role != "assistant" || turn.AIMessage.Message == "" {
		t.Errorf("aiMessage = %+v", turn.AIMessage)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/chat/history", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("history status = %d", w.Code)
	}

	var history struct {
		Messages []json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatal(err)
	}
	if len(history.Messages) != 2 {
		t.Errorf("history messages = %d, want 2", len(history.Messages))
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	r := newTestRouter(t)

	for _, payload := range []string{`{}`, `{"message":"   "}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("payload %s: status = %d, want 400", payload, w.Code)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
}
