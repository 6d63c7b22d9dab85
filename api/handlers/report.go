package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harshitnub077/SynapticCare-sub000/internal/extract"
	"github.com/harshitnub077/SynapticCare-sub000/internal/models"
	"github.com/harshitnub077/SynapticCare-sub000/internal/service/report"
	"github.com/harshitnub077/SynapticCare-sub000/internal/store"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/logger"
)

// defaultUserID stands in for an authenticated identity; requests may
// override it via the X-User-ID header.
const defaultUserID = "default-user"

type ReportHandler struct {
	service *report.Service
	logger  logger.Logger
}

// ReportResponse is the outward report shape.
type ReportResponse struct {
	ID            string               `json:"id"`
	Filename      string               `json:"filename"`
	Status        string               `json:"status"`
	UploadedAt    string               `json:"uploadedAt"`
	ExtractedText string               `json:"extractedText"`
	ParsedData    []models.Measurement `json:"parsedData"`
	Flags         *models.Flags        `json:"flags"`
}

// ErrorResponse is the outward error shape.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewReportHandler(service *report.Service, logger logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// Upload accepts one report file and returns 202 with the pending
// report; processing happens asynchronously and is observed via status.
func (h *ReportHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid file upload", err)
		return
	}
	defer file.Close()

	upload := &report.Upload{
		UserID:   userID(c),
		Filename: header.Filename,
		Size:     header.Size,
		Gender:   c.PostForm("gender"),
		Content:  file,
	}

	rep, err := h.service.Create(c.Request.Context(), upload)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedMediaType) {
			h.handleError(c, http.StatusUnsupportedMediaType, "Unsupported file type", err)
			return
		}
		h.handleError(c, http.StatusInternalServerError, "Failed to accept report", err)
		return
	}

	c.JSON(http.StatusAccepted, toReportResponse(rep))
}

// List returns the user's reports, newest first.
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.service.List(c.Request.Context(), userID(c))
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to list reports", err)
		return
	}

	responses := make([]ReportResponse, len(reports))
	for i, rep := range reports {
		responses[i] = toReportResponse(rep)
	}

	c.JSON(http.StatusOK, gin.H{"reports": responses})
}

// Get returns one report by id.
func (h *ReportHandler) Get(c *gin.Context) {
	reportID := c.Param("reportId")
	if reportID == "" {
		h.handleError(c, http.StatusBadRequest, "Report ID is required", nil)
		return
	}

	rep, err := h.service.Get(c.Request.Context(), userID(c), reportID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.handleError(c, http.StatusNotFound, "Report not found", err)
			return
		}
		h.handleError(c, http.StatusInternalServerError, "Failed to get report", err)
		return
	}

	c.JSON(http.StatusOK, toReportResponse(rep))
}

func toReportResponse(rep *models.Report) ReportResponse {
	return ReportResponse{
		ID:            rep.ID,
		Filename:      rep.Filename,
		Status:        string(rep.Status),
		UploadedAt:    rep.UploadedAt.Format(time.RFC3339),
		ExtractedText: rep.ExtractedText,
		ParsedData:    rep.ParsedData,
		Flags:         rep.Flags,
	}
}

func userID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	return defaultUserID
}

func (h *ReportHandler) handleError(c *gin.Context, status int, message string, err error) {
	h.logger.Error(message,
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)

	response := ErrorResponse{
		Message: message,
	}
	if err != nil {
		response.Error = err.Error()
	}

	c.JSON(status, response)
}
