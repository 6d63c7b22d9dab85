package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harshitnub077/SynapticCare-sub000/internal/service/chat"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/logger"
)

type ChatHandler struct {
	service *chat.Service
	logger  logger.Logger
}

type ChatRequest struct {
	Message  string `json:"message" binding:"required"`
	ReportID string `json:"reportId"`
}

func NewChatHandler(service *chat.Service, logger logger.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  logger,
	}
}

// Send handles one conversational turn and returns both stored
// messages.
func (h *ChatHandler) Send(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid chat request", err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.handleError(c, http.StatusBadRequest, "Message must not be empty", nil)
		return
	}

	turn, err := h.service.Send(c.Request.Context(), userID(c), req.Message, req.ReportID)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to process chat message", err)
		return
	}

	c.JSON(http.StatusOK, turn)
}

// History returns the user's messages in chronological order.
func (h *ChatHandler) History(c *gin.Context) {
	messages, err := h.service.History(c.Request.Context(), userID(c))
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to load chat history", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *ChatHandler) handleError(c *gin.Context, status int, message string, err error) {
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
