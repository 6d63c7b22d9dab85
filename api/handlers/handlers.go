package handlers

import (
	"github.com/harshitnub077/SynapticCare-sub000/internal/service/chat"
	"github.com/harshitnub077/SynapticCare-sub000/internal/service/report"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/logger"
)

type Handlers struct {
	Report *ReportHandler
	Chat   *ChatHandler
}

func NewHandlers(
	reportService *report.Service,
	chatService *chat.Service,
	logger logger.Logger,
) *Handlers {
	return &Handlers{
		Report: NewReportHandler(reportService, logger),
		Chat:   NewChatHandler(chatService, logger),
	}
}
