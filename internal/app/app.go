// Package app wires the pipeline's components from configuration. Both
// the API server and the worker build the same graph so report
// processing behaves identically wherever the task runs.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/harshitnub077/SynapticCare-sub000/config"
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
	"github.com/harshitnub077/SynapticCare-sub000/pkg/storage"
)

// textractMediaTypes are the image types routed to Textract when it is
// enabled; PDFs keep the local extractor either way.
var textractMediaTypes = []string{"image/jpeg", "image/png", "image/tiff"}

// App is the wired component graph.
type App struct {
	Report *report.Service
	Chat   *chat.Service
	Queue  queue.Queue

	logger logger.Logger
}

// Build constructs the full pipeline graph from configuration.
func Build(ctx context.Context, log logger.Logger) (*App, error) {
	pipelineCfg := config.GetPipelineConfig()

	reg, err := registry.Load(pipelineCfg.ThresholdsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load threshold registry: %w", err)
	}
	log.Info("threshold registry loaded",
		logger.String("path", pipelineCfg.ThresholdsPath),
		logger.Int("entries", reg.Len()),
	)

	parser, err := labparse.NewParser(reg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to build lab parser: %w", err)
	}
	flagger := flagging.NewEngine(reg, log)

	extractor, err := buildExtractService(ctx, log)
	if err != nil {
		return nil, err
	}

	orchestrator := buildOrchestrator(ctx, log, pipelineCfg)

	redisCfg := config.GetRedisConfig()
	recordStore := store.NewRedisStore(redisCfg.Addr, redisCfg.DB)

	storageCfg := config.GetStorageConfig()
	files, err := storage.NewStorage(storage.Backend(storageCfg.Backend), log)
	if err != nil {
		return nil, fmt.Errorf("failed to build file storage: %w", err)
	}

	taskQueue := queue.NewAsynqQueue(redisCfg.Addr, redisCfg.DB)

	reportService := report.NewService(report.Deps{
		Store:       recordStore,
		Files:       files,
		Queue:       taskQueue,
		Extractor:   extractor,
		Parser:      parser,
		Flagger:     flagger,
		Insights:    orchestrator,
		Logger:      log,
		MaxFileSize: pipelineCfg.MaxFileSize,
	})
	chatService := chat.NewService(recordStore, recordStore, orchestrator, log, pipelineCfg.ChatWindow)

	return &App{
		Report: reportService,
		Chat:   chatService,
		Queue:  taskQueue,
		logger: log,
	}, nil
}

func (a *App) Close() {
	if err := a.Queue.Close(); err != nil {
		a.logger.Error("failed to close task queue", logger.Error(err))
	}
}

func buildExtractService(ctx context.Context, log logger.Logger) (*extract.Service, error) {
	var opts []extract.ServiceOption

	textractCfg := config.GetTextractConfig()
	if textractCfg.Enabled {
		te, err := extract.NewTextractExtractor(ctx, &extract.TextractConfig{
			Region:    textractCfg.Region,
			AccessKey: textractCfg.AccessKey,
			SecretKey: textractCfg.SecretKey,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to build textract extractor: %w", err)
		}
		for _, mediaType := range textractMediaTypes {
			opts = append(opts, extract.WithExtractor(mediaType, te))
		}
		log.Info("textract extraction enabled", logger.String("region", textractCfg.Region))
	}

	return extract.NewService(log, opts...), nil
}

func buildOrchestrator(ctx context.Context, log logger.Logger, pipelineCfg *config.PipelineConfig) *insight.Orchestrator {
	geminiCfg := config.GetGeminiConfig()

	var provider insight.Provider
	p, err := insight.NewGeminiProvider(ctx, &insight.GeminiConfig{
		APIKey: geminiCfg.APIKey,
		Model:  geminiCfg.Model,
	})
	switch {
	case err == nil:
		provider = p
		log.Info("ai provider configured", logger.String("model", geminiCfg.Model))
	case errors.Is(err, insight.ErrProviderUnavailable):
		log.Warn("ai provider not configured, running in simulated mode")
	default:
		log.Error("ai provider initialization failed, running in simulated mode", logger.Error(err))
	}

	return insight.NewOrchestrator(provider, log, insight.WithCallTimeout(pipelineCfg.AICallTimeout))
}
