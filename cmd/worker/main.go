package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harshitnub077/SynapticCare-sub000/config"
	"github.com/harshitnub077/SynapticCare-sub000/internal/app"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/logger"
	"github.com/harshitnub077/SynapticCare-sub000/pkg/worker"
)

func main() {
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/worker.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	application, err := app.Build(context.Background(), log)
	if err != nil {
		log.Error("Failed to build application", logger.Error(err))
		os.Exit(1)
	}
	defer application.Close()

	redisCfg := config.GetRedisConfig()
	workerCfg := &worker.Config{
		RedisAddr:   redisCfg.Addr,
		RedisDB:     redisCfg.DB,
		Concurrency: config.GetPipelineConfig().Concurrency,
		Queues: map[string]int{
			"default": 1,
		},
	}

	reportWorker := worker.NewReportWorker(workerCfg, application.Report, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := reportWorker.Start(ctx); err != nil {
		log.Error("Failed to start worker", logger.Error(err))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down worker...")
	reportWorker.Stop()
	log.Info("Worker stopped")
}
