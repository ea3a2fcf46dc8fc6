package main

import (
	"context"
	"os/signal"
	"syscall"

	"notesapp/internal/config"
	"notesapp/internal/mq"
	"notesapp/internal/summarizer"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() {
		_ = logger.Sync()
	}()

	if cfg.AIAPIKey == "" {
		sugar.Fatalw("AI_API_KEY is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conn, err := mq.Dial(cfg.RabbitURL)
	if err != nil {
		sugar.Fatalw("failed to connect to rabbitmq", "error", err)
	}
	defer conn.Close()

	client := summarizer.NewClient(cfg.AIAPIURL, cfg.AIAPIKey, cfg.AIModel)
	worker := summarizer.NewWorker(conn, client, sugar)

	if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
		sugar.Fatalw("summarizer worker failed", "error", err)
	}
}
