package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"notesapp/internal/config"
	"notesapp/internal/handlers"
	"notesapp/internal/middleware"
	"notesapp/internal/mq"
	"notesapp/internal/notifier"
	"notesapp/internal/repo"
	"notesapp/internal/scheduler"
	"notesapp/internal/service"
	"notesapp/internal/storage"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	middleware.SetLogger(sugar)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	noteRepo := repo.NewNoteRepository(gormDB)
	reminderRepo := repo.NewReminderRepository(gormDB)
	notificationRepo := repo.NewNotificationRepository(gormDB)
	tokenRepo := repo.NewDeviceTokenRepository(gormDB)

	// The summary pipeline is optional: without a broker the endpoint
	// reports it as unavailable.
	var mqConn *mq.Connection
	if cfg.RabbitURL != "" {
		mqConn, err = mq.Dial(cfg.RabbitURL)
		if err != nil {
			sugar.Warnw("rabbitmq unavailable, summaries disabled", "error", err)
			mqConn = nil
		} else {
			defer mqConn.Close()
			go func() {
				if err := mqConn.ConsumeSummaryResponses(ctx, noteRepo, sugar); err != nil && ctx.Err() == nil {
					sugar.Errorw("summary response consumer stopped", "error", err)
				}
			}()
		}
	}

	access := service.NewAccessManager(userRepo)
	authService := service.NewAuthService(userRepo, tokenRepo)
	userService := service.NewUserService(userRepo, access, cfg.S3BaseURL)
	reminderService := service.NewReminderService(reminderRepo, noteRepo)
	notificationService := service.NewNotificationService(notificationRepo)

	var publisher service.SummaryPublisher
	if mqConn != nil {
		publisher = mqConn
	}
	noteService := service.NewNoteService(noteRepo, userRepo, reminderRepo, access, publisher, sugar)

	var attachments handlers.AttachmentStorage
	if cfg.S3AccessKey != "" {
		s3store, err := storage.New(ctx, storage.Options{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			sugar.Fatalw("failed to initialize object storage", "error", err)
		}
		attachments = s3store
	}

	var push scheduler.PushSender
	if cfg.FirebaseCredentials != "" {
		pusher, err := notifier.NewFCMPusher(ctx, cfg.FirebaseCredentials, tokenRepo, sugar)
		if err != nil {
			sugar.Warnw("firebase unavailable, push channel disabled", "error", err)
		} else {
			push = pusher
		}
	}

	var email scheduler.EmailSender
	if cfg.SMTPHost != "" {
		email = notifier.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	}

	dispatcher := scheduler.NewDispatcher(reminderRepo, userRepo, notificationService, push, email, sugar)
	go func() {
		if err := dispatcher.Run(ctx); err != nil && ctx.Err() == nil {
			sugar.Errorw("reminder dispatcher stopped", "error", err)
		}
	}()

	h := handlers.NewHandler(authService, userService, noteService, reminderService, notificationService, attachments, sugar, cfg)

	server := &http.Server{Addr: cfg.BaseURL, Handler: h.Router}
	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	sugar.Infow("Starting server", "addr", cfg.BaseURL)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		sugar.Fatalw("Server failed", "error", err)
	}
}
