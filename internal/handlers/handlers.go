package handlers

import (
	"notesapp/internal/config"
	"notesapp/internal/middleware"
	"notesapp/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler bundles the configured router.
type Handler struct {
	Router chi.Router
}

// NewHandler wires all routes. storage may be nil when attachments are not
// configured; the endpoints then answer 400.
func NewHandler(
	authService *service.AuthService,
	userService *service.UserService,
	noteService *service.NoteService,
	reminderService *service.ReminderService,
	notificationService *service.NotificationService,
	storage AttachmentStorage,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(cfg.AuthSecret))

	authHandler := NewAuthHandler(authService, userService, logger, cfg)
	userHandler := NewUserHandler(userService, logger)
	noteHandler := NewNoteHandler(noteService, logger)
	reminderHandler := NewReminderHandler(reminderService, logger)
	notificationHandler := NewNotificationHandler(notificationService, logger)
	attachmentHandler := NewAttachmentHandler(storage, logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/guest", authHandler.GuestLogin)
			r.Post("/convert-guest", authHandler.ConvertGuest)
			r.Post("/change-password", authHandler.ChangePassword)
			r.Post("/device-token", authHandler.RegisterDeviceToken)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", userHandler.GetProfile)
			r.Put("/me", userHandler.UpdateProfile)
			r.Delete("/me", userHandler.Delete)
			r.Post("/common-password", userHandler.ChangeCommonPassword)
			r.Get("/unlock-status", userHandler.UnlockStatus)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Post("/", noteHandler.Create)
			r.Get("/", noteHandler.List)
			r.Post("/lock-all", noteHandler.LockAll)
			r.Get("/{id}", noteHandler.GetByID)
			r.Put("/{id}", noteHandler.Update)
			r.Delete("/{id}", noteHandler.Delete)
			r.Post("/{id}/unlock", noteHandler.Unlock)
			r.Post("/{id}/lock", noteHandler.Lock)
			r.Post("/{id}/generate-summary", noteHandler.GenerateSummary)
		})

		r.Route("/reminders", func(r chi.Router) {
			r.Post("/", reminderHandler.Set)
			r.Get("/{noteId}", reminderHandler.Get)
			r.Delete("/{noteId}", reminderHandler.Delete)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", notificationHandler.List)
			r.Get("/unread-count", notificationHandler.UnreadCount)
			r.Post("/{id}/read", notificationHandler.MarkRead)
			r.Post("/read-all", notificationHandler.MarkAllRead)
		})

		r.Route("/attachments", func(r chi.Router) {
			r.Post("/upload-url", attachmentHandler.UploadURL)
			r.Get("/download-url", attachmentHandler.DownloadURL)
		})
	})

	return &Handler{Router: r}
}
