package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"notesapp/internal/service"
	"notesapp/internal/storage"

	"go.uber.org/zap"
)

// AttachmentStorage issues presigned URLs for attachment objects.
type AttachmentStorage interface {
	PresignPut(ctx context.Context, key string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

// AttachmentHandler serves presigned upload/download URLs. The server never
// proxies attachment bytes.
type AttachmentHandler struct {
	storage AttachmentStorage
	logger  *zap.SugaredLogger
}

// NewAttachmentHandler creates the attachment handler.
func NewAttachmentHandler(storage AttachmentStorage, logger *zap.SugaredLogger) *AttachmentHandler {
	return &AttachmentHandler{storage: storage, logger: logger}
}

// UploadURL mints a fresh object key and a presigned PUT URL for it.
func (h *AttachmentHandler) UploadURL(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if h.storage == nil {
		writeError(w, fmt.Errorf("%w: attachments are not configured", service.ErrValidation))
		return
	}

	key := storage.NewObjectKey(userID)
	url, err := h.storage.PresignPut(r.Context(), key)
	if err != nil {
		h.logger.Errorw("UploadURL: presign failed", "error", err)
		writeError(w, err)
		return
	}
	writeOK(w, "upload url generated", map[string]string{
		"key":       key,
		"uploadUrl": url,
	})
}

// DownloadURL returns a presigned GET URL for an object the user owns. Keys
// are namespaced per user, so ownership is checked by prefix.
func (h *AttachmentHandler) DownloadURL(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if h.storage == nil {
		writeError(w, fmt.Errorf("%w: attachments are not configured", service.ErrValidation))
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, fmt.Errorf("%w: key is required", service.ErrValidation))
		return
	}
	if !strings.HasPrefix(key, "attachments/"+userID+"/") {
		writeError(w, fmt.Errorf("%w: object does not belong to you", service.ErrUnauthorized))
		return
	}

	url, err := h.storage.PresignGet(r.Context(), key)
	if err != nil {
		h.logger.Errorw("DownloadURL: presign failed", "error", err)
		writeError(w, err)
		return
	}
	writeOK(w, "download url generated", map[string]string{"downloadUrl": url})
}
