package handlers

import (
	"net/http"

	"notesapp/internal/service"

	"go.uber.org/zap"
)

// UserHandler serves profile and shared-password endpoints.
type UserHandler struct {
	users  *service.UserService
	logger *zap.SugaredLogger
}

// NewUserHandler creates the user handler.
func NewUserHandler(users *service.UserService, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type profileDTO struct {
	UserID            string `json:"userId"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	UserName          string `json:"userName"`
	Email             string `json:"email"`
	IsGuest           bool   `json:"isGuest"`
	ProfileImageURL   string `json:"profileImageUrl"`
	HasCommonPassword bool   `json:"hasCommonPassword"`
}

// GetProfile returns the current user's profile.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	p, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "profile fetched successfully", profileDTO{
		UserID:            p.UserID,
		FirstName:         p.FirstName,
		LastName:          p.LastName,
		UserName:          p.UserName,
		Email:             p.Email,
		IsGuest:           p.IsGuest,
		ProfileImageURL:   p.ProfileImageURL,
		HasCommonPassword: p.HasCommonPassword,
	})
}

// UpdateProfile edits names and the profile image path.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		FirstName        string `json:"firstName"`
		LastName         string `json:"lastName"`
		UserName         string `json:"userName"`
		ProfileImagePath string `json:"profileImagePath"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.users.UpdateProfile(r.Context(), userID, service.UpdateProfileRequest{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		UserName:         req.UserName,
		ProfileImagePath: req.ProfileImagePath,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "profile updated successfully", nil)
}

// Delete soft-deletes the account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.users.Delete(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "account deleted successfully", nil)
}

// ChangeCommonPassword rotates the shared unlock password.
func (h *UserHandler) ChangeCommonPassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.users.ChangeCommonPassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "common password changed successfully", nil)
}

// UnlockStatus reports the current unlock window state.
func (h *UserHandler) UnlockStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	unlocked, remaining, err := h.users.UnlockStatus(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "unlock status fetched", map[string]any{
		"isNotesUnlocked":        unlocked,
		"remainingAccessSeconds": remaining,
	})
}
