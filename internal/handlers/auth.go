package handlers

import (
	"net/http"
	"time"

	"notesapp/internal/config"
	"notesapp/internal/middleware"
	"notesapp/internal/model"
	"notesapp/internal/service"

	"go.uber.org/zap"
)

const tokenTTL = 24 * time.Hour

// AuthHandler serves registration, login and account lifecycle endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	users  *service.UserService
	logger *zap.SugaredLogger
	cfg    *config.Config
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(auth *service.AuthService, users *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, logger: logger, cfg: cfg}
}

type authResponse struct {
	UserID                 string `json:"userId"`
	Token                  string `json:"token"`
	FirstName              string `json:"firstName,omitempty"`
	LastName               string `json:"lastName,omitempty"`
	UserName               string `json:"userName,omitempty"`
	Email                  string `json:"email,omitempty"`
	IsGuest                bool   `json:"isGuest"`
	IsNotesUnlocked        bool   `json:"isNotesUnlocked"`
	RemainingAccessSeconds int    `json:"remainingAccessSeconds"`
}

func (h *AuthHandler) buildAuthResponse(r *http.Request, user *model.User) (*authResponse, error) {
	token, err := middleware.BuildJWT(user.ID, h.cfg.AuthSecret, tokenTTL)
	if err != nil {
		return nil, err
	}
	unlocked, remaining, err := h.users.UnlockStatus(r.Context(), user.ID)
	if err != nil {
		// A fresh account may race its own creation here; auth still worked.
		unlocked, remaining = false, 0
	}
	return &authResponse{
		UserID:                 user.ID,
		Token:                  token,
		FirstName:              user.FirstName,
		LastName:               user.LastName,
		UserName:               user.UserName,
		Email:                  user.Email,
		IsGuest:                user.IsGuest,
		IsNotesUnlocked:        unlocked,
		RemainingAccessSeconds: remaining,
	}, nil
}

// Register creates a full account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		UserName  string `json:"userName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		FcmToken  string `json:"fcmToken"`
		Platform  string `json:"platform"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		UserName:  req.UserName,
		Email:     req.Email,
		Password:  req.Password,
		FcmToken:  req.FcmToken,
		Platform:  req.Platform,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.buildAuthResponse(r, user)
	if err != nil {
		h.logger.Errorw("Register: token build failed", "error", err)
		writeError(w, err)
		return
	}
	writeOK(w, "registered successfully", resp)
}

// Login authenticates by email or username.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
		FcmToken   string `json:"fcmToken"`
		Platform   string `json:"platform"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.auth.Login(r.Context(), req.Identifier, req.Password, req.FcmToken, req.Platform)
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.buildAuthResponse(r, user)
	if err != nil {
		h.logger.Errorw("Login: token build failed", "error", err)
		writeError(w, err)
		return
	}
	writeOK(w, "logged in successfully", resp)
}

// GuestLogin creates an ephemeral guest account.
func (h *AuthHandler) GuestLogin(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.GuestLogin(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.buildAuthResponse(r, user)
	if err != nil {
		h.logger.Errorw("GuestLogin: token build failed", "error", err)
		writeError(w, err)
		return
	}
	writeOK(w, "guest session created", resp)
}

// ConvertGuest upgrades the calling guest to a full account.
func (h *AuthHandler) ConvertGuest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		UserName  string `json:"userName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.auth.ConvertGuest(r.Context(), userID, service.ConvertGuestRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		UserName:  req.UserName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.buildAuthResponse(r, user)
	if err != nil {
		h.logger.Errorw("ConvertGuest: token build failed", "error", err)
		writeError(w, err)
		return
	}
	writeOK(w, "account upgraded", resp)
}

// ChangePassword rotates the login password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
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

	if err := h.auth.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "password changed", nil)
}

// RegisterDeviceToken registers an FCM token for push delivery.
func (h *AuthHandler) RegisterDeviceToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Token    string `json:"token"`
		Platform string `json:"platform"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Token == "" || req.Platform == "" {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "token and platform are required"})
		return
	}

	if err := h.auth.RegisterDevice(r.Context(), userID, req.Token, req.Platform); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "device registered", nil)
}
