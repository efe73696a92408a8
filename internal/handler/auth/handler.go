package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	authservice "github.com/edgecraft/backend/internal/auth"
	"github.com/edgecraft/backend/internal/middleware"
	"github.com/edgecraft/backend/internal/model/user"
	"github.com/edgecraft/backend/internal/store"
	"github.com/edgecraft/backend/pkg/utils"
)

// Handler serves registration, login, logout, and the current-user lookup.
type Handler struct {
	store    store.Store
	sessions *authservice.SessionStore
	log      *zap.Logger
}

// New creates the auth handler.
func New(st store.Store, sessions *authservice.SessionStore, logger *zap.Logger) *Handler {
	return &Handler{store: st, sessions: sessions, log: logger}
}

// RegisterPublicRoutes registers routes reachable without a session.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
}

// RegisterProtectedRoutes registers routes behind the auth middleware.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/auth/logout", h.handleLogout)
	r.Get("/auth/me", h.handleMe)
}

type credentialsPayload struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type sessionResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" || !strings.Contains(email, "@") {
		utils.RespondError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(payload.Password) < 8 {
		utils.RespondError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	if _, _, found, err := h.store.GetUserByEmail(r.Context(), email); err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "account lookup failed")
		return
	} else if found {
		utils.RespondError(w, http.StatusConflict, "an account with this email already exists")
		return
	}

	hash, err := authservice.HashPassword(payload.Password)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	newUser := user.User{
		ID:          uuid.NewString(),
		Email:       email,
		DisplayName: strings.TrimSpace(payload.DisplayName),
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.store.SaveUser(r.Context(), newUser, hash); err != nil {
		h.log.Error("save user failed", zap.Error(err))
		utils.RespondError(w, http.StatusServiceUnavailable, "failed to create account")
		return
	}

	token, err := h.sessions.NewSession(newUser.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to open session")
		return
	}

	h.log.Info("user registered", zap.String("user", newUser.ID))
	utils.RespondJSON(w, http.StatusCreated, sessionResponse{Token: token, User: newUser})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	account, hash, found, err := h.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "account lookup failed")
		return
	}
	if !found || !authservice.CheckPassword(payload.Password, hash) {
		utils.RespondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.sessions.NewSession(account.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to open session")
		return
	}

	utils.RespondJSON(w, http.StatusOK, sessionResponse{Token: token, User: account})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if err := h.sessions.DeleteSession(r.Context(), token); err != nil {
		h.log.Warn("session revocation failed", zap.Error(err))
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	account, found, err := h.store.GetUserByID(r.Context(), userID)
	if err != nil || !found {
		utils.RespondError(w, http.StatusUnauthorized, "account not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, account)
}
