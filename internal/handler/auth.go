package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-planner-api/internal/model"
	"github.com/BuzzLyutic/task-planner-api/internal/repo"
	"github.com/BuzzLyutic/task-planner-api/internal/service"
	"github.com/BuzzLyutic/task-planner-api/pkg/respond"
)

type AuthHandler struct {
	service *service.AuthService
	logger  *zap.Logger
}

func NewAuthHandler(srv *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.decode(w, r)
	if !ok {
		return
	}

	user, err := h.service.Authenticate(r.Context(), creds)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	h.logger.Info("user logged in", zap.Int64("user_id", user.ID))
	respond.JSON(w, r, http.StatusOK, user)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.decode(w, r)
	if !ok {
		return
	}

	user, err := h.service.Register(r.Context(), creds)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	h.logger.Info("user registered", zap.Int64("user_id", user.ID))
	respond.JSON(w, r, http.StatusOK, user)
}

func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request) (model.Credentials, bool) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return creds, false
	}
	return creds, true
}

func (h *AuthHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		respond.Error(w, r, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, repo.ErrorDuplicateUsername):
		respond.Error(w, r, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
