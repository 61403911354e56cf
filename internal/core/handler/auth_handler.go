package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jfcardenas/recargas/internal/core/logger"
	"github.com/jfcardenas/recargas/internal/core/middleware"
	"github.com/jfcardenas/recargas/internal/core/usecase"
)

type AuthHandler struct {
	usecase usecase.AuthUsecase
	log     logger.Logger
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

func NewAuthHandler(usecase usecase.AuthUsecase, log logger.Logger) *AuthHandler {
	return &AuthHandler{usecase: usecase, log: log}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("Failed to decode login body", logger.ErrorField("error", err))
		respondWithError(w, http.StatusNotAcceptable, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := validate.Struct(req); err != nil {
		h.log.Warn("Login validation failed", logger.ErrorField("error", err))
		respondWithError(w, http.StatusNotAcceptable, "username and password are required")
		return
	}

	token, err := h.usecase.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h.log.Error("Sign-in failed", logger.ErrorField("error", err))
		respondWithError(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	respondWithJSON(w, http.StatusOK, loginResponse{AccessToken: token})
}

// Profile echoes the identity carried by the verified token.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	respondWithJSON(w, http.StatusOK, principal)
}
