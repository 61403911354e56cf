package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/jfcardenas/recargas/internal/core/logger"
	"github.com/jfcardenas/recargas/internal/core/middleware"
	"github.com/jfcardenas/recargas/internal/core/usecase"
)

type RechargeHandler struct {
	usecase usecase.RechargeUsecase
	log     logger.Logger
}

type buyRequest struct {
	Amount      json.Number `json:"amount" validate:"required"`
	PhoneNumber string      `json:"phoneNumber" validate:"required,co_mobile"`
}

func NewRechargeHandler(usecase usecase.RechargeUsecase, log logger.Logger) *RechargeHandler {
	return &RechargeHandler{usecase: usecase, log: log}
}

func (h *RechargeHandler) Buy(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	req, err := h.decodeBuyRequest(w, r)
	if err != nil {
		respondWithError(w, http.StatusNotAcceptable, err.Error())
		return
	}

	amount, err := h.parseAmount(req.Amount)
	if err != nil {
		h.log.Warn("Invalid amount",
			logger.StringField("amount", req.Amount.String()),
			logger.ErrorField("error", err))
		respondWithError(w, http.StatusNotAcceptable, err.Error())
		return
	}

	view, err := h.usecase.Create(r.Context(), principal.Username, amount, req.PhoneNumber)
	if err != nil {
		h.handleRechargeError(w, principal.Username, err)
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}

func (h *RechargeHandler) History(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	views, err := h.usecase.FindByUser(r.Context(), principal.Username)
	if err != nil {
		h.handleRechargeError(w, principal.Username, err)
		return
	}

	respondWithJSON(w, http.StatusOK, views)
}

func (h *RechargeHandler) decodeBuyRequest(w http.ResponseWriter, r *http.Request) (*buyRequest, error) {
	var req buyRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("Failed to decode buy body", logger.ErrorField("error", err))
		return nil, fmt.Errorf("invalid request payload")
	}
	defer r.Body.Close()

	if err := validate.Struct(req); err != nil {
		h.log.Warn("Buy validation failed", logger.ErrorField("error", err))
		return nil, fmt.Errorf("amount must be numeric and phoneNumber a valid mobile number")
	}

	return &req, nil
}

// parseAmount accepts only whole JSON numbers. Recharges are priced in
// Colombian pesos, which carry no fractional part.
func (h *RechargeHandler) parseAmount(raw json.Number) (int64, error) {
	amount, err := decimal.NewFromString(raw.String())
	if err != nil {
		return 0, fmt.Errorf("invalid amount format: %s", raw.String())
	}

	if !amount.IsInteger() {
		return 0, fmt.Errorf("amount must be a whole number")
	}

	// IntPart wraps silently outside the int64 range, which would let an
	// oversized amount alias into the valid window.
	if !amount.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount out of range")
	}

	return amount.IntPart(), nil
}

func (h *RechargeHandler) handleRechargeError(w http.ResponseWriter, userID string, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidAmount):
		respondWithError(w, http.StatusConflict, usecase.ErrInvalidAmount.Error())
	case errors.Is(err, usecase.ErrNoRecharges):
		respondWithError(w, http.StatusNotFound, "No recharges found")
	default:
		h.log.Error("Failed to process recharge request",
			logger.StringField("user_id", userID),
			logger.ErrorField("error", err),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to process request")
	}
}
