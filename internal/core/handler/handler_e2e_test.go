package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jfcardenas/recargas/internal/core/handler"
	"github.com/jfcardenas/recargas/internal/core/middleware"
	"github.com/jfcardenas/recargas/internal/core/models"
	"github.com/jfcardenas/recargas/internal/core/repository/memory"
	"github.com/jfcardenas/recargas/internal/core/usecase"
	"github.com/jfcardenas/recargas/pkg/config"
)

// memStore keeps transactions and recharges in memory and answers the
// history join the way the postgres repositories do.
type memStore struct {
	mu           sync.Mutex
	transactions []models.Transaction
	recharges    []models.Recharge
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memTransactionRepo struct{ store *memStore }

func (r *memTransactionRepo) Create(ctx context.Context, transaction *models.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.transactions = append(r.store.transactions, *transaction)
	return nil
}

type memRechargeRepo struct{ store *memStore }

func (r *memRechargeRepo) Create(ctx context.Context, recharge *models.Recharge) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.recharges = append(r.store.recharges, *recharge)
	return nil
}

func (r *memRechargeRepo) FindByUser(ctx context.Context, userID string) ([]models.RechargeView, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	views := []models.RechargeView{}
	for _, transaction := range r.store.transactions {
		if transaction.UserID != userID {
			continue
		}
		for _, recharge := range r.store.recharges {
			if recharge.TransactionID == transaction.ID {
				views = append(views, models.RechargeView{
					ID:          transaction.ID,
					PhoneNumber: recharge.PhoneNumber,
					Amount:      transaction.Amount,
					UserID:      transaction.UserID,
					CreatedAt:   transaction.CreatedAt,
				})
			}
		}
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].CreatedAt.Before(views[j].CreatedAt)
	})
	return views, nil
}

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	log := zap.NewNop()
	cfgJWT := config.JWTConfig{Secret: "e2e-secret", Expiry: time.Hour}

	users, err := memory.NewUserRepository(memory.DefaultSeeds())
	require.NoError(t, err)

	store := &memStore{}
	authUsecase := usecase.NewAuthUsecase(users, cfgJWT, log)
	transactionUsecase := usecase.NewTransactionUsecase(&memTransactionRepo{store: store}, log)
	rechargeUsecase := usecase.NewRechargeUsecase(transactionUsecase, &memRechargeRepo{store: store}, store, log)

	authHandler := handler.NewAuthHandler(authUsecase, log)
	rechargeHandler := handler.NewRechargeHandler(rechargeUsecase, log)
	guard := middleware.Authenticate(cfgJWT, log)

	router := mux.NewRouter()
	router.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	router.Handle("/auth/profile", guard(http.HandlerFunc(authHandler.Profile))).Methods("GET")
	router.Handle("/recharges/buy", guard(http.HandlerFunc(rechargeHandler.Buy))).Methods("POST")
	router.Handle("/recharges/history", guard(http.HandlerFunc(rechargeHandler.History))).Methods("GET")
	return router
}

func doRequest(router *mux.Router, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router *mux.Router, username, password string) string {
	t.Helper()
	rec := doRequest(router, http.MethodPost, "/auth/login", "",
		`{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestLogin(t *testing.T) {
	router := newTestRouter(t)

	t.Run("valid credentials return a token", func(t *testing.T) {
		login(t, router, "pruebasuno", "Colombia2025*")
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/auth/login", "",
			`{"username":"pruebasuno","password":"micontrasena"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown username is unauthorized", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/auth/login", "",
			`{"username":"nadie","password":"Colombia2025*"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing password is not acceptable", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/auth/login", "",
			`{"username":"pruebasuno"}`)
		assert.Equal(t, http.StatusNotAcceptable, rec.Code)
	})

	t.Run("malformed body is not acceptable", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/auth/login", "", `{"username":`)
		assert.Equal(t, http.StatusNotAcceptable, rec.Code)
	})
}

func TestProfile(t *testing.T) {
	router := newTestRouter(t)

	t.Run("without token", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/auth/profile", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("with token", func(t *testing.T) {
		token := login(t, router, "pruebasuno", "Colombia2025*")
		rec := doRequest(router, http.MethodGet, "/auth/profile", token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var profile models.Principal
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
		assert.Equal(t, int64(1), profile.UserID)
		assert.Equal(t, "pruebasuno", profile.Username)
	})
}

func TestBuyRecharge(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "pruebasuno", "Colombia2025*")

	t.Run("without token", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/recharges/buy", "",
			`{"amount":5000,"phoneNumber":"3001234567"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid phone number", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/recharges/buy", token,
			`{"amount":5000,"phoneNumber":"123"}`)
		assert.Equal(t, http.StatusNotAcceptable, rec.Code)
	})

	t.Run("non-numeric amount", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/recharges/buy", token,
			`{"amount":"cinco mil","phoneNumber":"3001234567"}`)
		assert.Equal(t, http.StatusNotAcceptable, rec.Code)
	})

	t.Run("amount beyond int64 is rejected, not wrapped", func(t *testing.T) {
		// 2^64 + 5000 would alias to 5000 if truncated to int64.
		rec := doRequest(router, http.MethodPost, "/recharges/buy", token,
			`{"amount":18446744073709556616,"phoneNumber":"3001234567"}`)
		assert.Equal(t, http.StatusNotAcceptable, rec.Code)

		history := doRequest(router, http.MethodGet, "/recharges/history", token, "")
		assert.Equal(t, http.StatusNotFound, history.Code, "no recharge may be recorded")
	})

	t.Run("fractional amount", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/recharges/buy", token,
			`{"amount":5000.5,"phoneNumber":"3001234567"}`)
		assert.Equal(t, http.StatusNotAcceptable, rec.Code)
	})

	t.Run("amount below range", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/recharges/buy", token,
			`{"amount":999,"phoneNumber":"3001234567"}`)
		require.Equal(t, http.StatusConflict, rec.Code)

		var resp struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Monto no válido", resp.Message)
	})

	t.Run("amount above range", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/recharges/buy", token,
			`{"amount":100001,"phoneNumber":"3001234567"}`)
		require.Equal(t, http.StatusConflict, rec.Code)

		var resp struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Monto no válido", resp.Message)
	})

	t.Run("valid recharge", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/recharges/buy", token,
			`{"amount":5000,"phoneNumber":"3001234567"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var view models.RechargeView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		assert.NotEmpty(t, view.ID)
		assert.Equal(t, "3001234567", view.PhoneNumber)
		assert.Equal(t, int64(5000), view.Amount)
		assert.Equal(t, "pruebasuno", view.UserID)
		assert.False(t, view.CreatedAt.IsZero())
	})
}

func TestHistory(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "pruebasuno", "Colombia2025*")

	t.Run("without token", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/recharges/history", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("user with no history gets 404", func(t *testing.T) {
		otherToken := login(t, router, "pruebastres", "Test25%")
		rec := doRequest(router, http.MethodGet, "/recharges/history", otherToken, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("history is ordered and complete", func(t *testing.T) {
		first := doRequest(router, http.MethodPost, "/recharges/buy", token,
			`{"amount":5000,"phoneNumber":"3001234567"}`)
		require.Equal(t, http.StatusOK, first.Code)
		second := doRequest(router, http.MethodPost, "/recharges/buy", token,
			`{"amount":20000,"phoneNumber":"3109876543"}`)
		require.Equal(t, http.StatusOK, second.Code)

		rec := doRequest(router, http.MethodGet, "/recharges/history", token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var views []models.RechargeView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
		require.Len(t, views, 2)

		assert.Equal(t, "3001234567", views[0].PhoneNumber)
		assert.Equal(t, int64(5000), views[0].Amount)
		assert.Equal(t, "3109876543", views[1].PhoneNumber)
		assert.Equal(t, int64(20000), views[1].Amount)
		for _, view := range views {
			assert.Equal(t, "pruebasuno", view.UserID)
		}
		assert.False(t, views[1].CreatedAt.Before(views[0].CreatedAt))
	})
}
