package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	"github.com/slok/go-http-metrics/middleware/std"

	"github.com/jfcardenas/recargas/internal/core/handler"
	"github.com/jfcardenas/recargas/internal/core/logger"
	middlWre "github.com/jfcardenas/recargas/internal/core/middleware"
	"github.com/jfcardenas/recargas/internal/core/repository/memory"
	"github.com/jfcardenas/recargas/internal/core/repository/postgres"
	"github.com/jfcardenas/recargas/internal/core/usecase"
	"github.com/jfcardenas/recargas/pkg/config"
	"github.com/jfcardenas/recargas/pkg/postgresdb"
)

type Server struct {
	router          *mux.Router
	log             logger.Logger
	httpServer      *http.Server
	authHandler     *handler.AuthHandler
	rechargeHandler *handler.RechargeHandler
	authGuard       func(http.Handler) http.Handler
	db              *postgresdb.Database
}

func NewServer(log logger.Logger) (*Server, error) {
	cfgDB, err := config.LoadConfigDB()
	if err != nil {
		return nil, err
	}

	cfgJWT, err := config.LoadConfigJWT()
	if err != nil {
		return nil, err
	}

	db, err := postgresdb.NewPostgresDB(*cfgDB, log)
	if err != nil {
		return nil, err
	}

	userRepository, err := memory.NewUserRepository(memory.DefaultSeeds())
	if err != nil {
		return nil, err
	}

	store := postgres.NewStore(db.DB, log)
	transactionRepository := postgres.NewPostgresTransactionRepo(store)
	rechargeRepository := postgres.NewPostgresRechargeRepo(store)

	authUsecase := usecase.NewAuthUsecase(userRepository, *cfgJWT, log)
	transactionUsecase := usecase.NewTransactionUsecase(transactionRepository, log)
	rechargeUsecase := usecase.NewRechargeUsecase(transactionUsecase, rechargeRepository, store, log)

	server := &Server{
		log:             log,
		router:          mux.NewRouter(),
		authHandler:     handler.NewAuthHandler(authUsecase, log),
		rechargeHandler: handler.NewRechargeHandler(rechargeUsecase, log),
		authGuard:       middlWre.Authenticate(*cfgJWT, log),
		db:              db,
	}

	server.router.Use(loggingMiddleware(server.log))

	mw := middleware.New(middleware.Config{
		Recorder: prometheus.NewRecorder(prometheus.Config{}),
	})

	server.router.Use(func(next http.Handler) http.Handler {
		return std.Handler("", mw, next)
	})

	server.RegisterRoutes()

	return server, nil
}

func (s *Server) RegisterRoutes() {
	s.router.Use(
		middlWre.WithErrorHandler(s.log),
		middlWre.Recovery(s.log),
	)
	s.router.HandleFunc("/auth/login", s.authHandler.Login).Methods("POST")
	s.router.Handle("/auth/profile", s.authGuard(http.HandlerFunc(s.authHandler.Profile))).Methods("GET")
	s.router.Handle("/recharges/buy", s.authGuard(http.HandlerFunc(s.rechargeHandler.Buy))).Methods("POST")
	s.router.Handle("/recharges/history", s.authGuard(http.HandlerFunc(s.rechargeHandler.History))).Methods("GET")
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	s.router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
}

func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       9 * time.Second,
		WriteTimeout:      12 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 60 * time.Second,
	}

	s.httpServer = srv

	return srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	var shutdownErr error

	go func() {
		if s.httpServer != nil {
			err := s.httpServer.Shutdown(ctx)
			if err != nil {
				s.log.Error("failed to shutdown HTTP server", logger.ErrorField("error", err))
				shutdownErr = fmt.Errorf("HTTP server shutdown error: %w", err)
			}
		}

		if s.db != nil {
			err := s.db.Close()
			if err != nil {
				s.log.Error("failed to close database connection", logger.ErrorField("error", err))
				shutdownErr = fmt.Errorf("database shutdown error: %w", err)
			}
		}

		close(done)
	}()

	select {
	case <-done:
		return shutdownErr
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (s *Server) RunTLS(addr, certFile, keyFile string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       9 * time.Second,
		WriteTimeout:      9 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 6 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
	}

	s.httpServer = srv
	return srv.ListenAndServeTLS(certFile, keyFile)
}

func loggingMiddleware(log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Info("HTTP request",
				logger.StringField("method", r.Method),
				logger.StringField("path", r.URL.Path),
				logger.StringField("remote_addr", r.RemoteAddr),
				logger.StringField("user_agent", r.UserAgent()),
			)
			next.ServeHTTP(w, r)
		})
	}
}
