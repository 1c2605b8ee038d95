package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	requestTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// NewRouter - builds the HTTP routes of the session API.
func NewRouter(logger *slog.Logger, sessions sessionUseCase) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(requestTimeout))

	ping := NewPingHandler()
	router.Get("/ping", ping.PingHandler)

	handlers := NewSessionHandlers(logger, sessions)
	router.Route("/sessions", func(r chi.Router) {
		r.Post("/", handlers.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.Get)
			r.Delete("/", handlers.Destroy)
			r.Post("/turns", handlers.PlayRound)
			r.Post("/reset", handlers.ResetRound)
		})
	})

	return router
}

// Start - serves handler on port until ctx is canceled.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx) //nolint: contextcheck // ctx is already canceled here
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
