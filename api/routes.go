package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-sync/internal/app"
	"github.com/carson-networks/ledger-sync/internal/handlers/v1/entry"
	"github.com/carson-networks/ledger-sync/internal/handlers/v1/status"
	"github.com/carson-networks/ledger-sync/internal/logging"
)

type Rest struct {
	Logger *logrus.Logger
	Port   string
	App    *app.App
}

// Router builds the HTTP routes.
func (r *Rest) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	statusHandler := status.NewHandler(r.App.Storage)
	router.Get("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	router.Group(func(v1 chi.Router) {
		v1.Use(logging.Middleware(r.Logger))

		humaAPI := humachi.New(v1, huma.DefaultConfig("Ledger Sync", "1.0.0"))
		entry.NewListEntriesHandler(r.App.Service.Entry).Register(humaAPI)
		entry.NewSearchEntriesHandler(r.App.Service.Entry).Register(humaAPI)
		entry.NewMonthHandler(r.App).Register(humaAPI)
		entry.NewSaveEntryHandler(r.App).Register(humaAPI)
		entry.NewSettleHandler(r.App).Register(humaAPI)
		entry.NewDeleteEntryHandler(r.App).Register(humaAPI)
	})

	return router
}

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (r *Rest) Serve(ctx context.Context) {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Router(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			r.Logger.WithError(err).Error("HttpServer.Serve.shutdown error")
		}
	}()

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}
