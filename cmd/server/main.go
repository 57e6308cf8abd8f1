package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"agent-settings-api/internal/app"
	"agent-settings-api/internal/auth"
	"agent-settings-api/internal/config"
	"agent-settings-api/internal/database"
	"agent-settings-api/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	gin.SetMode(cfg.Server.GinMode)
	auth.Configure(cfg.JWT)

	if err := database.InitDB(cfg.DB.Path); err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	logger.WithField("path", cfg.DB.Path).Info("Database connected and migrated")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg, database.GetDB(), logger, nil)
	janitorsDone := a.StartJanitors(ctx, cfg.Cache.SweepInterval)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":      cfg.Server.Port,
			"cache_ttl": cfg.Cache.TTL.String(),
		}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
	<-janitorsDone
}
