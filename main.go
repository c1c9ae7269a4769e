package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zeroshade/marinaapi/internal/config"
	"github.com/zeroshade/marinaapi/internal/logging"
	"github.com/zeroshade/marinaapi/internal/metrics"
	"github.com/zeroshade/marinaapi/internal/store"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// no logger yet, the level is part of the config
		logging.New("info").Fatal("config", zap.Error(err))
	}

	logger := logging.New(cfg.LogLevel)
	defer logger.Sync()
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer repo.Close()

	router := newRouter(repo, logger, metrics.New(), routerOptions{
		cascadeBoatDelete: cfg.CascadeBoatDelete,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("Server listening", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreDriver))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("listen", zap.Error(err))
	}
}
