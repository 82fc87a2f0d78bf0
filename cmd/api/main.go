package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"fruito-api/internal/app"
	"fruito-api/internal/core/server"
)

func main() {
	_ = godotenv.Load()

	a, cleanup, err := app.Boot(context.Background(), os.Getenv("CONFIG_PATH"))
	if err != nil {
		zap.NewExample().Fatal("boot failed", zap.Error(err))
	}
	defer cleanup()
	log, cfg := a.Log, a.Cfg

	// 建表 + 管理员对齐
	bctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := a.Bootstrap(bctx); err != nil {
		cancel()
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	cancel()

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, a.APIEngine(),
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	baseURL := server.HumanURL(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	log.Info("fruito api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("diag", baseURL+"/test"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("fruito api start FAILED", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	_ = srv.Shutdown(ctx)
	log.Info("fruito api stopped gracefully")
}
