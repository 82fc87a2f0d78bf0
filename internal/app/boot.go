package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fruito-api/internal/core/config"
	"fruito-api/internal/core/logger"
	"fruito-api/internal/core/obs"
)

// Boot 读配置、建日志、开 tracing、连存储；返回的 cleanup 关闭全部资源
func Boot(ctx context.Context, configPath string) (*App, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	l, syncLog := logger.FromConfig(cfg.Log)

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(l.Named("gin"), zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(l.Named("gin"), zapcore.ErrorLevel)
	undoStd := logger.RedirectStdLog(l, zapcore.InfoLevel)

	shutdownTracer, err := obs.InitTracer(ctx, cfg.Trace.Endpoint, cfg.Trace.ServiceName, cfg.App.Env)
	if err != nil {
		l.Warn("tracing disabled", zap.Error(err))
		shutdownTracer = func(context.Context) error { return nil }
	}

	a, err := New(ctx, cfg, l)
	if err != nil {
		_ = shutdownTracer(ctx)
		undoStd()
		syncLog()
		return nil, nil, fmt.Errorf("init app: %w", err)
	}

	cleanup := func() {
		if err := a.Close(); err != nil {
			l.Warn("close resources", zap.Error(err))
		}
		_ = shutdownTracer(context.Background())
		undoStd()
		syncLog()
	}
	return a, cleanup, nil
}
