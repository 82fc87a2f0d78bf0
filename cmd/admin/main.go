package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fruito-api/internal/app"
	"fruito-api/internal/core/server"
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "fruito-admin",
		Short:         "Fruito admin server and maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "config file path")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the admin HTTP server (/admin/v1)",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context(), configPath)
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Reconcile the reserved admin account",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), configPath, func(ctx context.Context, a *app.App) error {
					return a.Seeder.Run(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create tables / indexes for the configured store",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), configPath, func(ctx context.Context, a *app.App) error {
					if err := a.Stores.Migrate(ctx); err != nil {
						return err
					}
					a.Log.Info("migrate done", zap.String("driver", a.Cfg.DB.Driver))
					return nil
				})
			},
		},
	)
	return root
}

func withApp(ctx context.Context, configPath string, fn func(context.Context, *app.App) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, cleanup, err := app.Boot(ctx, configPath)
	if err != nil {
		return err
	}
	defer cleanup()
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	return fn(ctx, a)
}

func serve(ctx context.Context, configPath string) error {
	return withApp(ctx, configPath, func(ctx context.Context, a *app.App) error {
		if err := a.Bootstrap(ctx); err != nil {
			return err
		}
		cfg, log := a.Cfg, a.Log
		addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
		srv := server.BuildServer(addr, a.AdminEngine(), 5*time.Second, 10*time.Second, 60*time.Second)

		baseURL := server.HumanURL(cfg.App.Admin.Host, cfg.App.Admin.Port)
		log.Info("admin api starting",
			zap.String("addr", addr),
			zap.String("health", baseURL+"/health"),
			zap.String("admin_v1", baseURL+"/admin/v1"),
		)

		errCh := make(chan error, 1)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return fmt.Errorf("admin api: %w", err)
		case <-quit:
		}
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
		log.Info("admin api stopped gracefully")
		return nil
	})
}
