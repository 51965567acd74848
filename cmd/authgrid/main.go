package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/authgrid/authgrid/internal/access"
	"github.com/authgrid/authgrid/internal/accounts"
	"github.com/authgrid/authgrid/internal/app"
	"github.com/authgrid/authgrid/internal/auth"
	"github.com/authgrid/authgrid/internal/orders"
	"github.com/authgrid/authgrid/internal/platform/cache"
	"github.com/authgrid/authgrid/internal/platform/db"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	var throttle *auth.LoginThrottle
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// Login throttling degrades to open when Redis is unreachable.
		logger.Warn("redis unavailable, login throttle disabled", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		throttle = auth.NewLoginThrottle(redisClient, logger, cfg.LoginAttemptLimit, cfg.LoginAttemptWindow)
	}

	codec := auth.NewTokenCodec(auth.TokenConfig{Secret: cfg.JWTSecret, TTL: cfg.JWTTTL})
	sessionService := auth.NewService(auth.NewRepository(pool), codec)
	authMW := auth.Middleware{Service: sessionService, Logger: logger}

	accessRepo := access.NewRepository(pool)
	accessService := access.NewService(accessRepo)
	engine := access.NewEngine(accessRepo)
	accessMW := access.Middleware{Engine: engine, Logger: logger}
	accessHandler := access.NewHandler(logger, accessService, accessMW)

	accountsRepo := accounts.NewRepository(pool)
	accountsService := accounts.NewService(accountsRepo, accessService, sessionService)
	accountsHandler := accounts.NewHandler(logger, accountsService, sessionService, throttle, authMW)

	ordersHandler := orders.NewHandler(accessMW)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AuthMiddleware:  authMW,
		AccountsHandler: accountsHandler,
		AccessHandler:   accessHandler,
		OrdersHandler:   ordersHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
