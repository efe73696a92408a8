package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/edgecraft/backend/internal/auth"
	"github.com/edgecraft/backend/internal/config"
	"github.com/edgecraft/backend/internal/handler"
	chathandler "github.com/edgecraft/backend/internal/handler/chat"
	"github.com/edgecraft/backend/internal/model/reflection"
	"github.com/edgecraft/backend/internal/model/scenario"
	aiservice "github.com/edgecraft/backend/internal/service/ai"
	chatservice "github.com/edgecraft/backend/internal/service/chat"
	reflectionservice "github.com/edgecraft/backend/internal/service/reflection"
	workshopservice "github.com/edgecraft/backend/internal/service/workshop"
	"github.com/edgecraft/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	var st store.Store
	if cfg.Database.Enabled() {
		gs, err := store.NewGormStore(cfg.Database.DSN, logger)
		if err != nil {
			logger.Fatal("failed to connect to document store", zap.Error(err))
		}
		st = gs
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory store")
		st = store.NewMemoryStore()
	}

	var revoker auth.TokenRevoker
	if cfg.Auth.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Auth.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		revoker = auth.NewRedisTokenRevoker(client)
		logger.Info("redis token revocation enabled", zap.String("addr", cfg.Auth.RedisAddr))
	} else {
		revoker = auth.NewMemoryTokenRevoker()
	}
	sessions := auth.NewSessionStore(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, revoker)

	scenarios := scenario.NewMemoryStore(scenario.Seed())
	chatSvc := chatservice.NewService(scenarios)
	reflectionSvc := reflectionservice.NewService(st, reflection.QuestionPool(), logger)

	var aiSvc *aiservice.Service
	if cfg.AI.Enabled() {
		aiSvc, err = aiservice.NewService(ctx, cfg.AI, logger)
		if err != nil {
			logger.Warn("failed to initialize AI service, continuing without generation", zap.Error(err))
			aiSvc = nil
		} else {
			logger.Info("AI service initialized", zap.String("model", cfg.AI.Model))
		}
	} else {
		logger.Warn("model credentials not configured, AI generation disabled")
	}

	var generator workshopservice.TextGenerator
	var conversationalist chathandler.Conversationalist
	if aiSvc != nil {
		generator = aiSvc
		conversationalist = aiSvc
	}
	workshopSvc := workshopservice.NewService(st, generator, cfg.AI.StrategyMaxTokens, cfg.AI.TaglineMaxTokens, logger)

	router := handler.NewRouter(handler.Deps{
		Store:      st,
		Sessions:   sessions,
		Scenarios:  scenarios,
		Chat:       chatSvc,
		Reflection: reflectionSvc,
		Workshop:   workshopSvc,
		AI:         conversationalist,
		Log:        logger,
	})

	startServer(ctx, cfg.Server, router, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("edgecraft backend listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
