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
	"github.com/rs/zerolog"

	"github.com/farmbot-assistant/backend/internal/config"
	"github.com/farmbot-assistant/backend/internal/handler"
	"github.com/farmbot-assistant/backend/internal/model/assistant"
	"github.com/farmbot-assistant/backend/internal/service/reply"
	"github.com/farmbot-assistant/backend/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLogger := utils.SetupLogger("info", false, nil)
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := utils.SetupLogger(cfg.Log.Level, cfg.Log.Pretty, nil)
	if envErr != nil {
		logger.Warn().Err(envErr).Msg("no .env file loaded, continuing with system environment variables only")
	}

	backend, err := reply.NewBackend(ctx, cfg.Reply, cfg.AI)
	if err != nil {
		logger.Fatal().Err(err).Str("mode", string(cfg.Reply.Mode)).Msg("failed to initialize reply backend")
	}
	logger.Info().Str("mode", string(cfg.Reply.Mode)).Str("upstream", cfg.Reply.Endpoint()).Msg("reply backend initialized")

	router := handler.NewRouter(handler.Deps{
		Logger:   logger,
		Profiles: assistant.NewMemoryStore(assistant.Seed()),
		Backend:  backend,
		Resolver: reply.ResolverFor(backend, cfg.Reply.Mode),
		Reply:    cfg.Reply,
	})

	startServer(ctx, logger, cfg.Server, router)
}

func startServer(ctx context.Context, logger zerolog.Logger, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info().Str("addr", serverCfg.Addr).Msg("FarmBot backend listening")
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

// runServer 启动服务并在 ctx 取消时优雅关闭
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
