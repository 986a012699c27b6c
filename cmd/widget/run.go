package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/farmbot-assistant/backend/internal/config"
	"github.com/farmbot-assistant/backend/internal/model/assistant"
	chatservice "github.com/farmbot-assistant/backend/internal/service/chat"
	"github.com/farmbot-assistant/backend/internal/service/reply"
	"github.com/farmbot-assistant/backend/internal/tui"
	"github.com/farmbot-assistant/backend/pkg/utils"
)

func run(ctx context.Context, opts options) error {
	envErr := godotenv.Load()

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := utils.SetupLogger(cfg.Log.Level, false, logOut)
	if envErr != nil {
		logger.Warn().Err(envErr).Msg("no .env file loaded, continuing with system environment variables only")
	}

	profile, err := assistant.Resolve(assistant.NewMemoryStore(assistant.Seed()), cfg.Reply.Profile)
	if err != nil {
		return err
	}

	resolver, err := reply.New(ctx, cfg.Reply, cfg.AI)
	if err != nil {
		return err
	}
	logger.Info().Str("mode", string(cfg.Reply.Mode)).Str("profile", profile.ID).Msg("widget starting")

	screen := chatservice.NewScreen(profile, resolver)
	if _, err := tea.NewProgram(tui.New(ctx, screen), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run terminal widget: %w", err)
	}
	return nil
}

// loadConfig reads the environment, applies flag overrides and only then validates.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Parse()
	if err != nil {
		return nil, err
	}
	if err := applyOptions(cfg, opts); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyOptions lets command-line flags override the environment.
func applyOptions(cfg *config.Config, opts options) error {
	if opts.mode != "" {
		mode, err := config.ParseMode(opts.mode)
		if err != nil {
			return err
		}
		cfg.Reply.Mode = mode
	}
	if opts.endpoint != "" {
		switch cfg.Reply.Mode {
		case config.ModeGradio:
			cfg.Reply.GradioURL = opts.endpoint
		case config.ModeBackend:
			cfg.Reply.BackendURL = opts.endpoint
		default:
			return fmt.Errorf("--endpoint has no effect in %s mode", cfg.Reply.Mode)
		}
	}
	if opts.profile != "" {
		cfg.Reply.Profile = opts.profile
	}
	return nil
}
