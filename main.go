package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/viper"
)

const release = "fin-dashboard@2.0.0"

func main() {
	os.Exit(run())
}

// run returns the process exit code: 0 on success, 1 on any failure.
func run() (code int) {
	env, err := loadEnv(viper.New())
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		return 1
	}
	cfg := NewConfig(env)

	logger := newLogger(os.Stdout, env.LogLevel)
	slog.SetDefault(logger)

	enabled, err := initSentry(env.SentryDSN, release)
	if err != nil {
		logger.Error("sentry initialization failed", "error", err)
		return 1
	}
	if enabled {
		defer sentry.Flush(cfg.sentryFlushTimeout)
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic", "recover", r, "stack", string(debug.Stack()))
			sentry.CurrentHub().Recover(r)
			code = 1
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(cfg, logger)
	if err != nil {
		logger.Error("failed to start fin-dashboard", "error", err)
		return 1
	}

	if err := app.Run(ctx); err != nil {
		return 1
	}

	return 0
}

// newLogger creates a text logger with the given level name. Unknown names fall back to info.
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
