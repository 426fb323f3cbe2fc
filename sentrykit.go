package main

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/samgozman/fin-dashboard/internal/utils"
)

// SentryKit is a wrapper around sentry-go SDK that provides some convenience methods for logging and tracing
type SentryKit struct {
	log *slog.Logger
}

// initSentry enables Sentry when dsn is set. Returns false when monitoring stays disabled.
func initSentry(dsn, release string) (bool, error) {
	if dsn == "" {
		return false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Release:          release,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

// GetHub returns a sentry hub from the context, or a clone of the current hub if it's not present
func (s *SentryKit) GetHub(ctx context.Context) *sentry.Hub {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	return hub
}

// AddBreadcrumb adds a breadcrumb to the given hub with the given category, message and level
func (s *SentryKit) AddBreadcrumb(hub *sentry.Hub, c, m string, l sentry.Level) {
	hub.AddBreadcrumb(&sentry.Breadcrumb{
		Category: c,
		Message:  m,
		Level:    l,
	}, nil)
}

// CaptureError logs the error and captures it in the given hub under the given exception name
func (s *SentryKit) CaptureError(hub *sentry.Hub, name, m string, err error) {
	s.log.Error(m, "error", err)
	utils.CaptureSentryException(name, hub, err)
}
