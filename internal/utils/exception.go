package utils

import (
	"github.com/getsentry/sentry-go"
	"github.com/samgozman/fin-dashboard/pkg/errlvl"
)

type sentryHub interface {
	CaptureException(exception error) *sentry.EventID
	WithScope(callback func(scope *sentry.Scope))
}

// CaptureSentryException captures err with its exception type renamed to name.
// Sentry names exceptions after the Go error type (*errors.joinError and the like),
// which says nothing about where the failure happened.
// The event level follows the errlvl severity of err.
func CaptureSentryException(name string, hub sentryHub, err error) {
	level := sentryLevel(err)
	hub.WithScope(func(scope *sentry.Scope) {
		scope.AddEventProcessor(func(e *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			// the last exception is the outermost error
			if n := len(e.Exception); n > 0 {
				e.Exception[n-1].Type = name
			}
			e.Level = level
			return e
		})
		hub.CaptureException(err)
	})
}

// sentryLevel maps the most severe errlvl level of err onto a Sentry level.
func sentryLevel(err error) sentry.Level {
	switch errlvl.Of(err) {
	case errlvl.FATAL:
		return sentry.LevelFatal
	case errlvl.WARN:
		return sentry.LevelWarning
	case errlvl.INFO:
		return sentry.LevelInfo
	case errlvl.DEBUG:
		return sentry.LevelDebug
	default:
		return sentry.LevelError
	}
}
