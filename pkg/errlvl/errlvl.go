package errlvl

import (
	"errors"
	"fmt"
)

type Lvl uint8

const (
	DEBUG Lvl = iota + 1
	INFO
	WARN
	ERROR
	FATAL
)

// String returns the level name as used in the error prefix.
func (l Lvl) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ErrorLevel is a type that represents the severity of an error in the application.
//
// A fetch that fell back to a default is a WARN, a broken snapshot build is FATAL.
type ErrorLevel error

var (
	ErrDebug ErrorLevel = errors.New("[DEBUG]")
	ErrInfo  ErrorLevel = errors.New("[INFO]")
	ErrWarn  ErrorLevel = errors.New("[WARN]")
	ErrError ErrorLevel = errors.New("[ERROR]")
	ErrFatal ErrorLevel = errors.New("[FATAL]")
)

// levels maps every level to its marker, most severe first.
var levels = []struct {
	lvl Lvl
	err ErrorLevel
}{
	{FATAL, ErrFatal},
	{ERROR, ErrError},
	{WARN, ErrWarn},
	{INFO, ErrInfo},
	{DEBUG, ErrDebug},
}

// Wrap wraps the given error with the given level.
// Errors that already carry a level are returned unchanged.
func Wrap(err error, level Lvl) error {
	if err == nil || hasLevel(err) {
		return err
	}

	for _, l := range levels {
		if l.lvl == level {
			return fmt.Errorf("%w %w", l.err, err)
		}
	}

	return fmt.Errorf("%w %w", ErrError, err)
}

// Of returns the most severe level found in the error chain.
// Errors without a level are treated as ERROR, nil as DEBUG.
func Of(err error) Lvl {
	if err == nil {
		return DEBUG
	}

	for _, l := range levels {
		if errors.Is(err, l.err) {
			return l.lvl
		}
	}

	return ERROR
}

// hasLevel checks if the given error has a level set already.
func hasLevel(err error) bool {
	for _, l := range levels {
		if errors.Is(err, l.err) {
			return true
		}
	}
	return false
}
