package snapshot

import (
	"errors"
	"fmt"

	"github.com/samgozman/fin-dashboard/pkg/errlvl"
)

var (
	// ErrBuild is the generic error returned by Builder.Build. Every build failure wraps it.
	ErrBuild = errors.New("snapshot build failed")
	// ErrMalformedComponent is wrapped by all component validation failures.
	ErrMalformedComponent = errors.New("malformed component score")

	errScoreNotNumeric   = errors.New("score is not numeric")
	errScoreNotInteger   = errors.New("score is not an integer")
	errScoreOutOfRange   = fmt.Errorf("score is out of range %d-%d", MinScore, MaxScore)
	errMissingComponent  = errors.New("component is missing")
	errUnknownComponent  = errors.New("unknown component")
	errMalformedPrevious = errors.New("previous score is not numeric")
	errUnknownThemesKey  = errors.New("unknown themes key")
)

// componentError describes which component failed validation and why.
type componentError struct {
	component Component
	value     any
	err       error
}

func (e *componentError) Error() string {
	if e.value != nil {
		return fmt.Sprintf("%s: %s (value: %v)", e.component, e.err, e.value)
	}
	return fmt.Sprintf("%s: %s", e.component, e.err)
}

func (e *componentError) Unwrap() []error {
	return []error{ErrMalformedComponent, e.err}
}

// newError creates a wrapped build error with the given errors.
func newError(lvl errlvl.Lvl, err error) error {
	return errlvl.Wrap(errors.Join(ErrBuild, err), lvl)
}
