package archivist

import (
	"errors"

	"github.com/samgozman/fin-dashboard/pkg/errlvl"
)

// archivistError is a service-level error type.
type archivistError error

var (
	errEmptyPath       archivistError = errors.New("output path is empty")
	errNilSnapshot     archivistError = errors.New("snapshot is nil")
	errEncode          archivistError = errors.New("failed to encode snapshot")
	errCreateDir       archivistError = errors.New("failed to create output directory")
	errWriteTemp       archivistError = errors.New("failed to write temporary file")
	errReplace         archivistError = errors.New("failed to replace output file")
	errSaveInterrupted archivistError = errors.New("save interrupted")
)

// newError creates a wrapped error instance with the given errors.
func newError(lvl errlvl.Lvl, genericErr archivistError, err error) error {
	var wrappedErr error
	if err != nil {
		wrappedErr = errlvl.Wrap(errors.Join(genericErr, err), lvl)
	} else {
		wrappedErr = errlvl.Wrap(genericErr, lvl)
	}

	return wrappedErr
}
