package refdata

import (
	"errors"

	"github.com/samgozman/fin-dashboard/pkg/errlvl"
)

var (
	errReadFile          = errors.New("failed to read reference data file")
	errDecode            = errors.New("failed to decode reference data")
	errValidation        = errors.New("reference data validation failed")
	errUnknownComponent  = errors.New("unknown gici component")
	errUnknownDomain     = errors.New("fallback for unknown domain")
	errDuplicateIndexKey = errors.New("duplicate index key")
)

// newError creates a wrapped error instance with the given errors.
func newError(lvl errlvl.Lvl, genericErr error, err error) error {
	if err != nil {
		return errlvl.Wrap(errors.Join(genericErr, err), lvl)
	}
	return errlvl.Wrap(genericErr, lvl)
}
