package crypto

import (
	"errors"
	"fmt"

	"github.com/samgozman/fin-dashboard/pkg/errlvl"
)

var (
	errUnknownProvider = errors.New("unknown crypto provider")
	errEmptyResponse   = errors.New("provider returned no prices")
)

func newError(provider Provider, err error) error {
	return errlvl.Wrap(fmt.Errorf("%s: %w", provider, err), errlvl.WARN)
}
