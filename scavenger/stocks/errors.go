package stocks

import (
	"errors"
	"fmt"

	"github.com/samgozman/fin-dashboard/pkg/errlvl"
)

var (
	errMissingAPIKey = errors.New("alpha vantage api key is not set")
	errNoQuote       = errors.New("response has no global quote")
	errBadPrice      = errors.New("quote price is not a decimal")
)

// newError wraps a quote failure. Quote failures are warnings: the index falls back to a reference price.
func newError(symbol string, err error) error {
	return errlvl.Wrap(fmt.Errorf("quote %s: %w", symbol, err), errlvl.WARN)
}
