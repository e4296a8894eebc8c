package storefront

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound signals a mutation target id that is absent from the
	// collection. Removals treat it as a no-op; updates surface it.
	ErrNotFound = errors.New("storefront: record not found")

	errMissingStore   = errors.New("storefront: collection store not configured")
	errMissingFetcher = errors.New("storefront: page fetcher not configured")
)

// ValidationError reports which draft fields failed validation. The snapshot
// is never mutated when one is returned.
type ValidationError struct {
	Entity string
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("storefront: invalid %s: %s", e.Entity, strings.Join(e.Fields, ", "))
}

// IsValidation reports whether err is a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
