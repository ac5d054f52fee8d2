package validation

import (
	"strings"

	"github.com/dmitrijs2005/penguindb/internal/common"
)

// ValidationError carries every field message collected during validation so
// the HTTP layer can return them all at once.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Is makes errors.Is(err, common.ErrorValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == common.ErrorValidation
}
