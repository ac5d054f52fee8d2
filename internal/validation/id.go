package validation

import (
	"github.com/google/uuid"

	"github.com/dmitrijs2005/penguindb/internal/common"
)

// ValidateID checks that a path or query identifier is a well-formed UUID
// before any storage lookup is attempted. Malformed identifiers fail fast
// with common.ErrorInvalidID instead of propagating a storage error.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorInvalidID
	}
	return nil
}
