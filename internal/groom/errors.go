package groom

import (
	"errors"
	"fmt"

	"github.com/nhle/mailgroom/internal/pipeline"
)

// InvalidRecipientsError is returned by Clean under the abort-on-invalid
// policy: at least one address failed validation, so the run was refused
// before any step executed and no list was changed.
type InvalidRecipientsError struct {
	Invalid []pipeline.Outcome
}

func (e *InvalidRecipientsError) Error() string {
	return fmt.Sprintf(
		"%d invalid recipient(s) present; aborting without changes",
		len(e.Invalid),
	)
}

// IsInvalidRecipients reports whether err (or any error in its chain)
// is an InvalidRecipientsError.
func IsInvalidRecipients(err error) bool {
	var invalidErr *InvalidRecipientsError
	return errors.As(err, &invalidErr)
}
