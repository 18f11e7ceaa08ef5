package mailbox

import (
	"errors"
	"fmt"
	"time"
)

// Draft holds the recipient-relevant view of one draft message.
type Draft struct {
	UID     uint32
	Subject string
	Date    time.Time

	// To, Cc, Bcc are the recipient strings exactly as they appear in
	// the draft's headers, in "address" or "Name <address>" form.
	To  []string
	Cc  []string
	Bcc []string
}

// AuthError indicates that authentication failed for the IMAP account.
type AuthError struct {
	Username string
	Message  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.Username, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
