package sms

import (
	"errors"
	"fmt"
)

// TransientError marks a failure worth retrying: provider 429/5xx or a
// transport-level fault. Everything else is permanent.
type TransientError struct {
	Status int
	Msg    string
	Err    error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("sms gateway: provider returned status %d: %s", e.Status, e.Msg)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err may succeed on retry.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
