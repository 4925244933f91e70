package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrAuthRequired means no session exists. Protected calls must not be
	// attempted; the user is told to sign in instead.
	ErrAuthRequired = errors.New("sign in required")

	// ErrVerificationFailed covers every terminal checkout failure: missing
	// confirmation parameters, a failed widget confirmation, or a verify
	// endpoint that errored or answered success=false.
	ErrVerificationFailed = errors.New("payment verification failed")
)

// RequestError is a non-2xx answer from the backend. Detail carries the
// server-supplied message when one was parseable.
type RequestError struct {
	Status int
	Detail string
}

func (e *RequestError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("request failed: status %d", e.Status)
	}
	return fmt.Sprintf("request failed: status %d: %s", e.Status, e.Detail)
}

// AlreadyInDesiredState reports the idempotent-conflict answer to a toggle:
// the backend already holds the state the optimistic update produced, so the
// update is kept and the notice is informational.
func (e *RequestError) AlreadyInDesiredState() bool {
	return e.Status == http.StatusConflict && strings.Contains(strings.ToLower(e.Detail), "already")
}

// ValidationError rejects form input client-side; it never leaves the form
// component and no request is issued for it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
