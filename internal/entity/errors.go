package entity

import (
	"errors"
	"fmt"
)

// Expected domain outcomes. Handlers map these to HTTP statuses; they are
// never logged as errors.
var (
	ErrValidation          = errors.New("validation failed")
	ErrGuardViolation      = errors.New("invalid status transition")
	ErrNotAvailable        = errors.New("listing not available")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
)

func ValidationError(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}

func GuardError(from DonationStatus, action string) error {
	return fmt.Errorf("%w: cannot %s donation in status %q", ErrGuardViolation, action, from)
}
