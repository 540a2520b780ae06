package main

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Domain errors. Services return these (usually wrapped with detail via
// fmt.Errorf("%w: ...")); handlers map them to HTTP status codes in errStatus.
var (
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("not found")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrDuplicateRegistration = errors.New("already registered for this event")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAlreadyPrivileged     = errors.New("user already has an elevated role")
	ErrStore                 = errors.New("storage unavailable")
)

// storeErr wraps an infrastructure failure (including context deadline
// expiry) as a retryable ErrStore.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStore, err)
}

// lookupErr converts a gorm read error into the domain taxonomy: record
// absence becomes ErrNotFound for the named entity, anything else ErrStore.
func lookupErr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, entity)
	}
	return storeErr(err)
}
