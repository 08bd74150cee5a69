package domain

import "errors"

// ErrHelperNotFound is returned when the companion query helper is not installed.
var ErrHelperNotFound = errors.New("companion helper not found")

// ErrUnrecognizedState is returned when a device reports a value the controller cannot interpret.
var ErrUnrecognizedState = errors.New("unrecognized device state")

// ErrRetriesExhausted is returned when a blocking probe gives up after its attempt budget.
var ErrRetriesExhausted = errors.New("probe retries exhausted")

// ErrSessionClosed is returned when a display session is used after Close.
var ErrSessionClosed = errors.New("display session closed")

// ErrLockHeld is returned when another controller instance holds the lease.
var ErrLockHeld = errors.New("controller lease held by another instance")
