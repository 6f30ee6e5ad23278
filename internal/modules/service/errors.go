package service

import "errors"

var (
	// ErrInsufficientCredits refuses a turn before any persistence happens.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrQuotaExceeded refuses project creation at/over the tier limit. It is
	// distinct from a credit shortfall so the caller can map it to an upgrade
	// prompt.
	ErrQuotaExceeded = errors.New("project quota exceeded")

	// ErrTurnInFlight means another turn for the same project holds the lock.
	ErrTurnInFlight = errors.New("a turn is already in flight for this project")

	ErrEmptyMessage = errors.New("message content is empty")
)
