package services

import "errors"

// Domain errors. Callers discriminate with errors.Is; handlers map them to
// HTTP statuses in pkg/response.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrExpiredInvitation = errors.New("invitation expired")
	ErrAlreadyAccepted   = errors.New("invitation already accepted")
	ErrForbidden         = errors.New("forbidden")
)
