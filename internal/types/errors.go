package types

import "errors"

// Sentinel domain errors. Handlers map these onto HTTP statuses; anything
// else that bubbles up is treated as an internal failure and its detail is
// written to the log only.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
	ErrInternal        = errors.New("internal error")
)
