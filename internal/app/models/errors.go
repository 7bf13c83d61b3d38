package models

import "errors"

// Domain specific errors shared across handlers, services and repositories.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
	ErrBadRequest      = errors.New("bad request")
	ErrValidation      = errors.New("validation failed")

	// AI pipeline errors. ErrUpstreamGateway means the completion call itself
	// failed (transport or non-2xx status); ErrUpstreamPayload means the call
	// succeeded but the content could not be used as-is.
	ErrUpstreamGateway = errors.New("upstream completion service failure")
	ErrUpstreamPayload = errors.New("upstream returned an invalid payload")
)
