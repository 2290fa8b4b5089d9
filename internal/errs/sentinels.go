// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

var (
	// ErrBadRequest indicates a client-correctable request error (bad JSON, unknown action, invalid fields).
	ErrBadRequest = errors.New("bad request")

	// ErrPanelConfig indicates missing panel deployment configuration.
	ErrPanelConfig = errors.New("missing panel configuration")

	// ErrPanel indicates a failed panel call (login failure, non-2xx status, transport error).
	ErrPanel = errors.New("panel request failed")

	// ErrNotFound indicates the requested client record does not exist on the inbound.
	ErrNotFound = errors.New("not found")
)
