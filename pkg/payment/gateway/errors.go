package gateway

import "errors"

var (
	// ErrInvalidRequest is returned when the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")

	// ErrUnauthorized is returned when the API key is invalid
	ErrUnauthorized = errors.New("unauthorized: invalid API key")

	// ErrCapabilityUpdateFailed is returned when the platform rejects a capability change
	ErrCapabilityUpdateFailed = errors.New("capability update failed")
)
