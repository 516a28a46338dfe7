package service

import "errors"

var (
	// ErrNotFound is returned when a referenced user, profile, entry or log
	// does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrValidation is returned when caller-supplied input is structurally
	// invalid. Nothing is persisted when it fires.
	ErrValidation = errors.New("invalid input")

	// ErrGatewayUnavailable is returned when the model provider call failed
	// or timed out. The conversation survives it; callers turn it into an
	// apologetic reply.
	ErrGatewayUnavailable = errors.New("model gateway unavailable")
)
