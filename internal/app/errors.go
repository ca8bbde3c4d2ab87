package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInFlight       = errors.New("request with this idempotency key is still in flight")
	ErrNotStarted     = errors.New("service not started")
	ErrUnknownJobKind = errors.New("unknown job kind")
)
