package repository

import "errors"

// Sentinel errors returned by every store backend.
var (
	ErrNotFound  = errors.New("entity not found")
	ErrConflict  = errors.New("entity already exists")
	ErrInvalidID = errors.New("entity id is required")
	ErrClosed    = errors.New("store is closed")
)
