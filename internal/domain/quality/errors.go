package quality

import "errors"

// Sentinel errors returned by the report lifecycle.
var (
	ErrInvalidTransition = errors.New("invalid report transition")
	ErrUnknownAction     = errors.New("unknown report action")
	ErrMissingScore      = errors.New("report needs an lqa or qs score before leaving draft")
	ErrCommentsRequired  = errors.New("comments are required")
	ErrForbidden         = errors.New("actor may not perform this action")
	ErrScoreOutOfRange   = errors.New("score out of range")
	ErrInvalidSettings   = errors.New("invalid quality settings")
)
