package queue

import "errors"

var (
	// ErrFull is returned when capacity jobs are already waiting; the API maps it to 429.
	ErrFull = errors.New("job queue is full")
	// ErrClosed is returned by Enqueue after Close.
	ErrClosed = errors.New("job queue is closed")
)
