package hitbox

import "errors"

var (
	// ErrJobRunning rejects a decompose request while another job is
	// active. The caller must wait for the running job or cancel it.
	ErrJobRunning = errors.New("a decomposition job is already running")

	// ErrCancelled marks cooperative cancellation. It is a normal
	// terminal state, not a failure; no partial hitbox set is retained.
	ErrCancelled = errors.New("decomposition cancelled")

	// ErrUnknownTier is returned for tier names outside the closed set.
	ErrUnknownTier = errors.New("unknown precision tier")

	// ErrNoPoints is returned when the partitioner receives an empty
	// point set. Callers validate the mesh first, so reaching this
	// indicates a programming error upstream.
	ErrNoPoints = errors.New("no points to partition")
)
