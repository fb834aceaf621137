package workflow

import "errors"

// Sentinel errors callers branch on with errors.Is. Anything else
// escaping this package is a storage failure wrapped with context; the
// enclosing transaction has already been rolled back by the time the
// caller sees it.
var (
	// ErrNotFound: the job number has no row.
	ErrNotFound = errors.New("job not found")

	// ErrTerminalState: plates are checked, the job accepts no further
	// status changes.
	ErrTerminalState = errors.New("cannot change status after plates are Ready for Press")

	// ErrCapacity: the daily job-number sequence for this class is
	// exhausted (99 per day).
	ErrCapacity = errors.New("maximum daily job limit (99) reached")

	// ErrValidation: the request is malformed or the transition is not
	// permitted for the acting role; rejected before any write.
	ErrValidation = errors.New("invalid request")
)
