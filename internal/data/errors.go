package data

import "errors"

var (
	// ErrRecordNotFound is returned when a lookup matches no row.
	ErrRecordNotFound = errors.New("record not found")

	// ErrConflict is returned when an update carries a stale revision. The
	// caller holds an outdated snapshot and must re-read before retrying.
	ErrConflict = errors.New("revision conflict")
)
