package chime

import (
	"errors"
	"fmt"
)

// Sentinel errors. Match them with errors.Is.
var (
	// ErrDependencyMissing reports that no HDF5 storage backend is available.
	ErrDependencyMissing = errors.New("chime: hdf5 storage backend not available")

	// ErrFileOpen reports a missing, unreadable or malformed CHIME container.
	// The storage error stays in the chain.
	ErrFileOpen = errors.New("chime: cannot open recording")

	// ErrInvalidRange reports an out-of-bounds frame window or unknown channel id.
	ErrInvalidRange = errors.New("chime: invalid trace request")

	// ErrClosed reports a query on a released recording.
	ErrClosed = errors.New("chime: recording is closed")

	// ErrInvalidConfig reports a bad construction option.
	ErrInvalidConfig = errors.New("chime: invalid configuration")
)

// RangeError describes a rejected trace request argument.
type RangeError struct {
	Param  string // "start_frame", "end_frame" or "channel_id"
	Value  int
	Limit  int
	Reason string
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("chime: invalid %s %d: %s (limit %d)", e.Param, e.Value, e.Reason, e.Limit)
}

// Is makes errors.Is(err, ErrInvalidRange) true for every RangeError.
func (e *RangeError) Is(target error) bool {
	return target == ErrInvalidRange
}
