// Package utils holds small helpers shared by the chime packages.
package utils

import "fmt"

// StorageError records which step on which CHIME dataset failed.
// Dataset is empty for file-level steps such as open and create.
type StorageError struct {
	Op      string // "open", "create", "close", "describe", "read", "slice", "write"
	Dataset string // "sig", "mapping" or ""
	Err     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Dataset == "" {
		return fmt.Sprintf("hdf5 %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("hdf5 %s %q: %v", e.Op, e.Dataset, e.Err)
}

// Unwrap provides compatibility with errors.Is and errors.As.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// FileError wraps a failed file-level step. A nil err yields nil.
func FileError(op string, err error) error {
	return DatasetError(op, "", err)
}

// DatasetError wraps a failed step on one dataset. A nil err yields nil.
func DatasetError(op, dataset string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Dataset: dataset, Err: err}
}
