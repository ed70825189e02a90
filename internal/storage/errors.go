package storage

import "fmt"

// StorageError wraps a failure reading from or writing to the row store
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
