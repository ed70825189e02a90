package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a query needs at least one reading and the store is empty.
var ErrNotFound = errors.New("no data available")

// ValidationError reports a required field missing from an incoming reading.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Missing required field: %s", e.Field)
}
