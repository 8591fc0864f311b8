package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownStore indicates a store name that is not configured.
	ErrUnknownStore = errors.New("unknown store")

	// ErrSchemaVersion indicates the on-disk database schema is newer
	// than this build supports, or older with no migration path.
	// The store refuses to open rather than risk corrupting data.
	ErrSchemaVersion = errors.New("unsupported schema version")
)

// StoreIOError is a structural storage failure: the underlying database
// is unreadable, unwritable or corrupted. It is fatal for the operation
// that raised it and is never retried automatically. During a federated
// search it is absorbed per store and reported in SearchReport.Failed.
type StoreIOError struct {
	// Store names the TM store whose backing storage failed.
	Store string

	// Err is the underlying driver or filesystem error.
	Err error
}

func (e *StoreIOError) Error() string {
	return fmt.Sprintf("store %q: storage failure: %v", e.Store, e.Err)
}

func (e *StoreIOError) Unwrap() error {
	return e.Err
}

// IsStoreIO reports whether err is (or wraps) a StoreIOError.
func IsStoreIO(err error) bool {
	var sio *StoreIOError
	return errors.As(err, &sio)
}
