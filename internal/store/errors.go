package store

import "fmt"

// StorageError reports a failed read or write against the underlying store
// (disk full, locked database, closed handle, ...).
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
