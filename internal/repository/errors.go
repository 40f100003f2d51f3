package repository

import (
	"errors"
	"fmt"
)

// Domain-level errors I prefer to bubble up from repository implementations.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")
	// ErrStorage marks unrecoverable backend failures. The original driver error stays in the chain.
	ErrStorage = errors.New("storage failure")
)

// Storage wraps err as a storage failure unless it is nil or already a domain error.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrConflict) || errors.Is(err, ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
