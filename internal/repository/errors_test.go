package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
)

func TestStorage(t *testing.T) {
	assert.NoError(t, repository.Storage(nil))

	for _, domain := range []error{repository.ErrNotFound, repository.ErrAlreadyExists, repository.ErrConflict} {
		assert.Same(t, domain, repository.Storage(domain))
	}

	raw := errors.New("connection reset")
	wrapped := repository.Storage(raw)
	assert.ErrorIs(t, wrapped, repository.ErrStorage)
	assert.ErrorIs(t, wrapped, raw)
	// wrapping twice does not nest
	assert.Equal(t, wrapped, repository.Storage(wrapped))

	assert.ErrorIs(t, repository.Storage(context.DeadlineExceeded), context.DeadlineExceeded)
}
