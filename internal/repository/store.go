// Package store persists chat exchanges.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/xiaot623/gogo/ibu/internal/domain"
)

// Default page sizes used when a caller passes a non-positive limit.
const (
	DefaultRecentLimit  = 10
	DefaultSessionLimit = 20
)

// Store defines the interface for chat history persistence.
type Store interface {
	// SaveExchange inserts one exchange. The identifier and timestamp are
	// assigned by the store.
	SaveExchange(ctx context.Context, question, answer string, sessionID *string) (*domain.ChatExchange, error)

	// RecentExchanges returns up to limit exchanges, newest first.
	RecentExchanges(ctx context.Context, limit int) ([]domain.ChatExchange, error)

	// SessionHistory returns up to limit exchanges of one session, oldest first.
	SessionHistory(ctx context.Context, sessionID string, limit int) ([]domain.ChatExchange, error)

	// Lifecycle
	Close() error
}

// StorageError wraps any failure of the backing record store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError reports whether err is a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
