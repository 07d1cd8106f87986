package storage

import (
	"context"
	"errors"
)

// Namespaces used by the badge.
const (
	NamespaceGame      = "game-data"
	NamespaceInventory = "game-data-inventory"
	NamespaceBadge     = "badge-state"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("storage closed")

// Store is a namespaced string key/value store, modelled on the badge's
// flash preferences. Implementations must be safe for concurrent use.
type Store interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Get returns the value and whether the key exists.
	Get(ctx context.Context, namespace, key string) (string, bool, error)
	Put(ctx context.Context, namespace, key, value string) error
	HasKey(ctx context.Context, namespace, key string) (bool, error)
	// Clear removes every key in the namespace.
	Clear(ctx context.Context, namespace string) error
}
