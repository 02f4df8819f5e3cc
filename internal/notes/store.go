// Package notes stores research notes as plain text values under normalized
// topic keys. Writes are last-write-wins; there is no versioning.
package notes

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotFound   = errors.New("note not found")
	ErrInvalidKey = errors.New("invalid note key")
)

// Store is a key/value text store.
type Store interface {
	Write(ctx context.Context, key, value string) error
	Read(ctx context.Context, key string) (string, error)
	Ping(ctx context.Context) error
	Close() error
}

// NormalizeKey derives the storage key for a topic: lower-cased, with every
// space replaced by a hyphen. Nothing else is trimmed or rewritten.
func NormalizeKey(topic string) string {
	return strings.ReplaceAll(strings.ToLower(topic), " ", "-")
}
