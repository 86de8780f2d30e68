// Package store keeps encoded batch results for later download.
package store

import (
	"context"
	"time"
)

// DefaultTTL is how long a stored result stays downloadable.
const DefaultTTL = time.Hour

const keyPrefix = "creditrisk:batch:"

// ResultStore persists encoded results by ID. Load returns
// sentinel.ErrNotFound for unknown or expired IDs.
type ResultStore interface {
	Save(ctx context.Context, id string, data []byte) error
	Load(ctx context.Context, id string) ([]byte, error)
}

func resultKey(id string) string {
	return keyPrefix + id
}
