// Package storage defines the object storage abstraction the deploy and
// sync operations write through, plus key handling and error
// classification shared by the providers.
package storage

import (
	"context"
	"io"
)

// ObjectStore is the minimal write surface of a bucket/key blob store.
// Implementations live in internal/cloud/providers.
type ObjectStore interface {
	// Put writes size bytes from body to key, overwriting any existing
	// object at that key. The stored object must be byte-identical to
	// what body yields. size may be -1 when unknown; providers that
	// require a length buffer in that case.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
}
