// Package metadata is the key/value table in the local client database.
// The session persister keeps the bearer token and the cached profile here.
package metadata

import "context"

// Repository reads and writes metadata rows. Missing keys are reported with
// ok == false rather than an error.
type Repository interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
}
