// Package store persists finished downloads. A Sink receives encoded bytes
// under a key and keeps them somewhere outside the process: a local
// directory, a NATS JetStream object store bucket or an S3 bucket.
package store

import (
	"context"
	"errors"
)

// ErrEmptyKey is returned when an object is stored without a name
var ErrEmptyKey = errors.New("object key cannot be empty")

// Sink stores an object under key
type Sink interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	// Location describes where key ends up (a path or URL)
	Location(key string) string
}
