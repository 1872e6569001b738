package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSSink stores objects in a NATS JetStream object store bucket
type NATSSink struct {
	bucket string
	store  nats.ObjectStore
}

// NewNATSSink creates the bucket if needed and binds to it
func NewNATSSink(js nats.JetStreamContext, bucket string) (*NATSSink, error) {
	store, err := js.CreateObjectStore(&nats.ObjectStoreConfig{
		Bucket:      bucket,
		Description: fmt.Sprintf("Downloads stored in the %s bucket.", bucket),
		Storage:     nats.FileStorage,
		Replicas:    1,
	})
	if err != nil {
		createErr := err
		store, err = js.ObjectStore(bucket)
		if err != nil {
			if errors.Is(createErr, jetstream.ErrBucketExists) {
				return nil, fmt.Errorf("failed to bind to existing object store bucket '%s': %w", bucket, err)
			}
			return nil, fmt.Errorf("failed to create object store bucket '%s': %w", bucket, createErr)
		}
	}

	return &NATSSink{bucket: bucket, store: store}, nil
}

// Location returns a nats:// style reference to key
func (s *NATSSink) Location(key string) string {
	return fmt.Sprintf("nats://%s/%s", s.bucket, key)
}

// Put saves data as an object named key
func (s *NATSSink) Put(_ context.Context, key, contentType string, data []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	info, err := s.store.Put(&nats.ObjectMeta{
		Name:        key,
		Description: contentType,
		Metadata: map[string]string{
			"content-type": contentType,
			"upload-id":    uuid.NewString(),
		},
	}, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to put object '%s' to bucket '%s': %w", key, s.bucket, err)
	}

	log.Debug("stored object", "bucket", s.bucket, "key", key, "size", info.Size)
	return nil
}

// Get reads an object back
func (s *NATSSink) Get(_ context.Context, key string) ([]byte, error) {
	obj, err := s.store.Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to get object '%s' from bucket '%s': %w", key, s.bucket, err)
	}

	data, readErr := io.ReadAll(obj)
	closeErr := obj.Close()

	if readErr != nil {
		return nil, fmt.Errorf("failed to read object '%s': %w", key, readErr)
	}
	if closeErr != nil {
		return data, fmt.Errorf("failed to close object '%s': %w", key, closeErr)
	}

	return data, nil
}
