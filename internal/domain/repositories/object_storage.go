package repositories

import (
	"context"
	"io"
)

// StoredObject describes an object written to the object store
type StoredObject struct {
	Bucket string
	Key    string
	URL    string
	Size   int64
}

// ObjectStorage stores uploaded files
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) (*StoredObject, error)
	Delete(ctx context.Context, bucket, key string) error
	PublicURL(bucket, key string) string
}
