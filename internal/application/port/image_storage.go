package port

import "context"

// ImageStorage stores uploaded identification images.
type ImageStorage interface {
	// PutObject uploads an object and returns a URL for reading it.
	PutObject(ctx context.Context, key, contentType string, body []byte) (string, error)

	// GetObjectURL returns a fresh read URL for a stored object.
	GetObjectURL(ctx context.Context, key string) (string, error)
}
