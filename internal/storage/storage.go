package storage

import (
	"context"
	"io"
	"time"
)

// Uploader streams an object into blob storage and returns the stored
// reference (object key or URL).
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}

// Signer mints a time-limited download URL for a stored object.
type Signer interface {
	SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error)
}
