// Package storage persists raw video and thumbnail bytes and hands out
// URLs the client can play back directly
package storage

import (
	"context"
	"io"
)

// Storage is implemented by the S3 and local-disk backends. Put stores the
// object under key and returns the URL it can be fetched from: a
// time-limited presigned URL for S3, a permanent one for local disk
type Storage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}
