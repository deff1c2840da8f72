// Package storage fetches resume documents from object storage or the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNotFound is returned when the requested object does not exist.
var ErrNotFound = errors.New("object not found")

// MaxObjectBytes bounds how much of an object is read into memory.
const MaxObjectBytes = 32 << 20

// Source fetches a document by key.
type Source interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// Options selects and configures a Source. LocalDir takes precedence over Bucket.
type Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	R2AccountID     string
	AccessKeyID     string
	SecretAccessKey string
	LocalDir        string
}

// Open returns the Source described by opts.
func Open(ctx context.Context, opts Options) (Source, error) {
	switch {
	case opts.LocalDir != "":
		return NewFileSource(opts.LocalDir), nil
	case opts.Bucket != "":
		return NewS3Source(ctx, opts)
	}
	return nil, errors.New("no document source configured: set storage.bucket or storage.local_dir")
}

// MediaTypeFromKey guesses a document media type from the key's extension.
// It returns "" for unknown extensions.
func MediaTypeFromKey(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return ""
}

func tooLarge(key string) error {
	return fmt.Errorf("object %s exceeds %d bytes", key, MaxObjectBytes)
}
