package blob

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/herald/pkg/id"
)

// Storage defines object storage operations for attachments.
type Storage interface {
	// Put uploads data under the given key. The size parameter feeds the
	// content-length header.
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error

	// Get retrieves an object. The caller must close the returned reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// SignedURL generates a time-limited download URL for the object.
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Config holds S3-compatible storage configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Bucket    string `env:"BLOB_BUCKET"`
	AccessKey string `env:"BLOB_ACCESS_KEY"`
	SecretKey string `env:"BLOB_SECRET_KEY"`
	Region    string `env:"BLOB_REGION" envDefault:"us-east-1"`
	// Endpoint overrides the AWS endpoint for MinIO and other
	// S3-compatible services.
	Endpoint  string `env:"BLOB_ENDPOINT"`
	PathStyle bool   `env:"BLOB_PATH_STYLE" envDefault:"false"`
}

func (c *Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return ErrInvalidConfig
	}
	return nil
}

// AttachmentKey builds a storage key for a template attachment:
// attachments/{templateID}/{ulid}-{filename}. The ULID keeps uploads of
// the same filename from colliding.
func AttachmentKey(templateID uuid.UUID, filename string) string {
	return fmt.Sprintf("attachments/%s/%s-%s", templateID, id.NewULID(), sanitizeFilename(filename))
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename strips path separators and unsafe characters so the
// filename cannot escape its key prefix.
func sanitizeFilename(name string) string {
	name = strings.Trim(name, " /\\")
	name = strings.ReplaceAll(name, "..", "")
	name = unsafeChars.ReplaceAllString(name, "_")
	if name == "" {
		name = "file"
	}
	return name
}
