package supabase

import (
	"context"
	"net/http"
	"strings"
)

// StoreOptions provides options for storing objects
type StoreOptions struct {
	ContentType string
	Upsert      bool
}

// ObjectStorage stores binary objects in public buckets
type ObjectStorage interface {
	// Store uploads data to bucket under path
	Store(ctx context.Context, bucket, path string, data []byte, opts *StoreOptions) error

	// PublicURL returns the unauthenticated download URL of an object
	PublicURL(bucket, path string) string
}

var _ ObjectStorage = (*Client)(nil)

func validObjectPath(bucket, path string) bool {
	if bucket == "" || path == "" || strings.Contains(bucket, "/") {
		return false
	}
	return !strings.HasPrefix(path, "/") && !strings.Contains(path, "..")
}

// Store implements ObjectStorage.Store using the service key
func (c *Client) Store(ctx context.Context, bucket, path string, data []byte, opts *StoreOptions) error {
	if !validObjectPath(bucket, path) {
		return NewStorageError("Store", bucket+"/"+path, ErrInvalidPath)
	}

	contentType := "application/octet-stream"
	if opts != nil && opts.ContentType != "" {
		contentType = opts.ContentType
	}

	req := c.request(ctx, ServiceKey).
		SetHeader("Content-Type", contentType).
		SetBody(data)
	if opts != nil && opts.Upsert {
		req.SetHeader("x-upsert", "true")
	}

	_, err := c.execute("Store", req, http.MethodPost, "/storage/v1/object/"+bucket+"/"+path)
	return err
}

// PublicURL implements ObjectStorage.PublicURL
func (c *Client) PublicURL(bucket, path string) string {
	return c.baseURL + "/storage/v1/object/public/" + bucket + "/" + path
}
