// Package storage resolves object-store keys to public download URLs.
//
// The object store is an external collaborator; the only contract this
// backend relies on is that a file uploaded under a bucket key is reachable
// at a deterministic public URL.
package storage

import (
	"net/url"
	"strings"
)

// PublicURLResolver builds public download URLs for files in one bucket.
type PublicURLResolver struct {
	baseURL string
	bucket  string
}

// NewPublicURLResolver creates a resolver for the given storage base URL and
// bucket name.
func NewPublicURLResolver(baseURL, bucket string) *PublicURLResolver {
	return &PublicURLResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		bucket:  bucket,
	}
}

// Resolve returns the public URL for a stored file path. Each path segment
// is percent-escaped so the result is always a single token, usable as-is
// in a prompt or a response body. Callers must never wrap the result in
// markdown link syntax.
func (r *PublicURLResolver) Resolve(filePath string) string {
	segments := strings.Split(strings.TrimLeft(filePath, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return r.baseURL + "/storage/v1/object/public/" + r.bucket + "/" + strings.Join(segments, "/")
}
