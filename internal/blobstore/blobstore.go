// Package blobstore is the external capability holding avatar images.
// Callers keep only the opaque public id and the retrieval URL.
package blobstore

import "context"

// Resource identifies an uploaded blob.
type Resource struct {
	PublicID string
	URL      string
}

// Store uploads and destroys binary resources.
type Store interface {
	Upload(ctx context.Context, source string) (*Resource, error)
	Destroy(ctx context.Context, publicID string) error
}
