// Package storage provides the object store used for post attachments.
// Uploads return a time-limited retrieval URL; blobs are opaque to the rest
// of the application.
package storage

import "context"

// ObjectStore accepts a binary blob and returns a URL it can later be
// retrieved from. Implementations must treat each upload as independent:
// there is no transactional coupling with the database.
type ObjectStore interface {
	Upload(ctx context.Context, content []byte, filename, contentType string) (string, error)
}
