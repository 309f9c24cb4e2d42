// Package grants is the credential issuer: it mints time-scoped,
// permission-scoped access grants for single storage objects. A grant is a
// presigned S3 URL whose signature covers object, method and expiry, and it
// is never wider than requested: upload grants presign PUT only, download
// grants presign GET only.
package grants

import (
	"context"
	"time"
)

// Issuer mints single-object, single-purpose access grants. Issuance is a
// pure signing operation: no network call, no persistence.
type Issuer interface {
	// IssueUpload returns a write-scoped grant for objectName valid for
	// expiresIn. The grant carries no read or delete rights.
	IssueUpload(ctx context.Context, objectName string, expiresIn time.Duration) (string, error)

	// IssueDownload returns a read-scoped grant for objectName valid for
	// expiresIn. The grant carries no write rights.
	IssueDownload(ctx context.Context, objectName string, expiresIn time.Duration) (string, error)
}
