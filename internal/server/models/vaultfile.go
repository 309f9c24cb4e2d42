package models

// VaultFile is one file reserved under a vault. A file belongs to exactly
// one vault; expiring the vault logically expires all its files.
type VaultFile struct {
	// ID is the internal identifier (UUID).
	ID string
	// VaultID references the owning vault.
	VaultID string
	// FileName is the original file name as submitted by the creator.
	FileName string
	// ObjectName is the storage-backend key: "<uuid>-<fileName>", plus the
	// ".encrypted" suffix for password-protected vaults. The uuid prefix
	// keeps names collision-free across vaults sharing one bucket.
	ObjectName string
	// URL is the read-scoped access descriptor, populated on confirmation.
	URL string
	// Pending is true from grant issuance until the creator confirms the
	// upload completed. Joiners only ever see non-pending files.
	Pending bool
	// Encrypted signals that the envelope must be reversed on retrieval.
	Encrypted bool
}

// UploadTask instructs the creator to push one file using a write-scoped
// grant. Grants are ephemeral and never persisted.
type UploadTask struct {
	FileName   string
	ObjectName string
	// UploadURL is the presigned write-only URL for this single object.
	UploadURL string
}

// FileConfirmation reports the per-file outcome of a confirm-upload call.
type FileConfirmation struct {
	FileName string
	Pending  bool
	// Err holds the per-file failure, nil on success. Failures are
	// reported per file so the caller can retry only the failed subset.
	Err error
}
