// Package client is a thin JSON HTTP client for the vault API.
package client

import (
	"context"
	"time"
)

type UploadTask struct {
	FileName   string `json:"fileName"`
	ObjectName string `json:"objectName"`
	UploadURL  string `json:"uploadUrl"`
}

type CreatedVault struct {
	VaultCode      string       `json:"vaultCode"`
	ExpiresAt      time.Time    `json:"expiresAt"`
	EncryptionSalt []byte       `json:"encryptionSalt"`
	UploadTasks    []UploadTask `json:"sasTokens"`
}

type ConfirmResult struct {
	FileName string `json:"fileName"`
	Pending  bool   `json:"pending"`
	Error    string `json:"error"`
}

type VaultFile struct {
	FileName   string `json:"fileName"`
	ObjectName string `json:"objectName"`
	URL        string `json:"url"`
	Encrypted  bool   `json:"encrypted"`
}

type VaultContents struct {
	Files          []VaultFile `json:"files"`
	ExpiresAt      time.Time   `json:"expiresAt"`
	Encrypted      bool        `json:"encrypted"`
	EncryptionSalt []byte      `json:"encryptionSalt"`
}

type Verification struct {
	OK               bool   `json:"ok"`
	PasswordRequired bool   `json:"passwordRequired"`
	AccessToken      string `json:"accessToken"`
}

type Client interface {
	CreateVault(ctx context.Context, fileNames []string, durationMinutes int, password string) (*CreatedVault, error)
	ConfirmUpload(ctx context.Context, code string) ([]ConfirmResult, error)
	AccessFiles(ctx context.Context, code, password, token string) (*VaultContents, error)
	Verify(ctx context.Context, code, password string) (*Verification, error)
	Ping(ctx context.Context) error
}
