// Package services implements the client-side share and fetch flows. The
// encryption envelope lives here: files of password-protected vaults are
// sealed before upload and opened after download, so the server and the
// object store only ever see ciphertext.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/dropvault/internal/client/client"
	"github.com/dmitrijs2005/dropvault/internal/common"
	"github.com/dmitrijs2005/dropvault/internal/cryptox"
	"github.com/dmitrijs2005/dropvault/internal/filex"
	"github.com/dmitrijs2005/dropvault/internal/netx"
)

// FileOutcome reports the result of one file transfer. Path is set only for
// fetched files that reached disk.
type FileOutcome struct {
	FileName string
	Path     string
	Err      error
}

type ShareResult struct {
	VaultCode string
	ExpiresAt time.Time
	Files     []FileOutcome
}

type FetchResult struct {
	ExpiresAt time.Time
	Files     []FileOutcome
}

type VaultService interface {
	Share(ctx context.Context, paths []string, durationMinutes int, password string) (*ShareResult, error)
	Fetch(ctx context.Context, code, password string) (*FetchResult, error)
	Ping(ctx context.Context) error
}

type vaultService struct {
	client    client.Client
	transfer  *http.Client
	outputDir string
}

func NewVaultService(c client.Client, transfer *http.Client, outputDir string) VaultService {
	return &vaultService{client: c, transfer: transfer, outputDir: outputDir}
}

// Share creates a vault for the given files, uploads each one through its
// write grant and confirms the uploads. When a password is set, every file
// is sealed with a key derived from the server-issued per-vault salt before
// it leaves this process.
//
// A failure to create the vault aborts the whole call; transfer and
// confirmation failures are reported per file.
func (s *vaultService) Share(ctx context.Context, paths []string, durationMinutes int, password string) (*ShareResult, error) {

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no files to share", common.ErrorInvalidInput)
	}

	contents := make(map[string][]byte, len(paths))
	names := make([]string, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", common.ErrorInvalidInput, path, err)
		}
		name := filepath.Base(path)
		names = append(names, name)
		contents[name] = data
	}

	created, err := s.client.CreateVault(ctx, names, durationMinutes, password)
	if err != nil {
		return nil, err
	}

	var key []byte
	if password != "" {
		if len(created.EncryptionSalt) == 0 {
			return nil, fmt.Errorf("%w: server returned no encryption salt", common.ErrorUpstream)
		}
		key = cryptox.DeriveKey([]byte(password), created.EncryptionSalt)
		defer common.WipeByteArray(key)
	}

	result := &ShareResult{VaultCode: created.VaultCode, ExpiresAt: created.ExpiresAt}

	uploaded := false
	for _, task := range created.UploadTasks {
		outcome := FileOutcome{FileName: task.FileName}

		payload := contents[task.FileName]
		if key != nil {
			payload, err = cryptox.EncryptFile(payload, key)
			if err != nil {
				outcome.Err = err
				result.Files = append(result.Files, outcome)
				continue
			}
		}

		if err := netx.UploadToPresignedURL(ctx, s.transfer, task.UploadURL, payload); err != nil {
			outcome.Err = err
		} else {
			uploaded = true
		}
		result.Files = append(result.Files, outcome)
	}

	if !uploaded {
		return result, fmt.Errorf("%w: no file reached storage", common.ErrorUpstream)
	}

	confirms, err := s.client.ConfirmUpload(ctx, created.VaultCode)
	if err != nil {
		return result, err
	}
	for _, c := range confirms {
		if c.Error == "" {
			continue
		}
		for i := range result.Files {
			if result.Files[i].FileName == c.FileName && result.Files[i].Err == nil {
				result.Files[i].Err = errors.New(c.Error)
			}
		}
	}

	return result, nil
}

// Fetch verifies access to a vault, downloads every released file and
// writes it to the output directory. Encrypted files are opened with a key
// derived from the vault password; a wrong password for an unverified path
// surfaces as a decryption failure, never as silent garbage.
func (s *vaultService) Fetch(ctx context.Context, code, password string) (*FetchResult, error) {

	verification, err := s.client.Verify(ctx, code, password)
	if err != nil {
		return nil, err
	}
	if verification.PasswordRequired && password == "" {
		return nil, common.ErrorPasswordRequired
	}
	if !verification.OK {
		return nil, common.ErrorForbidden
	}

	vault, err := s.client.AccessFiles(ctx, code, password, verification.AccessToken)
	if err != nil {
		return nil, err
	}

	var key []byte
	if vault.Encrypted {
		if password == "" {
			return nil, common.ErrorPasswordRequired
		}
		key = cryptox.DeriveKey([]byte(password), vault.EncryptionSalt)
		defer common.WipeByteArray(key)
	}

	outDir, err := filex.EnsureSubDir(s.outputDir)
	if err != nil {
		return nil, err
	}

	result := &FetchResult{ExpiresAt: vault.ExpiresAt}

	for _, f := range vault.Files {
		outcome := FileOutcome{FileName: f.FileName}

		data, err := netx.DownloadFromPresignedURL(ctx, s.transfer, f.URL)
		if err == nil && f.Encrypted {
			data, err = cryptox.DecryptFile(data, key)
		}

		if err != nil {
			outcome.Err = err
			result.Files = append(result.Files, outcome)
			continue
		}

		path := filepath.Join(outDir, filex.SafeFileName(f.FileName))
		if err := os.WriteFile(path, data, 0o600); err != nil {
			outcome.Err = err
		} else {
			outcome.Path = path
		}
		result.Files = append(result.Files, outcome)
	}

	return result, nil
}

func (s *vaultService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
