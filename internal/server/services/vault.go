// Package services implements the vault lifecycle: creation with
// write-grant issuance, upload confirmation with read-grant issuance,
// password-gated access and pre-access verification. Expiry is a predicate
// evaluated lazily on every access, never a timer sweep.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dropvault/internal/common"
	"github.com/dmitrijs2005/dropvault/internal/cryptox"
	"github.com/dmitrijs2005/dropvault/internal/dbx"
	"github.com/dmitrijs2005/dropvault/internal/logging"
	"github.com/dmitrijs2005/dropvault/internal/server/auth"
	sc "github.com/dmitrijs2005/dropvault/internal/server/config"
	"github.com/dmitrijs2005/dropvault/internal/server/grants"
	"github.com/dmitrijs2005/dropvault/internal/server/models"
	"github.com/dmitrijs2005/dropvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dropvault/internal/server/vaultcode"
	"github.com/google/uuid"
)

const (
	// MinDurationMinutes and MaxDurationMinutes bound the vault lifetime.
	MinDurationMinutes = 5
	MaxDurationMinutes = 1440

	// createAttempts bounds insert retries after a code-uniqueness
	// violation (two concurrent creators drawing the same code).
	createAttempts = 3
)

type VaultService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      grants.Issuer
	config      *sc.Config
	logger      logging.Logger

	// now is a seam for expiry tests.
	now func() time.Time
}

func NewVaultService(db *sql.DB, rm repomanager.RepositoryManager, issuer grants.Issuer, config *sc.Config, logger logging.Logger) *VaultService {
	return &VaultService{
		db:          db,
		repomanager: rm,
		issuer:      issuer,
		config:      config,
		logger:      logger.With("module", "vault_service"),
		now:         time.Now,
	}
}

// CreateResult is returned to the creator: the shareable code plus one
// write-scoped upload grant per file. The salt goes back to the client so
// the envelope can derive the encryption key; it is not a secret.
type CreateResult struct {
	VaultCode      string
	ExpiresAt      time.Time
	EncryptionSalt []byte
	UploadTasks    []*models.UploadTask
}

// AccessResult lists the confirmed files of a vault for a joiner.
type AccessResult struct {
	Files          []*models.VaultFile
	ExpiresAt      time.Time
	Encrypted      bool
	EncryptionSalt []byte
}

// VerifyResult reports existence and password correctness without leaking
// file contents. A successful password check yields a token the joiner can
// present instead of resending the password.
type VerifyResult struct {
	OK               bool
	PasswordRequired bool
	AccessToken      string
}

// Create reserves a unique vault code, persists the vault and one pending
// file row per name in a single transaction, and only then mints one
// write-scoped grant per file. The vault record is durable before any
// grant exists, so a grant can never reference an absent vault.
//
// Duplicate names in one request are not deduplicated: each file gets its
// own uuid-prefixed object name and both stay retrievable.
func (s *VaultService) Create(ctx context.Context, fileNames []string, durationMinutes int, password string) (*CreateResult, error) {

	if durationMinutes < MinDurationMinutes || durationMinutes > MaxDurationMinutes {
		return nil, fmt.Errorf("%w: duration must be between %d and %d minutes",
			common.ErrorInvalidInput, MinDurationMinutes, MaxDurationMinutes)
	}
	if len(fileNames) == 0 {
		return nil, fmt.Errorf("%w: file names required", common.ErrorInvalidInput)
	}

	protected := password != ""

	passwordHash := ""
	var salt []byte
	if protected {
		var err error
		passwordHash, err = auth.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorUpstream, err)
		}
		salt = cryptox.GenerateSalt()
	}

	now := s.now()
	expiresAt := now.Add(time.Duration(durationMinutes) * time.Minute)

	vaultRepo := s.repomanager.Vaults(s.db)
	generator := vaultcode.NewGenerator(vaultRepo, s.config.VaultCodeBytes)

	// Reap expired rows first so their codes return to the pool. Best
	// effort: the expiry predicate below stays authoritative either way.
	if _, err := vaultRepo.PurgeExpired(ctx, now); err != nil {
		s.logger.Warn(ctx, "failed to purge expired vaults", "error", err.Error())
	}

	vault := &models.Vault{
		ID:              uuid.NewString(),
		PasswordHash:    passwordHash,
		EncryptionSalt:  salt,
		DurationMinutes: durationMinutes,
		CreatedAt:       now,
		ExpiresAt:       expiresAt,
	}

	files := make([]*models.VaultFile, 0, len(fileNames))
	for _, name := range fileNames {
		objectName := uuid.NewString() + "-" + name
		if protected {
			objectName += cryptox.EncryptedSuffix
		}
		files = append(files, &models.VaultFile{
			ID:         uuid.NewString(),
			VaultID:    vault.ID,
			FileName:   name,
			ObjectName: objectName,
			Pending:    true,
			Encrypted:  protected,
		})
	}

	// The uniqueness check and the insert are not transactional against
	// each other; the unique index is. A violation means another creator
	// won the code, so draw a new one and try again.
	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		vault.Code, err = generator.Generate(ctx)
		if err != nil {
			return nil, err
		}

		err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			if err := s.repomanager.Vaults(tx).Create(ctx, vault); err != nil {
				return err
			}
			fileRepo := s.repomanager.VaultFiles(tx)
			for _, f := range files {
				if err := fileRepo.Create(ctx, f); err != nil {
					return err
				}
			}
			return nil
		})
		if err == nil {
			break
		}
		if !errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("%w: creating vault: %v", common.ErrorUpstream, err)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: vault code contention", common.ErrorResourceExhausted)
	}

	// Upload grants expire quickly; they never need to live as long as the
	// vault itself.
	writeTTL := s.config.WriteGrantTTL
	if remaining := expiresAt.Sub(now); remaining < writeTTL {
		writeTTL = remaining
	}

	tasks := make([]*models.UploadTask, 0, len(files))
	for _, f := range files {
		url, err := s.issuer.IssueUpload(ctx, f.ObjectName, writeTTL)
		if err != nil {
			return nil, fmt.Errorf("%w: issuing upload grant: %v", common.ErrorUpstream, err)
		}
		tasks = append(tasks, &models.UploadTask{
			FileName:   f.FileName,
			ObjectName: f.ObjectName,
			UploadURL:  url,
		})
	}

	s.logger.Info(ctx, "vault created", "code", vault.Code, "files", len(files), "expires_at", expiresAt)

	return &CreateResult{
		VaultCode:      vault.Code,
		ExpiresAt:      expiresAt,
		EncryptionSalt: salt,
		UploadTasks:    tasks,
	}, nil
}

// ConfirmUpload flips every file of the vault out of pending and records a
// read-scoped grant per file, valid for the vault's remaining lifetime
// (recomputed from now). Re-confirming re-mints consistently for every
// file. Per-file failures are reported per file, never masked as a blanket
// success.
func (s *VaultService) ConfirmUpload(ctx context.Context, code string) ([]*models.FileConfirmation, error) {

	vault, err := s.lookupVault(ctx, code)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if vault.Expired(now) {
		return nil, fmt.Errorf("%w: vault %s", common.ErrorExpired, code)
	}
	remaining := vault.ExpiresAt.Sub(now)

	fileRepo := s.repomanager.VaultFiles(s.db)
	files, err := fileRepo.ListByVault(ctx, vault.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing vault files: %v", common.ErrorUpstream, err)
	}

	results := make([]*models.FileConfirmation, 0, len(files))
	for _, f := range files {
		conf := &models.FileConfirmation{FileName: f.FileName, Pending: false}

		url, err := s.issuer.IssueDownload(ctx, f.ObjectName, remaining)
		if err == nil {
			err = fileRepo.Confirm(ctx, f.ID, url)
		}
		if err != nil {
			conf.Pending = true
			conf.Err = err
			s.logger.Error(ctx, "file confirmation failed", "code", code, "file", f.FileName, "error", err.Error())
		}

		results = append(results, conf)
	}

	return results, nil
}

// AccessFiles releases the confirmed files of a vault to a joiner. Checks
// run in a fixed order: existence, expiry, then the password gate. A valid
// access token from Verify substitutes for the password.
func (s *VaultService) AccessFiles(ctx context.Context, code, password, token string) (*AccessResult, error) {

	vault, err := s.lookupVault(ctx, code)
	if err != nil {
		return nil, err
	}

	if vault.Expired(s.now()) {
		return nil, fmt.Errorf("%w: vault %s", common.ErrorExpired, code)
	}

	if vault.PasswordProtected() && !s.tokenUnlocks(token, code) {
		if password == "" {
			return nil, common.ErrorPasswordRequired
		}
		if !auth.CheckPassword(password, vault.PasswordHash) {
			return nil, common.ErrorForbidden
		}
	}

	all, err := s.repomanager.VaultFiles(s.db).ListByVault(ctx, vault.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing vault files: %v", common.ErrorUpstream, err)
	}

	// Joiners never see pending files.
	files := make([]*models.VaultFile, 0, len(all))
	for _, f := range all {
		if !f.Pending {
			files = append(files, f)
		}
	}

	return &AccessResult{
		Files:          files,
		ExpiresAt:      vault.ExpiresAt,
		Encrypted:      vault.PasswordProtected(),
		EncryptionSalt: vault.EncryptionSalt,
	}, nil
}

// Verify checks existence and, when a password is supplied, its
// correctness, without touching file contents. A correct password yields a
// short-lived token whose lifetime never exceeds the vault's.
func (s *VaultService) Verify(ctx context.Context, code, password string) (*VerifyResult, error) {

	vault, err := s.lookupVault(ctx, code)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if vault.Expired(now) {
		return nil, fmt.Errorf("%w: vault %s", common.ErrorExpired, code)
	}

	if !vault.PasswordProtected() {
		return &VerifyResult{OK: true}, nil
	}

	if password == "" {
		return &VerifyResult{OK: true, PasswordRequired: true}, nil
	}

	if !auth.CheckPassword(password, vault.PasswordHash) {
		return &VerifyResult{OK: false, PasswordRequired: true}, nil
	}

	token, err := auth.GenerateVaultToken(vault.Code, []byte(s.config.SecretKey), vault.ExpiresAt.Sub(now))
	if err != nil {
		return nil, fmt.Errorf("%w: minting access token: %v", common.ErrorUpstream, err)
	}

	return &VerifyResult{OK: true, AccessToken: token}, nil
}

func (s *VaultService) lookupVault(ctx context.Context, code string) (*models.Vault, error) {
	vault, err := s.repomanager.Vaults(s.db).GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: vault %s", common.ErrorNotFound, code)
		}
		return nil, fmt.Errorf("%w: vault lookup: %v", common.ErrorUpstream, err)
	}
	return vault, nil
}

func (s *VaultService) tokenUnlocks(token, code string) bool {
	if token == "" {
		return false
	}
	tokenCode, err := auth.GetVaultCodeFromToken(token, []byte(s.config.SecretKey))
	return err == nil && tokenCode == code
}
