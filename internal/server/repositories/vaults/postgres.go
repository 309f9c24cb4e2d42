package vaults

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dropvault/internal/common"
	"github.com/dmitrijs2005/dropvault/internal/dbx"
	"github.com/dmitrijs2005/dropvault/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the PostgreSQL error code for a unique-constraint
// violation.
const pgUniqueViolation = "23505"

// PostgresRepository implements vault storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new vault row. A collision on the vault-code unique
// index is returned as common.ErrorAlreadyExists so the caller can retry
// code generation.
func (r *PostgresRepository) Create(ctx context.Context, vault *models.Vault) error {
	query := `
		INSERT INTO vaults (id, code, password_hash, encryption_salt, duration_minutes, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		vault.ID, vault.Code, vault.PasswordHash, vault.EncryptionSalt,
		vault.DurationMinutes, vault.CreatedAt, vault.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByCode returns the vault with the given code, expired or not.
// Expiry is the service's predicate, not the repository's.
func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (*models.Vault, error) {
	query := `
		SELECT id, code, password_hash, encryption_salt, duration_minutes, created_at, expires_at
		FROM vaults WHERE code = $1
	`
	v := &models.Vault{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&v.ID, &v.Code, &v.PasswordHash, &v.EncryptionSalt,
		&v.DurationMinutes, &v.CreatedAt, &v.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select vault: %w", err)
	}
	return v, nil
}

// CodeInUse reports whether a non-expired vault currently holds the code.
// Codes of expired vaults are free for reuse.
func (r *PostgresRepository) CodeInUse(ctx context.Context, code string, now time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM vaults WHERE code = $1 AND expires_at > $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, code, now).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check code: %w", err)
	}
	return exists, nil
}

// PurgeExpired deletes vaults past their expiry, cascading to their files.
// This is the lazy analog of a store-level TTL reaper; the service's own
// timestamp check stays authoritative even when purging lags.
func (r *PostgresRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM vaults WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired vaults: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
