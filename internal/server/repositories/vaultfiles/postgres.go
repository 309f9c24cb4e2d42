package vaultfiles

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dropvault/internal/dbx"
	"github.com/dmitrijs2005/dropvault/internal/server/models"
)

// PostgresRepository implements vault-file storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts one pending file row under its vault.
func (r *PostgresRepository) Create(ctx context.Context, file *models.VaultFile) error {
	query := `
		INSERT INTO vault_files (id, vault_id, file_name, object_name, url, pending, encrypted)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		file.ID, file.VaultID, file.FileName, file.ObjectName, file.URL, file.Pending, file.Encrypted)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListByVault returns all files of the vault, pending ones included.
// Filtering to non-pending files is the service's concern.
func (r *PostgresRepository) ListByVault(ctx context.Context, vaultID string) ([]*models.VaultFile, error) {
	query := `
		SELECT id, vault_id, file_name, object_name, url, pending, encrypted
		FROM vault_files WHERE vault_id = $1 ORDER BY file_name, id
	`
	rows, err := r.db.QueryContext(ctx, query, vaultID)
	if err != nil {
		return nil, fmt.Errorf("failed to select vault files: %w", err)
	}
	defer rows.Close()

	var result []*models.VaultFile
	for rows.Next() {
		var item models.VaultFile
		if err := rows.Scan(&item.ID, &item.VaultID, &item.FileName, &item.ObjectName,
			&item.URL, &item.Pending, &item.Encrypted); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Confirm flips the file out of pending and records its read descriptor.
// Exactly one row must be affected.
func (r *PostgresRepository) Confirm(ctx context.Context, id string, url string) error {
	query := `UPDATE vault_files SET pending = FALSE, url = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, url)
	if err != nil {
		return fmt.Errorf("failed to confirm file: %w", err)
	}
	ra, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}
