package vaultfiles

import (
	"context"

	"github.com/dmitrijs2005/dropvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.VaultFile) error
	ListByVault(ctx context.Context, vaultID string) ([]*models.VaultFile, error)
	Confirm(ctx context.Context, id string, url string) error
}
