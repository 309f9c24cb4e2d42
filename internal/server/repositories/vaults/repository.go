package vaults

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dropvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, vault *models.Vault) error
	GetByCode(ctx context.Context, code string) (*models.Vault, error)
	CodeInUse(ctx context.Context, code string, now time.Time) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
