package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/dropvault/internal/dbx"
	"github.com/dmitrijs2005/dropvault/internal/server/repositories/vaultfiles"
	"github.com/dmitrijs2005/dropvault/internal/server/repositories/vaults"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Vaults(db dbx.DBTX) vaults.Repository
	VaultFiles(db dbx.DBTX) vaultfiles.Repository
}
