package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/enkelbok/enkelbok/internal/core/ports/repositories"
)

// NewRepositoryProvider builds the full repository set on top of one pgx pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		OrganisationRepo: newPgxOrganisationRepository(dbPool),
		AccountRepo:      newPgxAccountRepository(dbPool),
		FiscalYearRepo:   newPgxFiscalYearRepository(dbPool),
		TransactionRepo:  newPgxTransactionRepository(dbPool),
		TemplateRepo:     newPgxTemplateRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
	}
}
