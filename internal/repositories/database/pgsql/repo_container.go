package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/hihello1226/our-ledger/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		EntryRepo:          newPgxEntryRepository(dbPool),
		AccountRepo:        newPgxAccountRepository(dbPool),
		CategoryRepo:       newPgxCategoryRepository(dbPool),
		HouseholdRepo:      newPgxHouseholdRepository(dbPool),
		SettlementRepo:     newPgxSettlementRepository(dbPool),
		ExternalSourceRepo: newPgxExternalSourceRepository(dbPool),
	}
}
