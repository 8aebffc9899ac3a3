package services

import (
	"github.com/hihello1226/our-ledger/internal/core/ports"
	portsrepo "github.com/hihello1226/our-ledger/internal/core/ports/repositories"
	portssvc "github.com/hihello1226/our-ledger/internal/core/ports/services"
	"github.com/hihello1226/our-ledger/internal/platform/config"
)

// Gateways are the non-database collaborators of the services.
// Sheets and Events may be nil; Cache is required for imports.
type Gateways struct {
	Cache  ports.UploadCache
	Sheets ports.SheetGateway
	Events ports.EventPublisher
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, gw Gateways) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Household = NewHouseholdService(repos.HouseholdRepo)
	container.Entry = NewEntryService(repos.EntryRepo, repos.AccountRepo, repos.CategoryRepo, repos.HouseholdRepo)
	container.Summary = NewSummaryService(repos.EntryRepo, repos.AccountRepo, repos.CategoryRepo, repos.HouseholdRepo, repos.SettlementRepo)
	container.Taxonomy = NewTaxonomyService(repos.AccountRepo, repos.CategoryRepo)

	settlementOpts := []SettlementServiceOption{}
	importOpts := []ImportServiceOption{WithImportMaxBytes(cfg.ImportMaxFileBytes)}
	sourceOpts := []ExternalSourceServiceOption{}
	if gw.Events != nil {
		settlementOpts = append(settlementOpts, WithSettlementEvents(gw.Events))
		importOpts = append(importOpts, WithImportEvents(gw.Events))
		sourceOpts = append(sourceOpts, WithExternalSourceEvents(gw.Events))
	}
	if gw.Sheets != nil {
		sourceOpts = append(sourceOpts, WithSheetGateway(gw.Sheets))
	}

	container.Settlement = NewSettlementService(repos.EntryRepo, repos.HouseholdRepo, repos.SettlementRepo, settlementOpts...)
	container.Import = NewImportService(repos.EntryRepo, repos.AccountRepo, repos.CategoryRepo, repos.HouseholdRepo, gw.Cache, importOpts...)
	container.ExternalSource = NewExternalSourceService(repos.ExternalSourceRepo, repos.EntryRepo, repos.AccountRepo, repos.CategoryRepo, repos.HouseholdRepo, sourceOpts...)

	return container
}
