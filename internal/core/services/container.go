package services

import (
	portsrepo "github.com/enkelbok/enkelbok/internal/core/ports/repositories"
	portssvc "github.com/enkelbok/enkelbok/internal/core/ports/services"
)

// NewServiceContainer wires all services from the repository provider.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, authCfg AuthConfig) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Organisation: NewOrganisationService(repos.OrganisationRepo, repos.FiscalYearRepo, repos.TemplateRepo),
		Account:      NewAccountService(repos.AccountRepo, repos.OrganisationRepo, repos.TemplateRepo),
		Template:     NewTemplateService(repos.TemplateRepo),
		FiscalYear:   NewFiscalYearService(repos.FiscalYearRepo, repos.OrganisationRepo),
		Ledger:       NewLedgerService(repos.TransactionRepo, repos.FiscalYearRepo, repos.AccountRepo),
		Reporting:    NewReportingService(repos.TransactionRepo, repos.FiscalYearRepo, repos.AccountRepo),
		Auth:         NewAuthService(repos.UserRepo, authCfg),
	}
}
