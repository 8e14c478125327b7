package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	OrganisationRepo OrganisationRepositoryFacade
	AccountRepo      AccountRepositoryFacade
	FiscalYearRepo   FiscalYearRepositoryFacade
	TransactionRepo  TransactionRepositoryFacade
	TemplateRepo     TemplateRepositoryFacade
	UserRepo         UserRepositoryFacade
}
