package services

// ServiceContainer holds instances of all the application services.
// Handlers depend on it rather than on concrete implementations.
type ServiceContainer struct {
	Ledger      LedgerSvcFacade
	Account     AccountSvcFacade
	Categorizer CategorizerSvc
}
