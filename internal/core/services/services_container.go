package services

import (
	"github.com/SscSPs/expense_tracker/internal/categorizer"
	portsrepo "github.com/SscSPs/expense_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_tracker/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// publisher may be nil.
func NewServiceContainer(
	repos portsrepo.RepositoryProvider,
	cat portssvc.CategorizerSvc,
	publisher portssvc.LedgerEventPublisher,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	if cat == nil {
		cat = categorizer.New()
	}
	container.Categorizer = cat

	ledgerOpts := []LedgerServiceOption{}
	if publisher != nil {
		ledgerOpts = append(ledgerOpts, WithEventPublisher(publisher))
	}
	container.Ledger = NewLedgerService(repos.Ledger, cat, ledgerOpts...)

	accountOpts := []AccountServiceOption{}
	if repos.ProfileCache != nil {
		accountOpts = append(accountOpts, WithProfileCache(repos.ProfileCache))
	}
	container.Account = NewAccountService(repos.Ledger.Accounts(), accountOpts...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.LedgerSvcFacade  = (*ledgerService)(nil)
	_ portssvc.CategorizerSvc   = (*categorizer.Categorizer)(nil)
)
