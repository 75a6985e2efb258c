package mapping

import (
	"github.com/SscSPs/expense_tracker/internal/core/domain"
	"github.com/SscSPs/expense_tracker/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		UserID:        d.UserID,
		Name:          d.Name,
		Balance:       d.Balance,
		TotalExpenses: d.TotalExpenses,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		UserID:        m.UserID,
		Name:          m.Name,
		Balance:       m.Balance,
		TotalExpenses: m.TotalExpenses,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
