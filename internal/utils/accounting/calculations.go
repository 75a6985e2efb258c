package accounting

import (
	"fmt"

	"github.com/SscSPs/expense_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Sign convention: Balance is "funds minus expenses", so every expense amount
// moves Balance and TotalExpenses by the same magnitude in opposite directions.

// ExpenseAddedDelta is the aggregate change for a newly recorded expense.
func ExpenseAddedDelta(amount decimal.Decimal) domain.AggregateDelta {
	return domain.AggregateDelta{
		Balance:       amount.Neg(),
		TotalExpenses: amount,
	}
}

// ExpenseRemovedDelta is the aggregate change for a deleted expense. It is the
// exact inverse of ExpenseAddedDelta.
func ExpenseRemovedDelta(amount decimal.Decimal) domain.AggregateDelta {
	return domain.AggregateDelta{
		Balance:       amount,
		TotalExpenses: amount.Neg(),
	}
}

// ExpenseAmendedDelta is the aggregate change when an expense's amount moves
// from oldAmount to newAmount. diff = old - new; balance += diff, total -= diff.
func ExpenseAmendedDelta(oldAmount, newAmount decimal.Decimal) domain.AggregateDelta {
	diff := oldAmount.Sub(newAmount)
	return domain.AggregateDelta{
		Balance:       diff,
		TotalExpenses: diff.Neg(),
	}
}

// ReconciliationDelta brings recordedTotal in line with entrySum while
// keeping Balance+TotalExpenses (the implied initial balance) unchanged.
func ReconciliationDelta(recordedTotal, entrySum decimal.Decimal) domain.AggregateDelta {
	return ExpenseAmendedDelta(recordedTotal, entrySum)
}

// ValidateAmount rejects negative expense amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("amount must not be negative, got %s", amount.String())
	}
	return nil
}

// SumAmounts totals the amounts of the given expenses.
func SumAmounts(expenses []domain.Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// Apply returns acc with delta applied.
func Apply(acc domain.Account, delta domain.AggregateDelta) domain.Account {
	acc.Balance = acc.Balance.Add(delta.Balance)
	acc.TotalExpenses = acc.TotalExpenses.Add(delta.TotalExpenses)
	return acc
}
