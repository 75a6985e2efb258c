package dto

import (
	"github.com/SscSPs/expense_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AddExpenseRequest defines the data accepted when recording an expense.
// Date must be present; an empty string means "now".
type AddExpenseRequest struct {
	UserID      string           `json:"userId" binding:"required"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Date        *string          `json:"date" binding:"required"`
	Description *string          `json:"description"`
	Category    *string          `json:"category" binding:"omitempty,expense_category"`
	Email       string           `json:"email"` // optional, names a newly created account
}

// EditExpenseRequest defines the mutable fields of an expense. Nil fields keep their value.
type EditExpenseRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Category    *string          `json:"category" binding:"omitempty,expense_category"`
	Description *string          `json:"description"`
}

// ListExpensesParams defines query parameters for listing expenses.
type ListExpensesParams struct {
	UserID string `form:"user_id" binding:"required"`
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Amount      decimal.Decimal `json:"amount"`
	Category    domain.Category `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

// AddExpenseResponse wraps a newly recorded expense and its resolved category.
type AddExpenseResponse struct {
	Success  bool            `json:"success"`
	Expense  ExpenseResponse `json:"expense"`
	Category domain.Category `json:"category"`
}

// ExpenseEnvelope wraps a single expense.
type ExpenseEnvelope struct {
	Success bool            `json:"success"`
	Expense ExpenseResponse `json:"expense"`
}

// ListExpensesResponse wraps the list of expenses.
type ListExpensesResponse struct {
	Success  bool              `json:"success"`
	Expenses []ExpenseResponse `json:"expenses"`
}

// ToExpenseResponse converts a domain.Expense to its response DTO.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ExpenseID,
		UserID:      e.UserID,
		Amount:      e.Amount,
		Category:    e.Category,
		Description: e.Description,
		Date:        domain.FormatTimestamp(e.Date),
	}
}

// ToListExpensesResponse converts a slice of domain.Expense to the list response.
func ToListExpensesResponse(expenses []domain.Expense) ListExpensesResponse {
	res := ListExpensesResponse{Success: true, Expenses: make([]ExpenseResponse, len(expenses))}
	for i := range expenses {
		res.Expenses[i] = ToExpenseResponse(&expenses[i])
	}
	return res
}
