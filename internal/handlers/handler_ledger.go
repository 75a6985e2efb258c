package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/expense_tracker/internal/dto"
	"github.com/SscSPs/expense_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests that read or change a user's expenses.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers the expense routes on rg.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	rg.POST("/add_expense", h.addExpense)
	rg.GET("/get_expenses", h.listExpenses)
	rg.DELETE("/delete_expense/:userId/:expenseId", h.deleteExpense)
	rg.PUT("/edit_expense/:userId/:expenseId", h.editExpense)
	rg.POST("/reconcile/:userId", h.reconcileAccount)
}

// addExpense godoc
// @Summary Record an expense
// @Description Records an expense and debits it from the user's account. Without a category the description is categorized automatically. An empty date means now.
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   expense body dto.AddExpenseRequest true "Expense details"
// @Success 200 {object} dto.AddExpenseResponse
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid fields"
// @Failure 403 {object} dto.ErrorResponse "Forbidden (another user's ledger)"
// @Failure 500 {object} dto.ErrorResponse "Storage failure"
// @Security BearerAuth
// @Router /add_expense [post]
func (h *ledgerHandler) addExpense(c *gin.Context) {
	var req dto.AddExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err, "Invalid request format: ")
		return
	}
	if !authorizeUser(c, req.UserID) {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("target_user_id", req.UserID))
	logger.Info("Received request to add expense")

	expense, err := h.ledgerService.AddExpense(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "add expense")
		return
	}

	logger.Info("Expense added successfully", slog.String("expense_id", expense.ExpenseID), slog.String("category", expense.Category.String()))
	c.JSON(http.StatusOK, dto.AddExpenseResponse{
		Success:  true,
		Expense:  dto.ToExpenseResponse(expense),
		Category: expense.Category,
	})
}

// listExpenses godoc
// @Summary List a user's expenses
// @Description Retrieves every expense of the user, newest first
// @Tags expenses
// @Produce  json
// @Param   user_id query string true "User ID"
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 400 {object} dto.ErrorResponse "Missing user_id"
// @Failure 403 {object} dto.ErrorResponse "Forbidden (another user's ledger)"
// @Failure 500 {object} dto.ErrorResponse "Storage failure"
// @Security BearerAuth
// @Router /get_expenses [get]
func (h *ledgerHandler) listExpenses(c *gin.Context) {
	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, err, "Invalid query parameters: ")
		return
	}
	if !authorizeUser(c, params.UserID) {
		return
	}

	expenses, err := h.ledgerService.ListExpenses(c.Request.Context(), params.UserID)
	if err != nil {
		respondError(c, err, "list expenses")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Debug("Expenses listed", slog.Int("count", len(expenses)))
	c.JSON(http.StatusOK, dto.ToListExpensesResponse(expenses))
}

// deleteExpense godoc
// @Summary Delete an expense
// @Description Removes an expense and credits its amount back to the user's account
// @Tags expenses
// @Produce  json
// @Param   userId path string true "User ID"
// @Param   expenseId path string true "Expense ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse "Forbidden (another user's ledger)"
// @Failure 404 {object} dto.ErrorResponse "Expense not found"
// @Failure 500 {object} dto.ErrorResponse "Storage failure"
// @Security BearerAuth
// @Router /delete_expense/{userId}/{expenseId} [delete]
func (h *ledgerHandler) deleteExpense(c *gin.Context) {
	userID := c.Param("userId")
	expenseID := c.Param("expenseId")
	if !authorizeUser(c, userID) {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("target_user_id", userID),
		slog.String("expense_id", expenseID))
	logger.Info("Received request to delete expense")

	if _, err := h.ledgerService.DeleteExpense(c.Request.Context(), userID, expenseID); err != nil {
		respondError(c, err, "delete expense")
		return
	}

	logger.Info("Expense deleted successfully")
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "Expense deleted successfully"})
}

// editExpense godoc
// @Summary Edit an expense
// @Description Updates amount, category or description of an expense. The amount difference is applied to the user's account; the date never changes.
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   userId path string true "User ID"
// @Param   expenseId path string true "Expense ID"
// @Param   expense body dto.EditExpenseRequest true "Fields to change"
// @Success 200 {object} dto.ExpenseEnvelope
// @Failure 400 {object} dto.ErrorResponse "Invalid fields"
// @Failure 403 {object} dto.ErrorResponse "Forbidden (another user's ledger)"
// @Failure 404 {object} dto.ErrorResponse "Expense not found"
// @Failure 500 {object} dto.ErrorResponse "Storage failure"
// @Security BearerAuth
// @Router /edit_expense/{userId}/{expenseId} [put]
func (h *ledgerHandler) editExpense(c *gin.Context) {
	userID := c.Param("userId")
	expenseID := c.Param("expenseId")
	if !authorizeUser(c, userID) {
		return
	}

	var req dto.EditExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err, "Invalid request format: ")
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("target_user_id", userID),
		slog.String("expense_id", expenseID))
	logger.Info("Received request to edit expense")

	expense, err := h.ledgerService.EditExpense(c.Request.Context(), userID, expenseID, req)
	if err != nil {
		respondError(c, err, "edit expense")
		return
	}

	logger.Info("Expense edited successfully")
	c.JSON(http.StatusOK, dto.ExpenseEnvelope{Success: true, Expense: dto.ToExpenseResponse(expense)})
}

// reconcileAccount godoc
// @Summary Reconcile an account with its expenses
// @Description Recomputes totalExpenses from the stored expenses and shifts the balance by the same correction, preserving the initial balance
// @Tags accounts
// @Produce  json
// @Param   userId path string true "User ID"
// @Success 200 {object} dto.ReconcileResponse
// @Failure 403 {object} dto.ErrorResponse "Forbidden (another user's ledger)"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Storage failure"
// @Security BearerAuth
// @Router /reconcile/{userId} [post]
func (h *ledgerHandler) reconcileAccount(c *gin.Context) {
	userID := c.Param("userId")
	if !authorizeUser(c, userID) {
		return
	}

	account, correction, err := h.ledgerService.ReconcileAccount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "reconcile account")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account reconciled",
		slog.String("target_user_id", userID),
		slog.String("total_correction", correction.TotalExpenses.String()))
	c.JSON(http.StatusOK, dto.ReconcileResponse{
		Success:    true,
		Account:    dto.ToAccountResponse(account),
		Correction: dto.ToDeltaResponse(correction),
	})
}
