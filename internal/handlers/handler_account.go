package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/expense_tracker/internal/dto"
	"github.com/SscSPs/expense_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to account aggregates.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	rg.GET("/user_profile/:userId", h.getProfile)
	rg.GET("/account_summary/:userId", h.getAccountSummary)
	rg.POST("/set_balance", h.setBalance)
}

// getProfile godoc
// @Summary Get a user's display name
// @Tags accounts
// @Produce  json
// @Param   userId path string true "User ID"
// @Success 200 {object} dto.ProfileResponse
// @Failure 403 {object} dto.ErrorResponse "Forbidden (another user's account)"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Storage failure"
// @Security BearerAuth
// @Router /user_profile/{userId} [get]
func (h *accountHandler) getProfile(c *gin.Context) {
	userID := c.Param("userId")
	if !authorizeUser(c, userID) {
		return
	}

	name, err := h.accountService.GetProfileName(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "get profile")
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{Success: true, Name: name})
}

// getAccountSummary godoc
// @Summary Get a user's balance and total expenses
// @Tags accounts
// @Produce  json
// @Param   userId path string true "User ID"
// @Success 200 {object} dto.AccountSummaryResponse
// @Failure 403 {object} dto.ErrorResponse "Forbidden (another user's account)"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Storage failure"
// @Security BearerAuth
// @Router /account_summary/{userId} [get]
func (h *accountHandler) getAccountSummary(c *gin.Context) {
	userID := c.Param("userId")
	if !authorizeUser(c, userID) {
		return
	}

	account, err := h.accountService.GetAccountSummary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "get account summary")
		return
	}

	c.JSON(http.StatusOK, dto.AccountSummaryResponse{Success: true, Account: dto.ToAccountResponse(account)})
}

// setBalance godoc
// @Summary Overwrite a user's balance
// @Description Sets the balance and resets totalExpenses to zero. Existing expenses are kept; use reconcile to re-derive the total.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   balance body dto.SetBalanceRequest true "New balance"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid fields"
// @Failure 403 {object} dto.ErrorResponse "Forbidden (another user's account)"
// @Failure 500 {object} dto.ErrorResponse "Storage failure"
// @Security BearerAuth
// @Router /set_balance [post]
func (h *accountHandler) setBalance(c *gin.Context) {
	var req dto.SetBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err, "Invalid request format: ")
		return
	}
	if !authorizeUser(c, req.UserID) {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("target_user_id", req.UserID))
	logger.Info("Received request to set balance")

	if _, err := h.accountService.SetBalance(c.Request.Context(), req.UserID, *req.Balance); err != nil {
		respondError(c, err, "set balance")
		return
	}

	logger.Info("Balance set successfully")
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "Balance updated successfully"})
}
