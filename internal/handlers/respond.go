package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/expense_tracker/internal/apperrors"
	"github.com/SscSPs/expense_tracker/internal/dto"
	"github.com/SscSPs/expense_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.As(err, &appErr) && appErr.Code != 0:
		return appErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope. Messages, including storage
// failures, are passed through verbatim.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
	} else {
		logger.Warn("Rejected request to "+action, slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.JSON(status, dto.ErrorResponse{Success: false, Error: err.Error()})
}

// respondBadRequest reports a request that failed binding.
func respondBadRequest(c *gin.Context, err error, prefix string) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: prefix + err.Error()})
}

// authorizeUser rejects requests whose target user differs from the
// authenticated subject. Unauthenticated deployments pass through.
func authorizeUser(c *gin.Context, userID string) bool {
	subject, ok := middleware.GetUserIDFromContext(c)
	if !ok || subject == userID {
		return true
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("User forbidden to access another user's ledger",
		slog.String("subject", subject),
		slog.String("target_user_id", userID))
	c.JSON(http.StatusForbidden, dto.ErrorResponse{Success: false, Error: apperrors.ErrForbidden.Error()})
	return false
}
