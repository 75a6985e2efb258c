package events

import (
	"context"

	"github.com/SscSPs/expense_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/expense_tracker/internal/middleware"
)

// LogPublisher writes events to the request logger instead of a broker.
type LogPublisher struct{}

var _ portssvc.LedgerEventPublisher = LogPublisher{}

func (LogPublisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	middleware.GetLoggerFromCtx(ctx).DebugContext(ctx, "Ledger event",
		"type", event.Type,
		"user_id", event.UserID,
		"expense_id", event.ExpenseID,
		"amount", event.Amount.String(),
		"balance_delta", event.Delta.Balance.String(),
		"total_delta", event.Delta.TotalExpenses.String())
	return nil
}
