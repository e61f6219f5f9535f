package ledger

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists budgets, line items, and payments. Implementations
// read the active transaction from the context when one is present, so a
// service-level transaction spans every call made inside it.
type Repository interface {
	CreateBudget(ctx context.Context, b *Budget) error
	// GetBudget returns ErrNotFound when the id is unknown.
	GetBudget(ctx context.Context, id uuid.UUID) (*Budget, error)
	// GetBudgetForUpdate locks the budget row for the duration of the
	// surrounding transaction. Callers must be inside one.
	GetBudgetForUpdate(ctx context.Context, id uuid.UUID) (*Budget, error)
	GetBudgetByChart(ctx context.Context, chartID uuid.UUID) (*Budget, error)
	UpdateBudgetTotals(ctx context.Context, b *Budget) error
	DeleteBudget(ctx context.Context, id uuid.UUID) error
	ListBudgets(ctx context.Context, limit, offset int) ([]*Budget, int, error)

	InsertLineItems(ctx context.Context, budgetID uuid.UUID, items []*LineItem) error
	DeleteLineItems(ctx context.Context, budgetID uuid.UUID) error
	ListLineItems(ctx context.Context, budgetID uuid.UUID) ([]*LineItem, error)

	InsertPayment(ctx context.Context, p *Payment) error
	DeletePayments(ctx context.Context, budgetID uuid.UUID) error
	ListPayments(ctx context.Context, budgetID uuid.UUID) ([]*Payment, error)
}

// ChartDirectory answers whether a clinical chart exists. The chart domain
// provides the real implementation.
type ChartDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
