package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget is the billing aggregate for a single clinical chart. Total is the
// authorized sum of its line items, TotalPaid the sum of applied payments,
// and Balance always equals Total minus TotalPaid.
type Budget struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	ChartID   uuid.UUID       `db:"chart_id" json:"chart_id"`
	Total     decimal.Decimal `db:"total" json:"total"`
	TotalPaid decimal.Decimal `db:"total_paid" json:"total_paid"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Paid-state bands derived from the aggregate fields. There is no persisted
// status column; the band is always computed.
const (
	StateUnpaid        = "unpaid"
	StatePartiallyPaid = "partially_paid"
	StateSettled       = "settled"
)

// State reports which paid-state band the budget is in.
func (b *Budget) State() string {
	switch {
	case b.Balance.IsZero():
		return StateSettled
	case b.TotalPaid.IsZero():
		return StateUnpaid
	default:
		return StatePartiallyPaid
	}
}

// LineItem is one billable entry contributing to a budget's total.
type LineItem struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	BudgetID    uuid.UUID       `db:"budget_id" json:"budget_id"`
	Seq         int             `db:"seq" json:"seq"`
	Description string          `db:"description" json:"description"`
	UnitCost    decimal.Decimal `db:"unit_cost" json:"unit_cost"`
	Quantity    int             `db:"quantity" json:"quantity"`
	Total       decimal.Decimal `db:"total" json:"total"`
}

// Payment is an append-only ledger movement. BalanceBefore and BalanceAfter
// snapshot the budget balance around the application so the history alone
// reconstructs every intermediate state.
type Payment struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	BudgetID      uuid.UUID       `db:"budget_id" json:"budget_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Date          time.Time       `db:"date" json:"date"`
	Note          *string         `db:"note" json:"note,omitempty"`
	BalanceBefore decimal.Decimal `db:"balance_before" json:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after" json:"balance_after"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// LineItemInput is a line item as submitted by a caller, before the line
// total is computed.
type LineItemInput struct {
	Seq         int             `json:"seq"`
	Description string          `json:"description"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Quantity    int             `json:"quantity"`
}

// Aggregate is the full read model: the budget plus its line items ordered
// by sequence and its payments most-recent-first.
type Aggregate struct {
	Budget    *Budget     `json:"budget"`
	State     string      `json:"state"`
	LineItems []*LineItem `json:"line_items"`
	Payments  []*Payment  `json:"payments"`
}
