package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/odontia/clinic/internal/platform/db"
	"github.com/odontia/clinic/pkg/clock"
)

var (
	ErrNotFound       = errors.New("budget not found")
	ErrChartNotFound  = errors.New("chart not found")
	ErrAlreadyExists  = errors.New("chart already has a budget")
	ErrNoLineItems    = errors.New("at least one line item is required")
	ErrInvalidItem    = errors.New("invalid line item")
	ErrInvalidAmount  = errors.New("payment amount must be positive")
	ErrTotalBelowPaid = errors.New("new total is below the amount already paid")
)

// BalanceError rejects a payment larger than the remaining balance. The
// payment is refused outright, never capped or partially applied.
type BalanceError struct {
	Amount  decimal.Decimal
	Balance decimal.Decimal
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("payment of %s exceeds balance of %s", e.Amount, e.Balance)
}

// Service owns the billing aggregate. Every mutation runs in a single
// transaction and locks the budget row first, so concurrent payments and
// line-item rewrites against the same budget serialize.
type Service struct {
	repo   Repository
	charts ChartDirectory
	txRun  db.TxRunner
	clock  clock.Clock
}

func NewService(repo Repository, charts ChartDirectory, txRun db.TxRunner, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.System()
	}
	return &Service{repo: repo, charts: charts, txRun: txRun, clock: clk}
}

// validateItems checks the submitted line items and computes each line
// total. Quantity defaults to 1 when omitted.
func validateItems(inputs []LineItemInput) ([]*LineItem, decimal.Decimal, error) {
	if len(inputs) == 0 {
		return nil, decimal.Zero, ErrNoLineItems
	}

	items := make([]*LineItem, 0, len(inputs))
	total := decimal.Zero
	for i, in := range inputs {
		if in.Seq < 1 {
			return nil, decimal.Zero, fmt.Errorf("%w %d: sequence number must be positive", ErrInvalidItem, i+1)
		}
		if in.Description == "" {
			return nil, decimal.Zero, fmt.Errorf("%w %d: description is required", ErrInvalidItem, i+1)
		}
		if in.UnitCost.IsNegative() {
			return nil, decimal.Zero, fmt.Errorf("%w %d: unit cost cannot be negative", ErrInvalidItem, i+1)
		}
		qty := in.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 1 {
			return nil, decimal.Zero, fmt.Errorf("%w %d: quantity must be at least 1", ErrInvalidItem, i+1)
		}

		lineTotal := in.UnitCost.Mul(decimal.NewFromInt(int64(qty)))
		items = append(items, &LineItem{
			Seq:         in.Seq,
			Description: in.Description,
			UnitCost:    in.UnitCost,
			Quantity:    qty,
			Total:       lineTotal,
		})
		total = total.Add(lineTotal)
	}
	return items, total, nil
}

// Open creates the budget for a chart from an initial line-item set. The
// one-budget-per-chart rule is checked inside the transaction on top of the
// unique index on chart_id.
func (s *Service) Open(ctx context.Context, chartID uuid.UUID, inputs []LineItemInput) (*Aggregate, error) {
	items, total, err := validateItems(inputs)
	if err != nil {
		return nil, err
	}

	b := &Budget{
		ChartID:   chartID,
		Total:     total,
		TotalPaid: decimal.Zero,
		Balance:   total,
	}
	err = s.txRun(ctx, func(ctx context.Context) error {
		ok, err := s.charts.Exists(ctx, chartID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrChartNotFound
		}

		if _, err := s.repo.GetBudgetByChart(ctx, chartID); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		if err := s.repo.CreateBudget(ctx, b); err != nil {
			return err
		}
		return s.repo.InsertLineItems(ctx, b.ID, items)
	})
	if err != nil {
		return nil, err
	}

	return &Aggregate{Budget: b, State: b.State(), LineItems: items, Payments: []*Payment{}}, nil
}

// ReplaceLineItems discards the budget's line items and installs the
// replacement set, recomputing total and balance. Payments are untouched;
// a replacement whose total falls below what was already paid is rejected,
// a balance is never negative.
func (s *Service) ReplaceLineItems(ctx context.Context, id uuid.UUID, inputs []LineItemInput) (*Aggregate, error) {
	items, total, err := validateItems(inputs)
	if err != nil {
		return nil, err
	}

	var b *Budget
	err = s.txRun(ctx, func(ctx context.Context) error {
		b, err = s.repo.GetBudgetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if total.LessThan(b.TotalPaid) {
			return ErrTotalBelowPaid
		}

		b.Total = total
		b.Balance = total.Sub(b.TotalPaid)
		if err := s.repo.DeleteLineItems(ctx, id); err != nil {
			return err
		}
		if err := s.repo.InsertLineItems(ctx, id, items); err != nil {
			return err
		}
		return s.repo.UpdateBudgetTotals(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	payments, err := s.repo.ListPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Aggregate{Budget: b, State: b.State(), LineItems: items, Payments: payments}, nil
}

// PayInput carries a payment to apply. Date defaults to today when zero.
type PayInput struct {
	Amount decimal.Decimal
	Date   time.Time
	Note   *string
}

// Pay applies a payment against the budget balance. The budget row is
// locked before the bound check so two concurrent payments cannot both read
// the same balance.
func (s *Service) Pay(ctx context.Context, id uuid.UUID, in PayInput) (*Payment, *Budget, error) {
	if !in.Amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}
	date := in.Date
	if date.IsZero() {
		now := s.clock.Now().UTC()
		date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	var (
		b *Budget
		p *Payment
	)
	err := s.txRun(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.repo.GetBudgetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if in.Amount.GreaterThan(b.Balance) {
			return &BalanceError{Amount: in.Amount, Balance: b.Balance}
		}

		p = &Payment{
			BudgetID:      id,
			Amount:        in.Amount,
			Date:          date,
			Note:          in.Note,
			BalanceBefore: b.Balance,
			BalanceAfter:  b.Balance.Sub(in.Amount),
		}
		if err := s.repo.InsertPayment(ctx, p); err != nil {
			return err
		}

		b.TotalPaid = b.TotalPaid.Add(in.Amount)
		b.Balance = p.BalanceAfter
		return s.repo.UpdateBudgetTotals(ctx, b)
	})
	if err != nil {
		return nil, nil, err
	}
	return p, b, nil
}

// Get returns the full aggregate: budget, line items by sequence, payments
// most-recent-first.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Aggregate, error) {
	b, err := s.repo.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.loadAggregate(ctx, b)
}

// GetByChart resolves the aggregate through the owning chart.
func (s *Service) GetByChart(ctx context.Context, chartID uuid.UUID) (*Aggregate, error) {
	b, err := s.repo.GetBudgetByChart(ctx, chartID)
	if err != nil {
		return nil, err
	}
	return s.loadAggregate(ctx, b)
}

func (s *Service) loadAggregate(ctx context.Context, b *Budget) (*Aggregate, error) {
	items, err := s.repo.ListLineItems(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.ListPayments(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*LineItem{}
	}
	if payments == nil {
		payments = []*Payment{}
	}
	return &Aggregate{Budget: b, State: b.State(), LineItems: items, Payments: payments}, nil
}

func (s *Service) ListPayments(ctx context.Context, id uuid.UUID) ([]*Payment, error) {
	if _, err := s.repo.GetBudget(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListPayments(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Budget, int, error) {
	return s.repo.ListBudgets(ctx, limit, offset)
}

// Delete removes the budget with its line items and payments. The schema
// cascades on the foreign keys; the explicit deletes keep the behavior
// independent of it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.txRun(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetBudgetForUpdate(ctx, id); err != nil {
			return err
		}
		if err := s.repo.DeletePayments(ctx, id); err != nil {
			return err
		}
		if err := s.repo.DeleteLineItems(ctx, id); err != nil {
			return err
		}
		return s.repo.DeleteBudget(ctx, id)
	})
}
