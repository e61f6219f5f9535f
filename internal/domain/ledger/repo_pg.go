package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odontia/clinic/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.FromContext(ctx, r.pool)
}

const budgetCols = `id, chart_id, total, total_paid, balance, created_at, updated_at`

func scanBudget(row pgx.Row) (*Budget, error) {
	var b Budget
	err := row.Scan(&b.ID, &b.ChartID, &b.Total, &b.TotalPaid, &b.Balance,
		&b.CreatedAt, &b.UpdatedAt)
	return &b, err
}

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// CreateBudget inserts the budget row. Two racing opens for the same chart
// both pass the service's pre-check; the unique index on chart_id rejects
// the loser and the violation surfaces as ErrAlreadyExists.
func (r *repoPG) CreateBudget(ctx context.Context, b *Budget) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO budgets (id, chart_id, total, total_paid, balance)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at`,
		b.ID, b.ChartID, b.Total, b.TotalPaid, b.Balance).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

func (r *repoPG) GetBudget(ctx context.Context, id uuid.UUID) (*Budget, error) {
	b, err := scanBudget(r.conn(ctx).QueryRow(ctx,
		`SELECT `+budgetCols+` FROM budgets WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (r *repoPG) GetBudgetForUpdate(ctx context.Context, id uuid.UUID) (*Budget, error) {
	b, err := scanBudget(r.conn(ctx).QueryRow(ctx,
		`SELECT `+budgetCols+` FROM budgets WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (r *repoPG) GetBudgetByChart(ctx context.Context, chartID uuid.UUID) (*Budget, error) {
	b, err := scanBudget(r.conn(ctx).QueryRow(ctx,
		`SELECT `+budgetCols+` FROM budgets WHERE chart_id = $1`, chartID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (r *repoPG) UpdateBudgetTotals(ctx context.Context, b *Budget) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE budgets
		SET total=$2, total_paid=$3, balance=$4, updated_at=NOW()
		WHERE id = $1`,
		b.ID, b.Total, b.TotalPaid, b.Balance)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListBudgets(ctx context.Context, limit, offset int) ([]*Budget, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM budgets`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+budgetCols+` FROM budgets ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *repoPG) InsertLineItems(ctx context.Context, budgetID uuid.UUID, items []*LineItem) error {
	for _, it := range items {
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		it.BudgetID = budgetID
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO budget_line_items (id, budget_id, seq, description, unit_cost, quantity, total)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			it.ID, it.BudgetID, it.Seq, it.Description, it.UnitCost, it.Quantity, it.Total)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) DeleteLineItems(ctx context.Context, budgetID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM budget_line_items WHERE budget_id = $1`, budgetID)
	return err
}

func (r *repoPG) ListLineItems(ctx context.Context, budgetID uuid.UUID) ([]*LineItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, budget_id, seq, description, unit_cost, quantity, total
		FROM budget_line_items
		WHERE budget_id = $1
		ORDER BY seq ASC`, budgetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*LineItem
	for rows.Next() {
		var it LineItem
		if err := rows.Scan(&it.ID, &it.BudgetID, &it.Seq, &it.Description,
			&it.UnitCost, &it.Quantity, &it.Total); err != nil {
			return nil, err
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

func (r *repoPG) InsertPayment(ctx context.Context, p *Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO budget_payments (id, budget_id, amount, date, note, balance_before, balance_after)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at`,
		p.ID, p.BudgetID, p.Amount, p.Date, p.Note, p.BalanceBefore, p.BalanceAfter).
		Scan(&p.CreatedAt)
}

func (r *repoPG) DeletePayments(ctx context.Context, budgetID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM budget_payments WHERE budget_id = $1`, budgetID)
	return err
}

func (r *repoPG) ListPayments(ctx context.Context, budgetID uuid.UUID) ([]*Payment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, budget_id, amount, date, note, balance_before, balance_after, created_at
		FROM budget_payments
		WHERE budget_id = $1
		ORDER BY created_at DESC, date DESC`, budgetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.BudgetID, &p.Amount, &p.Date, &p.Note,
			&p.BalanceBefore, &p.BalanceAfter, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
