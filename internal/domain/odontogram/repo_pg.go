package odontogram

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odontia/clinic/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.FromContext(ctx, r.pool)
}

const toothCols = `id, chart_id, tooth, quadrant, state, notes, recorded_at, created_at`

func scanTooth(row pgx.Row) (*ToothRecord, error) {
	var t ToothRecord
	err := row.Scan(&t.ID, &t.ChartID, &t.Tooth, &t.Quadrant, &t.State,
		&t.Notes, &t.RecordedAt, &t.CreatedAt)
	return &t, err
}

func (r *repoPG) Upsert(ctx context.Context, rec *ToothRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO odontogram_teeth (id, chart_id, tooth, quadrant, state, notes, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,CURRENT_DATE)
		ON CONFLICT (chart_id, tooth) DO UPDATE SET
			quadrant=EXCLUDED.quadrant,
			state=EXCLUDED.state,
			notes=EXCLUDED.notes,
			recorded_at=CURRENT_DATE
		RETURNING id, recorded_at, created_at`,
		rec.ID, rec.ChartID, rec.Tooth, rec.Quadrant, rec.State, rec.Notes).
		Scan(&rec.ID, &rec.RecordedAt, &rec.CreatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*ToothRecord, error) {
	t, err := scanTooth(r.conn(ctx).QueryRow(ctx,
		`SELECT `+toothCols+` FROM odontogram_teeth WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func (r *repoPG) ListByChart(ctx context.Context, chartID uuid.UUID) ([]*ToothRecord, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+toothCols+` FROM odontogram_teeth WHERE chart_id = $1 ORDER BY tooth ASC`,
		chartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repoPG) History(ctx context.Context, chartID uuid.UUID, tooth int) ([]*ToothRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+toothCols+` FROM odontogram_teeth
		WHERE chart_id = $1 AND tooth = $2
		ORDER BY recorded_at DESC, created_at DESC`,
		chartID, tooth)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows pgx.Rows) ([]*ToothRecord, error) {
	var out []*ToothRecord
	for rows.Next() {
		t, err := scanTooth(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, rec *ToothRecord) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE odontogram_teeth
		SET state=$2, notes=$3, recorded_at=CURRENT_DATE
		WHERE id = $1`,
		rec.ID, rec.State, rec.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM odontogram_teeth WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
