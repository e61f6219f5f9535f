package patient

import (
	"context"
	"errors"
	"strconv"

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

const patientCols = `id, record_number, first_name, last_name, age, address,
	phone, active, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.RecordNumber, &p.FirstName, &p.LastName, &p.Age,
		&p.Address, &p.Phone, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.Active = true
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (id, record_number, first_name, last_name, age, address, phone)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		p.ID, p.RecordNumber, p.FirstName, p.LastName, p.Age, p.Address, p.Phone).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1 AND active`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *repoPG) GetByRecordNumber(ctx context.Context, rn string) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE record_number = $1 AND active`, rn))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *repoPG) List(ctx context.Context, search string, limit, offset int) ([]*Patient, int, error) {
	where := `WHERE active`
	args := []any{}
	if search != "" {
		where += ` AND (first_name ILIKE $1 OR last_name ILIKE $1
			OR record_number ILIKE $1 OR phone ILIKE $1)`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM patients `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := `SELECT ` + patientCols + ` FROM patients ` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients
		SET first_name=$2, last_name=$3, age=$4, address=$5, phone=$6, updated_at=NOW()
		WHERE id = $1 AND active`,
		p.ID, p.FirstName, p.LastName, p.Age, p.Address, p.Phone)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE patients SET active=false, updated_at=NOW() WHERE id = $1 AND active`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1 AND active)`, id).Scan(&ok)
	return ok, err
}
