package scheduling

import (
	"context"
	"errors"
	"time"

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

const apptCols = `id, patient_id, date, start_minute, end_minute, status,
	reason, notes, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.Date, &a.Start, &a.End, &a.Status,
		&a.Reason, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func scanAppointmentWithPatient(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.Date, &a.Start, &a.End, &a.Status,
		&a.Reason, &a.Notes, &a.CreatedAt, &a.UpdatedAt, &a.PatientName, &a.RecordNumber)
	return &a, err
}

// LockDate takes an advisory transaction lock keyed on the date. Row locks
// alone cannot serialize bookings into an empty slot, since there is no row
// to lock yet; the date lock closes that window. Released at commit or
// rollback.
func (r *repoPG) LockDate(ctx context.Context, date time.Time) error {
	_, err := r.conn(ctx).Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext('appointments:' || $1::date))`, date)
	return err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, date, start_minute, end_minute, status, reason, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.Date, a.Start, a.End, a.Status, a.Reason, a.Notes).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments
		SET patient_id=$2, date=$3, start_minute=$4, end_minute=$5,
			status=$6, reason=$7, notes=$8, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.PatientID, a.Date, a.Start, a.End, a.Status, a.Reason, a.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE appointments SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListOverlapping scans the date for colliding active rows. Callers hold the
// date lock from LockDate before scanning; FOR UPDATE additionally pins the
// colliders so a concurrent reschedule cannot move one out from under us.
func (r *repoPG) ListOverlapping(ctx context.Context, date time.Time, start, end TimeOfDay, exclude *uuid.UUID) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+`
		FROM appointments
		WHERE date = $1
		  AND status NOT IN ($2, $3)
		  AND start_minute < $5 AND end_minute > $4
		  AND ($6::uuid IS NULL OR id <> $6)
		ORDER BY start_minute
		FOR UPDATE`,
		date, StatusCancelled, StatusNoShow, start, end, exclude)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

const apptJoinCols = `a.id, a.patient_id, a.date, a.start_minute, a.end_minute, a.status,
	a.reason, a.notes, a.created_at, a.updated_at,
	p.first_name || ' ' || p.last_name AS patient_name, p.record_number`

func (r *repoPG) ListByDate(ctx context.Context, date time.Time) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptJoinCols+`
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		WHERE a.date = $1
		ORDER BY a.start_minute`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWithPatient(rows)
}

func (r *repoPG) ListByRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE date BETWEEN $1 AND $2`, from, to).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptJoinCols+`
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		WHERE a.date BETWEEN $1 AND $2
		ORDER BY a.date, a.start_minute
		LIMIT $3 OFFSET $4`, from, to, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := collectWithPatient(rows)
	return items, total, err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+`
		FROM appointments
		WHERE patient_id = $1
		ORDER BY date DESC, start_minute DESC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListUpcoming(ctx context.Context, from time.Time, days int) ([]*Appointment, error) {
	to := from.AddDate(0, 0, days)
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptJoinCols+`
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		WHERE a.date BETWEEN $1 AND $2
		  AND a.status IN ($3, $4)
		ORDER BY a.date, a.start_minute`,
		from, to, StatusScheduled, StatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWithPatient(rows)
}

func collectWithPatient(rows pgx.Rows) ([]*Appointment, error) {
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointmentWithPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
