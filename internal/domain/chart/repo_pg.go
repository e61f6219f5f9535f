package chart

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

const chartCols = `c.id, c.patient_id, c.tooth, c.date,
	c.referring_doctor, c.consult_reason, c.history,
	c.cause_caries, c.cause_trauma, c.cause_resorption, c.cause_prosthetic,
	c.cause_prior_treatment, c.cause_endo_periodontal, c.cause_other,
	c.pain_nature, c.pain_quality, c.pain_location, c.pain_radiates_to,
	c.pain_duration, c.pain_triggered_by,
	c.zone_normal, c.zone_swelling, c.zone_adenopathy, c.zone_palpation_pain,
	c.zone_fistula, c.zone_abscess,
	c.pocket_depth, c.mobility, c.suppuration,
	c.chamber_normal, c.chamber_narrow, c.chamber_wide, c.chamber_calcified,
	c.chamber_nodules, c.chamber_internal_resorption, c.chamber_external_resorption,
	c.active, c.created_at, c.updated_at`

const failureCols = `fc.coronal_leakage, fc.ledge, fc.periodontal_lesion,
	fc.fractured_instrument, fc.incomplete_treatment, fc.perforation,
	fc.underfilled, fc.prosthetic, fc.overfilled`

// scanChart reads chartCols plus nullable failureCols plus the joined
// patient name and record number.
func scanChart(row pgx.Row) (*Chart, error) {
	var (
		c  Chart
		fc struct {
			coronalLeakage      *bool
			ledge               *bool
			periodontalLesion   *bool
			fracturedInstrument *bool
			incompleteTreatment *bool
			perforation         *bool
			underfilled         *bool
			prosthetic          *bool
			overfilled          *bool
		}
	)
	err := row.Scan(
		&c.ID, &c.PatientID, &c.Tooth, &c.Date,
		&c.ReferringDoctor, &c.ConsultReason, &c.History,
		&c.Causes.Caries, &c.Causes.Trauma, &c.Causes.Resorption, &c.Causes.Prosthetic,
		&c.Causes.PriorTreatment, &c.Causes.EndoPeriodontal, &c.Causes.Other,
		&c.Pain.Nature, &c.Pain.Quality, &c.Pain.Location, &c.Pain.RadiatesTo,
		&c.Pain.Duration, &c.Pain.TriggeredBy,
		&c.Zone.Normal, &c.Zone.Swelling, &c.Zone.Adenopathy, &c.Zone.PalpationPain,
		&c.Zone.Fistula, &c.Zone.Abscess,
		&c.Periodontal.PocketDepth, &c.Periodontal.Mobility, &c.Periodontal.Suppuration,
		&c.Chamber.Normal, &c.Chamber.Narrow, &c.Chamber.Wide, &c.Chamber.Calcified,
		&c.Chamber.Nodules, &c.Chamber.InternalResorption, &c.Chamber.ExternalResorption,
		&c.Active, &c.CreatedAt, &c.UpdatedAt,
		&fc.coronalLeakage, &fc.ledge, &fc.periodontalLesion,
		&fc.fracturedInstrument, &fc.incompleteTreatment, &fc.perforation,
		&fc.underfilled, &fc.prosthetic, &fc.overfilled,
		&c.PatientName, &c.RecordNumber,
	)
	if err != nil {
		return nil, err
	}
	if fc.coronalLeakage != nil {
		c.FailureCauses = &FailureCauses{
			CoronalLeakage:      *fc.coronalLeakage,
			Ledge:               *fc.ledge,
			PeriodontalLesion:   *fc.periodontalLesion,
			FracturedInstrument: *fc.fracturedInstrument,
			IncompleteTreatment: *fc.incompleteTreatment,
			Perforation:         *fc.perforation,
			Underfilled:         *fc.underfilled,
			Prosthetic:          *fc.prosthetic,
			Overfilled:          *fc.overfilled,
		}
	}
	return &c, nil
}

const chartSelect = `
	SELECT ` + chartCols + `, ` + failureCols + `,
		p.first_name || ' ' || p.last_name AS patient_name, p.record_number
	FROM charts c
	LEFT JOIN chart_failure_causes fc ON fc.chart_id = c.id
	LEFT JOIN patients p ON p.id = c.patient_id`

func (r *repoPG) Create(ctx context.Context, c *Chart) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Active = true
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO charts (
			id, patient_id, tooth, date, referring_doctor, consult_reason, history,
			cause_caries, cause_trauma, cause_resorption, cause_prosthetic,
			cause_prior_treatment, cause_endo_periodontal, cause_other,
			pain_nature, pain_quality, pain_location, pain_radiates_to,
			pain_duration, pain_triggered_by,
			zone_normal, zone_swelling, zone_adenopathy, zone_palpation_pain,
			zone_fistula, zone_abscess,
			pocket_depth, mobility, suppuration,
			chamber_normal, chamber_narrow, chamber_wide, chamber_calcified,
			chamber_nodules, chamber_internal_resorption, chamber_external_resorption
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,
			$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34,$35,$36
		)
		RETURNING created_at, updated_at`,
		c.ID, c.PatientID, c.Tooth, c.Date, c.ReferringDoctor, c.ConsultReason, c.History,
		c.Causes.Caries, c.Causes.Trauma, c.Causes.Resorption, c.Causes.Prosthetic,
		c.Causes.PriorTreatment, c.Causes.EndoPeriodontal, c.Causes.Other,
		c.Pain.Nature, c.Pain.Quality, c.Pain.Location, c.Pain.RadiatesTo,
		c.Pain.Duration, c.Pain.TriggeredBy,
		c.Zone.Normal, c.Zone.Swelling, c.Zone.Adenopathy, c.Zone.PalpationPain,
		c.Zone.Fistula, c.Zone.Abscess,
		c.Periodontal.PocketDepth, c.Periodontal.Mobility, c.Periodontal.Suppuration,
		c.Chamber.Normal, c.Chamber.Narrow, c.Chamber.Wide, c.Chamber.Calcified,
		c.Chamber.Nodules, c.Chamber.InternalResorption, c.Chamber.ExternalResorption).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Chart, error) {
	c, err := scanChart(r.conn(ctx).QueryRow(ctx,
		chartSelect+` WHERE c.id = $1 AND c.active`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *repoPG) List(ctx context.Context, patientID *uuid.UUID, limit, offset int) ([]*Chart, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM charts
		WHERE active AND ($1::uuid IS NULL OR patient_id = $1)`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, chartSelect+`
		WHERE c.active AND ($1::uuid IS NULL OR c.patient_id = $1)
		ORDER BY c.date DESC, c.created_at DESC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Chart
	for rows.Next() {
		c, err := scanChart(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, c *Chart) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE charts SET
			tooth=$2, date=$3, referring_doctor=$4, consult_reason=$5, history=$6,
			cause_caries=$7, cause_trauma=$8, cause_resorption=$9, cause_prosthetic=$10,
			cause_prior_treatment=$11, cause_endo_periodontal=$12, cause_other=$13,
			pain_nature=$14, pain_quality=$15, pain_location=$16, pain_radiates_to=$17,
			pain_duration=$18, pain_triggered_by=$19,
			zone_normal=$20, zone_swelling=$21, zone_adenopathy=$22, zone_palpation_pain=$23,
			zone_fistula=$24, zone_abscess=$25,
			pocket_depth=$26, mobility=$27, suppuration=$28,
			chamber_normal=$29, chamber_narrow=$30, chamber_wide=$31, chamber_calcified=$32,
			chamber_nodules=$33, chamber_internal_resorption=$34, chamber_external_resorption=$35,
			updated_at=NOW()
		WHERE id = $1 AND active`,
		c.ID, c.Tooth, c.Date, c.ReferringDoctor, c.ConsultReason, c.History,
		c.Causes.Caries, c.Causes.Trauma, c.Causes.Resorption, c.Causes.Prosthetic,
		c.Causes.PriorTreatment, c.Causes.EndoPeriodontal, c.Causes.Other,
		c.Pain.Nature, c.Pain.Quality, c.Pain.Location, c.Pain.RadiatesTo,
		c.Pain.Duration, c.Pain.TriggeredBy,
		c.Zone.Normal, c.Zone.Swelling, c.Zone.Adenopathy, c.Zone.PalpationPain,
		c.Zone.Fistula, c.Zone.Abscess,
		c.Periodontal.PocketDepth, c.Periodontal.Mobility, c.Periodontal.Suppuration,
		c.Chamber.Normal, c.Chamber.Narrow, c.Chamber.Wide, c.Chamber.Calcified,
		c.Chamber.Nodules, c.Chamber.InternalResorption, c.Chamber.ExternalResorption)
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
		`UPDATE charts SET active=false, updated_at=NOW() WHERE id = $1 AND active`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) UpsertFailureCauses(ctx context.Context, chartID uuid.UUID, fc *FailureCauses) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO chart_failure_causes (
			chart_id, coronal_leakage, ledge, periodontal_lesion,
			fractured_instrument, incomplete_treatment, perforation,
			underfilled, prosthetic, overfilled
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (chart_id) DO UPDATE SET
			coronal_leakage=EXCLUDED.coronal_leakage,
			ledge=EXCLUDED.ledge,
			periodontal_lesion=EXCLUDED.periodontal_lesion,
			fractured_instrument=EXCLUDED.fractured_instrument,
			incomplete_treatment=EXCLUDED.incomplete_treatment,
			perforation=EXCLUDED.perforation,
			underfilled=EXCLUDED.underfilled,
			prosthetic=EXCLUDED.prosthetic,
			overfilled=EXCLUDED.overfilled`,
		chartID, fc.CoronalLeakage, fc.Ledge, fc.PeriodontalLesion,
		fc.FracturedInstrument, fc.IncompleteTreatment, fc.Perforation,
		fc.Underfilled, fc.Prosthetic, fc.Overfilled)
	return err
}

func (r *repoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM charts WHERE id = $1 AND active)`, id).Scan(&ok)
	return ok, err
}
