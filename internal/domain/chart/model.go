package chart

import (
	"time"

	"github.com/google/uuid"
)

// ValidTooth accepts FDI notation (11-18, 21-28, 31-38, 41-48) or the
// simple 1-32 numbering.
func ValidTooth(n int) bool {
	if n >= 1 && n <= 32 {
		return true
	}
	q, p := n/10, n%10
	return q >= 1 && q <= 4 && p >= 1 && p <= 8
}

// CauseFlags records why the endodontic treatment was indicated.
type CauseFlags struct {
	Caries          bool    `json:"caries"`
	Trauma          bool    `json:"trauma"`
	Resorption      bool    `json:"resorption"`
	Prosthetic      bool    `json:"prosthetic"`
	PriorTreatment  bool    `json:"prior_treatment"`
	EndoPeriodontal bool    `json:"endo_periodontal"`
	Other           *string `json:"other,omitempty"`
}

// PainDescriptors characterize the presenting pain.
type PainDescriptors struct {
	Nature      *string `json:"nature,omitempty"`
	Quality     *string `json:"quality,omitempty"`
	Location    *string `json:"location,omitempty"`
	RadiatesTo  *string `json:"radiates_to,omitempty"`
	Duration    *string `json:"duration,omitempty"`
	TriggeredBy *string `json:"triggered_by,omitempty"`
}

// PeriapicalZone is the clinical exam of the periapical region.
type PeriapicalZone struct {
	Normal        bool `json:"normal"`
	Swelling      bool `json:"swelling"`
	Adenopathy    bool `json:"adenopathy"`
	PalpationPain bool `json:"palpation_pain"`
	Fistula       bool `json:"fistula"`
	Abscess       bool `json:"abscess"`
}

// PeriodontalExam holds pocket depth in millimeters, mobility grade 0-3,
// and suppuration.
type PeriodontalExam struct {
	PocketDepth *float64 `json:"pocket_depth,omitempty"`
	Mobility    int      `json:"mobility"`
	Suppuration bool     `json:"suppuration"`
}

// ChamberFindings is the radiographic evaluation of the pulp chamber.
type ChamberFindings struct {
	Normal             bool `json:"normal"`
	Narrow             bool `json:"narrow"`
	Wide               bool `json:"wide"`
	Calcified          bool `json:"calcified"`
	Nodules            bool `json:"nodules"`
	InternalResorption bool `json:"internal_resorption"`
	ExternalResorption bool `json:"external_resorption"`
}

// FailureCauses is the optional child record explaining why a previous
// treatment failed. At most one per chart.
type FailureCauses struct {
	CoronalLeakage      bool `json:"coronal_leakage"`
	Ledge               bool `json:"ledge"`
	PeriodontalLesion   bool `json:"periodontal_lesion"`
	FracturedInstrument bool `json:"fractured_instrument"`
	IncompleteTreatment bool `json:"incomplete_treatment"`
	Perforation         bool `json:"perforation"`
	Underfilled         bool `json:"underfilled"`
	Prosthetic          bool `json:"prosthetic"`
	Overfilled          bool `json:"overfilled"`
}

// Chart is an endodontic clinical record for one tooth of one patient.
type Chart struct {
	ID              uuid.UUID       `json:"id"`
	PatientID       uuid.UUID       `json:"patient_id"`
	Tooth           int             `json:"tooth"`
	Date            time.Time       `json:"date"`
	ReferringDoctor *string         `json:"referring_doctor,omitempty"`
	ConsultReason   *string         `json:"consult_reason,omitempty"`
	History         *string         `json:"history,omitempty"`
	Causes          CauseFlags      `json:"causes"`
	Pain            PainDescriptors `json:"pain"`
	Zone            PeriapicalZone  `json:"zone"`
	Periodontal     PeriodontalExam `json:"periodontal"`
	Chamber         ChamberFindings `json:"chamber"`
	FailureCauses   *FailureCauses  `json:"failure_causes,omitempty"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Joined from patients on reads.
	PatientName  *string `json:"patient_name,omitempty"`
	RecordNumber *string `json:"record_number,omitempty"`
}

// Patch holds the updatable parts of a chart. Scalar fields are pointers;
// the exam groups are replaced wholesale when present.
type Patch struct {
	Tooth           *int             `json:"tooth,omitempty"`
	Date            *time.Time       `json:"date,omitempty"`
	ReferringDoctor *string          `json:"referring_doctor,omitempty"`
	ConsultReason   *string          `json:"consult_reason,omitempty"`
	History         *string          `json:"history,omitempty"`
	Causes          *CauseFlags      `json:"causes,omitempty"`
	Pain            *PainDescriptors `json:"pain,omitempty"`
	Zone            *PeriapicalZone  `json:"zone,omitempty"`
	Periodontal     *PeriodontalExam `json:"periodontal,omitempty"`
	Chamber         *ChamberFindings `json:"chamber,omitempty"`
	FailureCauses   *FailureCauses   `json:"failure_causes,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p.Tooth == nil && p.Date == nil && p.ReferringDoctor == nil &&
		p.ConsultReason == nil && p.History == nil && p.Causes == nil &&
		p.Pain == nil && p.Zone == nil && p.Periodontal == nil &&
		p.Chamber == nil && p.FailureCauses == nil
}
