package odontogram

import (
	"time"

	"github.com/google/uuid"
)

// States a tooth can be recorded in. The list is fixed; the handler
// exposes it so clients never hardcode it.
var States = []string{
	"healthy",
	"caries",
	"filled",
	"root_canal",
	"crown",
	"bridge",
	"extracted",
	"implant",
	"fracture",
	"missing",
	"in_treatment",
}

func ValidState(s string) bool {
	for _, v := range States {
		if v == s {
			return true
		}
	}
	return false
}

// ToothRecord is the current state of one tooth on a chart's odontogram.
// One row per (chart, tooth); batch saves upsert in place.
type ToothRecord struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ChartID    uuid.UUID `db:"chart_id" json:"chart_id"`
	Tooth      int       `db:"tooth" json:"tooth"`
	Quadrant   int       `db:"quadrant" json:"quadrant"`
	State      string    `db:"state" json:"state"`
	Notes      *string   `db:"notes" json:"notes,omitempty"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ToothInput is one tooth in a batch save.
type ToothInput struct {
	Tooth    int     `json:"tooth"`
	Quadrant int     `json:"quadrant"`
	State    string  `json:"state"`
	Notes    *string `json:"notes"`
}

// Odontogram is the chart's teeth grouped by quadrant, plus the flat list.
type Odontogram struct {
	Quadrant1 []*ToothRecord `json:"quadrant_1"`
	Quadrant2 []*ToothRecord `json:"quadrant_2"`
	Quadrant3 []*ToothRecord `json:"quadrant_3"`
	Quadrant4 []*ToothRecord `json:"quadrant_4"`
	All       []*ToothRecord `json:"all"`
}
