package patient

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// recordNumberRe is the clinical record number format, e.g. HC-001.
var recordNumberRe = regexp.MustCompile(`^HC-\d{3,}$`)

// ValidRecordNumber reports whether s is a well-formed record number.
func ValidRecordNumber(s string) bool {
	return recordNumberRe.MatchString(s)
}

// Patient is a person under the clinic's care. RecordNumber is the unique
// clinical history identifier. Inactive rows are soft-deleted and hidden
// from every read path.
type Patient struct {
	ID           uuid.UUID `db:"id" json:"id"`
	RecordNumber string    `db:"record_number" json:"record_number"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Age          *int      `db:"age" json:"age,omitempty"`
	Address      *string   `db:"address" json:"address,omitempty"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Patch holds the updatable fields. Nil means leave unchanged.
type Patch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Age       *int    `json:"age,omitempty"`
	Address   *string `json:"address,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Age == nil &&
		p.Address == nil && p.Phone == nil
}
