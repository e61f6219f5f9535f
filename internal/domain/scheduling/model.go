package scheduling

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. Terminal statuses never change again; cancelled and
// no_show rows are ignored when scanning for calendar conflicts.
const (
	StatusScheduled  = "scheduled"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusNoShow     = "no_show"
)

var validStatuses = map[string]bool{
	StatusScheduled:  true,
	StatusConfirmed:  true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusCancelled:  true,
	StatusNoShow:     true,
}

var terminalStatuses = map[string]bool{
	StatusCompleted: true,
	StatusCancelled: true,
	StatusNoShow:    true,
}

// IsTerminal reports whether a status ends the appointment lifecycle.
func IsTerminal(status string) bool { return terminalStatuses[status] }

// TimeOfDay is a clinic-local time expressed as minutes from midnight.
// It marshals as "HH:MM" and is stored as a smallint.
type TimeOfDay int

// ParseTimeOfDay converts an "HH:MM" string to a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return TimeOfDay(h*60 + m), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Minutes returns the value as whole minutes from midnight.
func (t TimeOfDay) Minutes() int { return int(t) }

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Scan implements sql.Scanner so the smallint column round-trips.
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*t = TimeOfDay(v)
	case int32:
		*t = TimeOfDay(v)
	case int16:
		*t = TimeOfDay(v)
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (t TimeOfDay) Value() (driver.Value, error) {
	return int64(t), nil
}

// Appointment maps to the appointments table. The patient name and record
// number are filled only by queries that join the patient registry.
type Appointment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Date      time.Time `db:"date" json:"date"`
	Start     TimeOfDay `db:"start_minute" json:"start_time"`
	End       TimeOfDay `db:"end_minute" json:"end_time"`
	Status    string    `db:"status" json:"status"`
	Reason    *string   `db:"reason" json:"reason,omitempty"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	PatientName  *string `db:"patient_name" json:"patient_name,omitempty"`
	RecordNumber *string `db:"record_number" json:"record_number,omitempty"`
}

// Overlaps reports whether the half-open interval [Start, End) intersects
// [start, end) on the same calendar date.
func (a *Appointment) Overlaps(start, end TimeOfDay) bool {
	return a.Start < end && a.End > start
}

// Patch carries a partial update for Reschedule. Nil fields are left
// untouched.
type Patch struct {
	PatientID *uuid.UUID `json:"patient_id,omitempty"`
	Date      *time.Time `json:"date,omitempty"`
	Start     *TimeOfDay `json:"start_time,omitempty"`
	End       *TimeOfDay `json:"end_time,omitempty"`
	Status    *string    `json:"status,omitempty"`
	Reason    *string    `json:"reason,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.PatientID == nil && p.Date == nil && p.Start == nil &&
		p.End == nil && p.Status == nil && p.Reason == nil && p.Notes == nil
}

// ChangesInterval reports whether the patch moves the appointment in time.
// Only such patches need the window re-validated and the conflict scan re-run.
func (p Patch) ChangesInterval() bool {
	return p.Date != nil || p.Start != nil || p.End != nil
}
