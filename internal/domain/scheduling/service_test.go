package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/odontia/clinic/pkg/clock"
)

// mockRepo is a map-backed Repository. LockDate hands out one mutex per date
// and registers its release with the enclosing mockTxRunner transaction, so
// bookings for the same day block each other until the first commits, the way
// the advisory lock does in Postgres. Calls records repo method invocations
// in order for assertions on lock and scan sequencing.
type mockRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*Appointment
	locks map[string]*sync.Mutex
	calls []string
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		items: make(map[uuid.UUID]*Appointment),
		locks: make(map[string]*sync.Mutex),
	}
}

func (m *mockRepo) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *mockRepo) LockDate(ctx context.Context, date time.Time) error {
	m.record("LockDate")
	m.mu.Lock()
	key := date.Format("2006-01-02")
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	m.mu.Unlock()

	l.Lock()
	tx, ok := ctx.Value(txKey{}).(*mockTx)
	if !ok {
		l.Unlock()
		return errors.New("LockDate called outside a transaction")
	}
	tx.held = append(tx.held, l)
	return nil
}

func (m *mockRepo) Create(ctx context.Context, a *Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) Update(ctx context.Context, a *Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[a.ID]; !ok {
		return ErrNotFound
	}
	cp := *a
	cp.UpdatedAt = time.Now()
	m.items[a.ID] = &cp
	return nil
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepo) ListOverlapping(ctx context.Context, date time.Time, start, end TimeOfDay, exclude *uuid.UUID) ([]*Appointment, error) {
	m.record("ListOverlapping")
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Appointment
	for _, a := range m.items {
		if !a.Date.Equal(date) {
			continue
		}
		if a.Status == StatusCancelled || a.Status == StatusNoShow {
			continue
		}
		if exclude != nil && a.ID == *exclude {
			continue
		}
		if a.Overlaps(start, end) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRepo) ListByDate(ctx context.Context, date time.Time) ([]*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Appointment
	for _, a := range m.items {
		if a.Date.Equal(date) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRepo) ListByRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*Appointment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Appointment
	for _, a := range m.items {
		if !a.Date.Before(from) && !a.Date.After(to) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Appointment
	for _, a := range m.items {
		if a.PatientID == patientID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) ListUpcoming(ctx context.Context, from time.Time, days int) ([]*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	to := from.AddDate(0, 0, days)
	var out []*Appointment
	for _, a := range m.items {
		if a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		if a.Status != StatusScheduled && a.Status != StatusConfirmed {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

// mockPatients reports the listed ids as existing.
type mockPatients struct {
	known map[uuid.UUID]bool
}

func (m *mockPatients) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.known[id], nil
}

// mockTx collects locks taken during one transaction; mockTxRunner releases
// them after the function returns, matching the lifetime of an advisory
// transaction lock. Transactions themselves run fully in parallel.
type mockTx struct{ held []*sync.Mutex }

type txKey struct{}

func mockTxRunner() func(ctx context.Context, fn func(ctx context.Context) error) error {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		tx := &mockTx{}
		err := fn(context.WithValue(ctx, txKey{}, tx))
		for _, l := range tx.held {
			l.Unlock()
		}
		return err
	}
}

var testHours = Hours{
	Open:        8 * 60,
	Close:       18 * 60,
	MinDuration: 30 * time.Minute,
}

func testDate() time.Time {
	return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) (*Service, *mockRepo, uuid.UUID) {
	t.Helper()
	repo := newMockRepo()
	patientID := uuid.New()
	patients := &mockPatients{known: map[uuid.UUID]bool{patientID: true}}
	fixed := clock.Fixed(time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC))
	svc := NewService(repo, patients, testHours, mockTxRunner(), fixed)
	return svc, repo, patientID
}

func mustTime(t *testing.T, s string) TimeOfDay {
	t.Helper()
	v, err := ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q): %v", s, err)
	}
	return v
}

func TestCreate_Valid(t *testing.T) {
	svc, _, patientID := newTestService(t)

	a, err := svc.Create(context.Background(), CreateInput{
		PatientID: patientID,
		Date:      testDate(),
		Start:     mustTime(t, "10:00"),
		End:       mustTime(t, "11:00"),
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if a.ID == uuid.Nil {
		t.Error("expected generated id")
	}
	if a.Status != StatusScheduled {
		t.Errorf("expected status scheduled, got %s", a.Status)
	}
}

func TestCreate_WindowBounds(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr error
	}{
		{"before opening", "07:30", "08:30", ErrOutsideHours},
		{"after closing", "17:45", "18:30", ErrOutsideHours},
		{"exactly open to close", "08:00", "18:00", nil},
		{"start equals end", "10:00", "10:00", ErrInvalidRange},
		{"start after end", "11:00", "10:00", ErrInvalidRange},
		{"below minimum duration", "10:00", "10:15", ErrTooShort},
		{"exactly minimum duration", "10:00", "10:30", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, pid := newTestService(t)
			_, err := svc.Create(context.Background(), CreateInput{
				PatientID: pid,
				Date:      testDate(),
				Start:     mustTime(t, tt.start),
				End:       mustTime(t, tt.end),
			})
			if tt.wantErr == nil && err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreate_UnknownPatient(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{
		PatientID: uuid.New(),
		Date:      testDate(),
		Start:     mustTime(t, "10:00"),
		End:       mustTime(t, "11:00"),
	})
	if !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestCreate_Conflict(t *testing.T) {
	svc, _, patientID := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateInput{
		PatientID: patientID,
		Date:      testDate(),
		Start:     mustTime(t, "10:00"),
		End:       mustTime(t, "11:00"),
	})
	if err != nil {
		t.Fatalf("first Create() error: %v", err)
	}

	_, err = svc.Create(ctx, CreateInput{
		PatientID: patientID,
		Date:      testDate(),
		Start:     mustTime(t, "10:30"),
		End:       mustTime(t, "11:30"),
	})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.AppointmentID != first.ID {
		t.Errorf("expected collider %s, got %s", first.ID, conflict.AppointmentID)
	}
}

func TestCreate_HalfOpenBoundary(t *testing.T) {
	svc, _, patientID := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{
		PatientID: patientID,
		Date:      testDate(),
		Start:     mustTime(t, "10:00"),
		End:       mustTime(t, "11:00"),
	}); err != nil {
		t.Fatalf("first Create() error: %v", err)
	}

	// Back-to-back: one ends exactly when the next begins.
	if _, err := svc.Create(ctx, CreateInput{
		PatientID: patientID,
		Date:      testDate(),
		Start:     mustTime(t, "11:00"),
		End:       mustTime(t, "12:00"),
	}); err != nil {
		t.Fatalf("back-to-back Create() should succeed, got %v", err)
	}
}

func TestCreate_IgnoresTerminalRows(t *testing.T) {
	svc, repo, patientID := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{
		PatientID: patientID,
		Date:      testDate(),
		Start:     mustTime(t, "10:00"),
		End:       mustTime(t, "11:00"),
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := repo.UpdateStatus(ctx, a.ID, StatusCancelled); err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}

	// The cancelled row frees the slot.
	if _, err := svc.Create(ctx, CreateInput{
		PatientID: patientID,
		Date:      testDate(),
		Start:     mustTime(t, "10:00"),
		End:       mustTime(t, "11:00"),
	}); err != nil {
		t.Fatalf("Create() over cancelled slot should succeed, got %v", err)
	}
}

func TestCreate_DifferentDatesDoNotConflict(t *testing.T) {
	svc, _, patientID := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{
		PatientID: patientID,
		Date:      testDate(),
		Start:     mustTime(t, "10:00"),
		End:       mustTime(t, "11:00"),
	}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if _, err := svc.Create(ctx, CreateInput{
		PatientID: patientID,
		Date:      testDate().AddDate(0, 0, 1),
		Start:     mustTime(t, "10:00"),
		End:       mustTime(t, "11:00"),
	}); err != nil {
		t.Fatalf("Create() on another date should succeed, got %v", err)
	}
}

func TestCreate_ConcurrentSameSlot(t *testing.T) {
	svc, _, patientID := newTestService(t)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), CreateInput{
				PatientID: patientID,
				Date:      testDate(),
				Start:     mustTime(t, "14:00"),
				End:       mustTime(t, "15:00"),
			})
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		var conflict *ConflictError
		switch {
		case err == nil:
			ok++
		case errors.As(err, &conflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one winner and one conflict, got %d ok, %d conflicts", ok, conflicts)
	}
}

func TestCreate_TakesDateLockBeforeScan(t *testing.T) {
	svc, repo, patientID := newTestService(t)

	if _, err := svc.Create(context.Background(), CreateInput{
		PatientID: patientID,
		Date:      testDate(),
		Start:     mustTime(t, "10:00"),
		End:       mustTime(t, "11:00"),
	}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	var lockAt, scanAt = -1, -1
	for i, call := range repo.calls {
		switch call {
		case "LockDate":
			if lockAt == -1 {
				lockAt = i
			}
		case "ListOverlapping":
			if scanAt == -1 {
				scanAt = i
			}
		}
	}
	if lockAt == -1 || scanAt == -1 {
		t.Fatalf("expected both LockDate and ListOverlapping, got %v", repo.calls)
	}
	if lockAt > scanAt {
		t.Fatalf("date lock must be taken before the conflict scan, got %v", repo.calls)
	}
}

func TestReschedule_MovesAppointment(t *testing.T) {
	svc, _, patientID := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{
		PatientID: patientID,
		Date:      testDate(),
		Start:     mustTime(t, "10:00"),
		End:       mustTime(t, "11:00"),
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	newStart := mustTime(t, "15:00")
	newEnd := mustTime(t, "16:00")
	updated, err := svc.Reschedule(ctx, a.ID, Patch{Start: &newStart, End: &newEnd})
	if err != nil {
		t.Fatalf("Reschedule() error: %v", err)
	}
	if updated.Start != newStart || updated.End != newEnd {
		t.Errorf("expected %s-%s, got %s-%s", newStart, newEnd, updated.Start, updated.End)
	}
}

func TestReschedule_ExcludesSelf(t *testing.T) {
	svc, _, patientID := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{
		PatientID: patientID,
		Date:      testDate(),
		Start:     mustTime(t, "10:00"),
		End:       mustTime(t, "11:00"),
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Shrinking inside its own window must not conflict with itself.
	newEnd := mustTime(t, "10:45")
	if _, err := svc.Reschedule(ctx, a.ID, Patch{End: &newEnd}); err != nil {
		t.Fatalf("Reschedule() within own slot should succeed, got %v", err)
	}
}

func TestReschedule_ConflictWithOther(t *testing.T) {
	svc, _, patientID := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{
		PatientID: patientID,
		Date:      testDate(),
		Start:     mustTime(t, "10:00"),
		End:       mustTime(t, "11:00"),
	}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	b, err := svc.Create(ctx, CreateInput{
		PatientID: patientID,
		Date:      testDate(),
		Start:     mustTime(t, "12:00"),
		End:       mustTime(t, "13:00"),
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	newStart := mustTime(t, "10:30")
	newEnd := mustTime(t, "11:30")
	_, err = svc.Reschedule(ctx, b.ID, Patch{Start: &newStart, End: &newEnd})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestReschedule_StatusOnly(t *testing.T) {
	svc, _, patientID := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{
		PatientID: patientID,
		Date:      testDate(),
		Start:     mustTime(t, "10:00"),
		End:       mustTime(t, "11:00"),
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	status := StatusConfirmed
	updated, err := svc.Reschedule(ctx, a.ID, Patch{Status: &status})
	if err != nil {
		t.Fatalf("Reschedule() with only a status change should succeed, got %v", err)
	}
	if updated.Status != StatusConfirmed {
		t.Errorf("expected status confirmed, got %s", updated.Status)
	}

	got, err := svc.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Status != StatusConfirmed {
		t.Errorf("expected persisted status confirmed, got %s", got.Status)
	}
}

func TestReschedule_InvalidStatus(t *testing.T) {
	svc, _, _ := newTestService(t)

	status := "rescheduled"
	_, err := svc.Reschedule(context.Background(), uuid.New(), Patch{Status: &status})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestReschedule_UnchangedIntervalSkipsScan(t *testing.T) {
	svc, repo, patientID := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{
		PatientID: patientID,
		Date:      testDate(),
		Start:     mustTime(t, "10:00"),
		End:       mustTime(t, "11:00"),
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	repo.calls = nil
	reason := "follow-up"
	status := StatusConfirmed
	if _, err := svc.Reschedule(ctx, a.ID, Patch{Reason: &reason, Status: &status}); err != nil {
		t.Fatalf("Reschedule() error: %v", err)
	}
	for _, call := range repo.calls {
		if call == "ListOverlapping" || call == "LockDate" {
			t.Fatalf("patch without date or time changes must not re-run the conflict scan, got %v", repo.calls)
		}
	}

	repo.calls = nil
	newStart := mustTime(t, "12:00")
	newEnd := mustTime(t, "13:00")
	if _, err := svc.Reschedule(ctx, a.ID, Patch{Start: &newStart, End: &newEnd}); err != nil {
		t.Fatalf("Reschedule() error: %v", err)
	}
	var scanned bool
	for _, call := range repo.calls {
		if call == "ListOverlapping" {
			scanned = true
		}
	}
	if !scanned {
		t.Fatalf("moving the appointment must re-run the conflict scan, got %v", repo.calls)
	}
}

func TestReschedule_EmptyPatch(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Reschedule(context.Background(), uuid.New(), Patch{})
	if !errors.Is(err, ErrNoChanges) {
		t.Fatalf("expected ErrNoChanges, got %v", err)
	}
}

func TestReschedule_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	newStart := mustTime(t, "09:00")
	_, err := svc.Reschedule(context.Background(), uuid.New(), Patch{Start: &newStart})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReschedule_TerminalAppointment(t *testing.T) {
	svc, repo, patientID := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{
		PatientID: patientID,
		Date:      testDate(),
		Start:     mustTime(t, "10:00"),
		End:       mustTime(t, "11:00"),
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := repo.UpdateStatus(ctx, a.ID, StatusCompleted); err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}

	newStart := mustTime(t, "12:00")
	newEnd := mustTime(t, "13:00")
	_, err = svc.Reschedule(ctx, a.ID, Patch{Start: &newStart, End: &newEnd})
	if !errors.Is(err, ErrTerminalStatus) {
		t.Fatalf("expected ErrTerminalStatus, got %v", err)
	}
}

func TestSetStatus_NoConflictCheck(t *testing.T) {
	svc, _, patientID := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{
		PatientID: patientID,
		Date:      testDate(),
		Start:     mustTime(t, "10:00"),
		End:       mustTime(t, "11:00"),
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Cancel, rebook the slot, then confirm the rebooked one. None of these
	// transitions re-run the overlap scan.
	if _, err := svc.SetStatus(ctx, a.ID, StatusCancelled); err != nil {
		t.Fatalf("SetStatus(cancelled) error: %v", err)
	}
	b, err := svc.Create(ctx, CreateInput{
		PatientID: patientID,
		Date:      testDate(),
		Start:     mustTime(t, "10:00"),
		End:       mustTime(t, "11:00"),
	})
	if err != nil {
		t.Fatalf("rebook Create() error: %v", err)
	}
	updated, err := svc.SetStatus(ctx, b.ID, StatusConfirmed)
	if err != nil {
		t.Fatalf("SetStatus(confirmed) error: %v", err)
	}
	if updated.Status != StatusConfirmed {
		t.Errorf("expected status confirmed, got %s", updated.Status)
	}
}

func TestSetStatus_Invalid(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SetStatus(context.Background(), uuid.New(), "rescheduled")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc, _, patientID := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{
		PatientID: patientID,
		Date:      testDate(),
		Start:     mustTime(t, "10:00"),
		End:       mustTime(t, "11:00"),
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := svc.Get(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestTimeOfDay_Parse(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"08:00", 480, false},
		{"18:00", 1080, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): %v", tt.in, err)
			continue
		}
		if got.Minutes() != tt.want {
			t.Errorf("ParseTimeOfDay(%q) = %d, want %d", tt.in, got.Minutes(), tt.want)
		}
	}
}

func TestTimeOfDay_String(t *testing.T) {
	v := mustTime(t, "09:05")
	if v.String() != "09:05" {
		t.Errorf("expected 09:05, got %s", v.String())
	}
}

func TestConflictError_Message(t *testing.T) {
	id := uuid.New()
	err := &ConflictError{AppointmentID: id, Start: 600, End: 660}
	want := fmt.Sprintf("appointment conflicts with %s (10:00-11:00)", id)
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
