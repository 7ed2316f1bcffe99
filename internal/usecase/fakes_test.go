package usecase

import (
	"context"
	"io"
	"sync"
	"time"

	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/domain/repository"
	"clinic-appointment-service/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func boolPtr(b bool) *bool { return &b }

func activeDoctor(id uuid.UUID) *entity.DoctorProfile {
	return &entity.DoctorProfile{
		UserID:         id,
		LicenseNumber:  "LIC-001",
		Specialization: "Cardiology",
		User: entity.User{
			ID:       id,
			Email:    "doc@clinic.test",
			FullName: "Dr. Test",
			RoleID:   entity.RoleIDDoctor,
			IsActive: boolPtr(true),
		},
	}
}

func inactiveDoctor(id uuid.UUID) *entity.DoctorProfile {
	d := activeDoctor(id)
	d.User.IsActive = boolPtr(false)
	return d
}

// fakeDoctorRepo implements repository.DoctorProfileRepository via
// overridable funcs.
type fakeDoctorRepo struct {
	FindByUserIDFn func(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error)
	FindAllFn      func(ctx context.Context) ([]entity.DoctorProfile, error)
	CreateFn       func(ctx context.Context, profile *entity.DoctorProfile) error
	UpdateFn       func(ctx context.Context, profile *entity.DoctorProfile) error
}

func (f *fakeDoctorRepo) Create(ctx context.Context, profile *entity.DoctorProfile) error {
	if f.CreateFn == nil {
		return nil
	}
	return f.CreateFn(ctx, profile)
}

func (f *fakeDoctorRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error) {
	if f.FindByUserIDFn == nil {
		return nil, nil
	}
	return f.FindByUserIDFn(ctx, userID)
}

func (f *fakeDoctorRepo) FindAll(ctx context.Context) ([]entity.DoctorProfile, error) {
	if f.FindAllFn == nil {
		return nil, nil
	}
	return f.FindAllFn(ctx)
}

func (f *fakeDoctorRepo) Update(ctx context.Context, profile *entity.DoctorProfile) error {
	if f.UpdateFn == nil {
		return nil
	}
	return f.UpdateFn(ctx, profile)
}

// fakeWindowRepo implements repository.AvailabilityWindowRepository.
type fakeWindowRepo struct {
	windows []entity.AvailabilityWindow

	CreateFn func(ctx context.Context, window *entity.AvailabilityWindow) error
	UpdateFn func(ctx context.Context, window *entity.AvailabilityWindow) error
	DeleteFn func(ctx context.Context, id int) (int64, error)
}

func (f *fakeWindowRepo) Create(ctx context.Context, window *entity.AvailabilityWindow) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, window)
	}
	window.ID = len(f.windows) + 1
	f.windows = append(f.windows, *window)
	return nil
}

func (f *fakeWindowRepo) FindByID(ctx context.Context, id int) (*entity.AvailabilityWindow, error) {
	for i := range f.windows {
		if f.windows[i].ID == id {
			w := f.windows[i]
			return &w, nil
		}
	}
	return nil, nil
}

func (f *fakeWindowRepo) FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.AvailabilityWindow, error) {
	var out []entity.AvailabilityWindow
	for _, w := range f.windows {
		if w.DoctorID == doctorID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWindowRepo) FindByDoctorAndWeekday(ctx context.Context, doctorID uuid.UUID, weekday time.Weekday) ([]entity.AvailabilityWindow, error) {
	var out []entity.AvailabilityWindow
	for _, w := range f.windows {
		if w.DoctorID == doctorID && w.Weekday == weekday {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWindowRepo) Update(ctx context.Context, window *entity.AvailabilityWindow) error {
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, window)
	}
	for i := range f.windows {
		if f.windows[i].ID == window.ID {
			f.windows[i] = *window
			return nil
		}
	}
	return nil
}

func (f *fakeWindowRepo) Delete(ctx context.Context, id int) (int64, error) {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	for i := range f.windows {
		if f.windows[i].ID == id {
			f.windows = append(f.windows[:i], f.windows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// memAppointmentRepo is an in-memory repository.AppointmentRepository with
// the same uniqueness and conditional-update semantics as the Postgres
// implementation, safe for concurrent use.
type memAppointmentRepo struct {
	mu           sync.Mutex
	appointments []entity.Appointment
}

func (m *memAppointmentRepo) Create(ctx context.Context, a *entity.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.appointments {
		if !existing.Status.Active() {
			continue
		}
		if !existing.Date.Equal(a.Date) || existing.StartTime != a.StartTime {
			continue
		}
		if existing.DoctorID == a.DoctorID {
			return repository.ErrDoctorSlotTaken
		}
		if existing.PatientID == a.PatientID {
			return repository.ErrPatientSlotTaken
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	m.appointments = append(m.appointments, *a)
	return nil
}

func (m *memAppointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.appointments {
		if m.appointments[i].ID == id {
			a := m.appointments[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (m *memAppointmentRepo) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Appointment
	for _, a := range m.appointments {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAppointmentRepo) FindByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Appointment
	for _, a := range m.appointments {
		if a.DoctorID == doctorID && a.Date.Equal(date) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAppointmentRepo) FindPendingByDoctor(ctx context.Context, doctorID uuid.UUID) ([]entity.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Appointment
	for _, a := range m.appointments {
		if a.DoctorID == doctorID && a.Status == entity.AppointmentStatusPending {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAppointmentRepo) ListActiveTimes(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, a := range m.appointments {
		if a.DoctorID == doctorID && a.Date.Equal(date) && a.Status.Active() {
			out = append(out, a.StartTime)
		}
	}
	return out, nil
}

func (m *memAppointmentRepo) PatientHasActiveAt(ctx context.Context, patientID uuid.UUID, date time.Time, startTime string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.appointments {
		if a.PatientID == patientID && a.Date.Equal(date) && a.StartTime == startTime && a.Status.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAppointmentRepo) DoctorHasActiveAt(ctx context.Context, doctorID uuid.UUID, date time.Time, startTime string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.appointments {
		if a.DoctorID == doctorID && a.Date.Equal(date) && a.StartTime == startTime && a.Status.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAppointmentRepo) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, to entity.AppointmentStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.appointments {
		if m.appointments[i].ID == id && m.appointments[i].Status == entity.AppointmentStatusPending {
			m.appointments[i].Status = to
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memAppointmentRepo) FinalizeIfPending(ctx context.Context, id uuid.UUID, report string, reportedAt time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.appointments {
		if m.appointments[i].ID == id && m.appointments[i].Status == entity.AppointmentStatusPending {
			m.appointments[i].Status = entity.AppointmentStatusFinalized
			m.appointments[i].ConsultationReport = report
			m.appointments[i].ReportedAt = &reportedAt
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memAppointmentRepo) AmendReportIfFinalized(ctx context.Context, id uuid.UUID, report string, reportedAt time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.appointments {
		if m.appointments[i].ID == id && m.appointments[i].Status == entity.AppointmentStatusFinalized && m.appointments[i].ConsultationReport != "" {
			m.appointments[i].ConsultationReport = report
			m.appointments[i].ReportedAt = &reportedAt
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memAppointmentRepo) add(a entity.Appointment) entity.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = entity.AppointmentStatusPending
	}
	m.appointments = append(m.appointments, a)
	return a
}

func (m *memAppointmentRepo) get(id uuid.UUID) entity.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.appointments {
		if a.ID == id {
			return a
		}
	}
	return entity.Appointment{}
}

// fakeUserRepo implements repository.UserRepository over a map.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.Active() == active {
		return 0, nil
	}
	u.IsActive = boolPtr(active)
	return 1, nil
}

// fakeNotifier records emitted events.
type fakeNotifier struct {
	mu     sync.Mutex
	events []service.AppointmentEvent
	err    error
}

func (f *fakeNotifier) Emit(ctx context.Context, event service.AppointmentEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeNotifier) byType(eventType string) []service.AppointmentEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []service.AppointmentEvent
	for _, e := range f.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// fakeAudit records audit actions.
type fakeAudit struct {
	mu      sync.Mutex
	actions []string
}

func (f *fakeAudit) LogCreate(ctx context.Context, userID *uuid.UUID, action, entityName, entityID string, newValue interface{}) error {
	return f.record(action)
}

func (f *fakeAudit) LogUpdate(ctx context.Context, userID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	return f.record(action)
}

func (f *fakeAudit) LogDelete(ctx context.Context, userID *uuid.UUID, action, entityName, entityID string, oldValue interface{}) error {
	return f.record(action)
}

func (f *fakeAudit) record(action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	return nil
}
