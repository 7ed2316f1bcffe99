package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/service"

	"github.com/google/uuid"
)

func TestDeactivateDoctor(t *testing.T) {
	doctorID := uuid.New()
	adminID := uuid.New()
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	newFixture := func(doctor *entity.DoctorProfile) (DoctorUseCase, *memAppointmentRepo, *fakeNotifier, *fakeUserRepo) {
		appointments := &memAppointmentRepo{}
		notifier := &fakeNotifier{}
		users := newFakeUserRepo(&doctor.User)
		doctors := &fakeDoctorRepo{
			FindByUserIDFn: func(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error) {
				if userID == doctor.UserID {
					return doctor, nil
				}
				return nil, nil
			},
		}

		cancelUC := NewCancellationUseCase(testLogger(), time.Hour, appointments, notifier, &fakeAudit{}).(*cancellationUseCase)
		cancelUC.now = func() time.Time { return bookingNow }

		uc := NewDoctorUseCase(testLogger(), users, doctors, cancelUC, &fakeAudit{})
		return uc, appointments, notifier, users
	}

	t.Run("cascades over every pending appointment", func(t *testing.T) {
		doctor := activeDoctor(doctorID)
		uc, appointments, notifier, users := newFixture(doctor)

		p1 := appointments.add(entity.Appointment{PatientID: uuid.New(), DoctorID: doctorID, Date: day, StartTime: "09:00"})
		p2 := appointments.add(entity.Appointment{PatientID: uuid.New(), DoctorID: doctorID, Date: day, StartTime: "09:30"})
		done := appointments.add(entity.Appointment{PatientID: uuid.New(), DoctorID: doctorID, Date: day, StartTime: "10:00", Status: entity.AppointmentStatusFinalized})

		cancelled, err := uc.DeactivateDoctor(context.Background(), adminID, doctorID)
		if err != nil {
			t.Fatalf("DeactivateDoctor() error = %v", err)
		}
		if cancelled != 2 {
			t.Errorf("cancelled = %d, want 2", cancelled)
		}

		u, _ := users.FindByID(context.Background(), doctorID)
		if u.Active() {
			t.Error("doctor account still active")
		}
		for _, id := range []uuid.UUID{p1.ID, p2.ID} {
			if got := appointments.get(id).Status; got != entity.AppointmentStatusCancelledByDoctor {
				t.Errorf("appointment %s status = %q, want cancelled_by_doctor", id, got)
			}
		}
		if got := appointments.get(done.ID).Status; got != entity.AppointmentStatusFinalized {
			t.Errorf("finalized appointment status = %q, want finalized", got)
		}
		if got := notifier.byType(service.EventDoctorUnavailable); len(got) != 2 {
			t.Errorf("unavailable events = %d, want 2", len(got))
		}
	})

	t.Run("idempotent on an already inactive doctor", func(t *testing.T) {
		doctor := inactiveDoctor(doctorID)
		uc, appointments, _, _ := newFixture(doctor)
		appointments.add(entity.Appointment{PatientID: uuid.New(), DoctorID: doctorID, Date: day, StartTime: "09:00"})

		cancelled, err := uc.DeactivateDoctor(context.Background(), adminID, doctorID)
		if err != nil {
			t.Fatalf("DeactivateDoctor() error = %v", err)
		}
		if cancelled != 0 {
			t.Errorf("cancelled = %d, want 0 for a no-op", cancelled)
		}
	})

	t.Run("unknown doctor", func(t *testing.T) {
		uc, _, _, _ := newFixture(activeDoctor(doctorID))

		_, err := uc.DeactivateDoctor(context.Background(), adminID, uuid.New())
		if !errors.Is(err, ErrDoctorNotFound) {
			t.Errorf("error = %v, want ErrDoctorNotFound", err)
		}
	})
}

func TestReactivateDoctor(t *testing.T) {
	doctorID := uuid.New()
	adminID := uuid.New()

	doctor := inactiveDoctor(doctorID)
	users := newFakeUserRepo(&doctor.User)
	doctors := &fakeDoctorRepo{
		FindByUserIDFn: func(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error) {
			if userID == doctor.UserID {
				return doctor, nil
			}
			return nil, nil
		},
	}
	cancelUC := NewCancellationUseCase(testLogger(), time.Hour, &memAppointmentRepo{}, &fakeNotifier{}, &fakeAudit{})
	uc := NewDoctorUseCase(testLogger(), users, doctors, cancelUC, &fakeAudit{})

	if err := uc.ReactivateDoctor(context.Background(), adminID, doctorID); err != nil {
		t.Fatalf("ReactivateDoctor() error = %v", err)
	}
	u, _ := users.FindByID(context.Background(), doctorID)
	if !u.Active() {
		t.Error("doctor account still inactive")
	}

	// Reactivated windows resume without re-creation; pending appointments
	// do not come back
	if err := uc.ReactivateDoctor(context.Background(), adminID, doctorID); err != nil {
		t.Errorf("second ReactivateDoctor() error = %v", err)
	}
}
