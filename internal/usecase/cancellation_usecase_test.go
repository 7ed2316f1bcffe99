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

func newCancellationFixture() (*cancellationUseCase, *memAppointmentRepo, *fakeNotifier) {
	appointments := &memAppointmentRepo{}
	notifier := &fakeNotifier{}
	uc := NewCancellationUseCase(testLogger(), time.Hour, appointments, notifier, &fakeAudit{}).(*cancellationUseCase)
	uc.now = func() time.Time { return bookingNow }
	return uc, appointments, notifier
}

func TestCancelAsPatient(t *testing.T) {
	patientID := uuid.New()
	doctorID := uuid.New()
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	t.Run("cancels a pending appointment", func(t *testing.T) {
		uc, appointments, notifier := newCancellationFixture()
		a := appointments.add(entity.Appointment{PatientID: patientID, DoctorID: doctorID, Date: day, StartTime: "09:30"})

		resp, err := uc.CancelAsPatient(context.Background(), patientID, a.ID)
		if err != nil {
			t.Fatalf("CancelAsPatient() error = %v", err)
		}
		if resp.Status != string(entity.AppointmentStatusCancelledByPatient) {
			t.Errorf("status = %q, want cancelled_by_patient", resp.Status)
		}
		if stored := appointments.get(a.ID); stored.Status != entity.AppointmentStatusCancelledByPatient {
			t.Errorf("stored status = %q, want cancelled_by_patient", stored.Status)
		}
		if got := notifier.byType(service.EventCancelledByPatient); len(got) != 1 {
			t.Errorf("events = %d, want 1", len(got))
		}
	})

	t.Run("unknown appointment", func(t *testing.T) {
		uc, _, _ := newCancellationFixture()

		_, err := uc.CancelAsPatient(context.Background(), patientID, uuid.New())
		if !errors.Is(err, ErrAppointmentNotFound) {
			t.Errorf("error = %v, want ErrAppointmentNotFound", err)
		}
	})

	t.Run("someone else's appointment", func(t *testing.T) {
		uc, appointments, _ := newCancellationFixture()
		a := appointments.add(entity.Appointment{PatientID: uuid.New(), DoctorID: doctorID, Date: day, StartTime: "09:30"})

		_, err := uc.CancelAsPatient(context.Background(), patientID, a.ID)
		if !errors.Is(err, ErrAppointmentNotOwned) {
			t.Errorf("error = %v, want ErrAppointmentNotOwned", err)
		}
	})

	t.Run("already terminal", func(t *testing.T) {
		uc, appointments, _ := newCancellationFixture()
		a := appointments.add(entity.Appointment{PatientID: patientID, DoctorID: doctorID, Date: day, StartTime: "09:30", Status: entity.AppointmentStatusFinalized})

		_, err := uc.CancelAsPatient(context.Background(), patientID, a.ID)
		if !errors.Is(err, ErrAppointmentNotPending) {
			t.Errorf("error = %v, want ErrAppointmentNotPending", err)
		}
	})

	t.Run("lead time boundary", func(t *testing.T) {
		uc, appointments, _ := newCancellationFixture()
		today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

		// Starts exactly one hour from now: already locked in
		atBoundary := appointments.add(entity.Appointment{PatientID: patientID, DoctorID: doctorID, Date: today, StartTime: "11:00"})
		if _, err := uc.CancelAsPatient(context.Background(), patientID, atBoundary.ID); !errors.Is(err, ErrCancelTooLate) {
			t.Errorf("at boundary: error = %v, want ErrCancelTooLate", err)
		}

		// One slot later: still cancellable
		afterBoundary := appointments.add(entity.Appointment{PatientID: patientID, DoctorID: doctorID, Date: today, StartTime: "11:30"})
		if _, err := uc.CancelAsPatient(context.Background(), patientID, afterBoundary.ID); err != nil {
			t.Errorf("after boundary: error = %v, want nil", err)
		}
	})
}

func TestCancelAsDoctor(t *testing.T) {
	patientID := uuid.New()
	doctorID := uuid.New()

	t.Run("not bound by the lead time", func(t *testing.T) {
		uc, appointments, notifier := newCancellationFixture()
		today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		a := appointments.add(entity.Appointment{PatientID: patientID, DoctorID: doctorID, Date: today, StartTime: "10:30"})

		resp, err := uc.CancelAsDoctor(context.Background(), doctorID, a.ID)
		if err != nil {
			t.Fatalf("CancelAsDoctor() error = %v", err)
		}
		if resp.Status != string(entity.AppointmentStatusCancelledByDoctor) {
			t.Errorf("status = %q, want cancelled_by_doctor", resp.Status)
		}
		if got := notifier.byType(service.EventCancelledByDoctor); len(got) != 1 {
			t.Errorf("events = %d, want 1", len(got))
		}
	})

	t.Run("another doctor's appointment", func(t *testing.T) {
		uc, appointments, _ := newCancellationFixture()
		day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
		a := appointments.add(entity.Appointment{PatientID: patientID, DoctorID: uuid.New(), Date: day, StartTime: "09:30"})

		_, err := uc.CancelAsDoctor(context.Background(), doctorID, a.ID)
		if !errors.Is(err, ErrAppointmentNotOwned) {
			t.Errorf("error = %v, want ErrAppointmentNotOwned", err)
		}
	})
}

func TestCancelAllPendingForDoctor(t *testing.T) {
	doctorID := uuid.New()
	adminID := uuid.New()
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	uc, appointments, notifier := newCancellationFixture()

	p1 := appointments.add(entity.Appointment{PatientID: uuid.New(), DoctorID: doctorID, Date: day, StartTime: "09:00"})
	p2 := appointments.add(entity.Appointment{PatientID: uuid.New(), DoctorID: doctorID, Date: day, StartTime: "09:30"})
	done := appointments.add(entity.Appointment{PatientID: uuid.New(), DoctorID: doctorID, Date: day, StartTime: "10:00", Status: entity.AppointmentStatusFinalized})
	other := appointments.add(entity.Appointment{PatientID: uuid.New(), DoctorID: uuid.New(), Date: day, StartTime: "09:00"})

	cancelled, err := uc.CancelAllPendingForDoctor(context.Background(), adminID, doctorID)
	if err != nil {
		t.Fatalf("CancelAllPendingForDoctor() error = %v", err)
	}
	if cancelled != 2 {
		t.Errorf("cancelled = %d, want 2", cancelled)
	}

	for _, id := range []uuid.UUID{p1.ID, p2.ID} {
		if got := appointments.get(id).Status; got != entity.AppointmentStatusCancelledByDoctor {
			t.Errorf("appointment %s status = %q, want cancelled_by_doctor", id, got)
		}
	}
	if got := appointments.get(done.ID).Status; got != entity.AppointmentStatusFinalized {
		t.Errorf("finalized appointment status = %q, want finalized", got)
	}
	if got := appointments.get(other.ID).Status; got != entity.AppointmentStatusPending {
		t.Errorf("other doctor's appointment status = %q, want pending", got)
	}

	if got := notifier.byType(service.EventDoctorUnavailable); len(got) != 2 {
		t.Errorf("unavailable events = %d, want 2", len(got))
	}
}

// A notifier outage must never block or undo a cancellation.
func TestCancelNotifierFailureIsNotFatal(t *testing.T) {
	patientID := uuid.New()
	doctorID := uuid.New()
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	uc, appointments, notifier := newCancellationFixture()
	notifier.err = errors.New("stream down")
	a := appointments.add(entity.Appointment{PatientID: patientID, DoctorID: doctorID, Date: day, StartTime: "09:30"})

	if _, err := uc.CancelAsPatient(context.Background(), patientID, a.ID); err != nil {
		t.Fatalf("CancelAsPatient() error = %v", err)
	}
	if got := appointments.get(a.ID).Status; got != entity.AppointmentStatusCancelledByPatient {
		t.Errorf("status = %q, want cancelled_by_patient", got)
	}
}
