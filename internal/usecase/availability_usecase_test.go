package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/domain/schedule"

	"github.com/google/uuid"
)

func newAvailabilityFixture(doctorID uuid.UUID, doctor *entity.DoctorProfile, windows []entity.AvailabilityWindow) (*availabilityUseCase, *memAppointmentRepo) {
	appointments := &memAppointmentRepo{}
	windowRepo := &fakeWindowRepo{windows: windows}
	doctors := &fakeDoctorRepo{
		FindByUserIDFn: func(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error) {
			if doctor != nil && userID == doctor.UserID {
				return doctor, nil
			}
			return nil, nil
		},
	}

	uc := NewAvailabilityUseCase(testLogger(), 30*time.Minute, windowRepo, appointments, doctors, &fakeAudit{}).(*availabilityUseCase)
	uc.now = func() time.Time { return bookingNow }
	return uc, appointments
}

func TestGetAvailableSlots(t *testing.T) {
	doctorID := uuid.New()
	monday := []entity.AvailabilityWindow{
		{ID: 1, DoctorID: doctorID, Weekday: time.Monday, StartTime: "09:00", EndTime: "11:00"},
	}

	t.Run("expands a window into the slot grid", func(t *testing.T) {
		uc, _ := newAvailabilityFixture(doctorID, activeDoctor(doctorID), monday)

		resp, err := uc.GetAvailableSlots(context.Background(), doctorID, bookingDate)
		if err != nil {
			t.Fatalf("GetAvailableSlots() error = %v", err)
		}
		want := []string{"09:00", "09:30", "10:00", "10:30"}
		if !reflect.DeepEqual(resp.Slots, want) {
			t.Errorf("slots = %v, want %v", resp.Slots, want)
		}
	})

	t.Run("excludes booked slots", func(t *testing.T) {
		uc, appointments := newAvailabilityFixture(doctorID, activeDoctor(doctorID), monday)
		day := mustParseDate(t, bookingDate)
		appointments.add(entity.Appointment{DoctorID: doctorID, PatientID: uuid.New(), Date: day, StartTime: "09:30"})
		appointments.add(entity.Appointment{DoctorID: doctorID, PatientID: uuid.New(), Date: day, StartTime: "10:00", Status: entity.AppointmentStatusFinalized})

		resp, err := uc.GetAvailableSlots(context.Background(), doctorID, bookingDate)
		if err != nil {
			t.Fatalf("GetAvailableSlots() error = %v", err)
		}
		want := []string{"09:00", "10:30"}
		if !reflect.DeepEqual(resp.Slots, want) {
			t.Errorf("slots = %v, want %v", resp.Slots, want)
		}
	})

	t.Run("cancelled bookings do not block slots", func(t *testing.T) {
		uc, appointments := newAvailabilityFixture(doctorID, activeDoctor(doctorID), monday)
		day := mustParseDate(t, bookingDate)
		appointments.add(entity.Appointment{DoctorID: doctorID, PatientID: uuid.New(), Date: day, StartTime: "09:30", Status: entity.AppointmentStatusCancelledByPatient})

		resp, err := uc.GetAvailableSlots(context.Background(), doctorID, bookingDate)
		if err != nil {
			t.Fatalf("GetAvailableSlots() error = %v", err)
		}
		if len(resp.Slots) != 4 {
			t.Errorf("slots = %v, want all 4", resp.Slots)
		}
	})

	t.Run("overlapping windows yield deduplicated slots", func(t *testing.T) {
		uc, _ := newAvailabilityFixture(doctorID, activeDoctor(doctorID), []entity.AvailabilityWindow{
			{ID: 1, DoctorID: doctorID, Weekday: time.Monday, StartTime: "09:00", EndTime: "11:00"},
			{ID: 2, DoctorID: doctorID, Weekday: time.Monday, StartTime: "10:00", EndTime: "12:00"},
		})

		resp, err := uc.GetAvailableSlots(context.Background(), doctorID, bookingDate)
		if err != nil {
			t.Fatalf("GetAvailableSlots() error = %v", err)
		}
		want := []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}
		if !reflect.DeepEqual(resp.Slots, want) {
			t.Errorf("slots = %v, want %v", resp.Slots, want)
		}
	})

	t.Run("today drops slots that already started", func(t *testing.T) {
		// bookingNow is Tuesday 10:00; give the doctor a Tuesday window
		uc, _ := newAvailabilityFixture(doctorID, activeDoctor(doctorID), []entity.AvailabilityWindow{
			{ID: 1, DoctorID: doctorID, Weekday: time.Tuesday, StartTime: "09:00", EndTime: "12:00"},
		})

		resp, err := uc.GetAvailableSlots(context.Background(), doctorID, "2026-09-01")
		if err != nil {
			t.Fatalf("GetAvailableSlots() error = %v", err)
		}
		want := []string{"10:30", "11:00", "11:30"}
		if !reflect.DeepEqual(resp.Slots, want) {
			t.Errorf("slots = %v, want %v", resp.Slots, want)
		}
	})

	t.Run("no windows means no slots", func(t *testing.T) {
		uc, _ := newAvailabilityFixture(doctorID, activeDoctor(doctorID), monday)

		// A Wednesday: the doctor only works Mondays
		resp, err := uc.GetAvailableSlots(context.Background(), doctorID, "2026-09-09")
		if err != nil {
			t.Fatalf("GetAvailableSlots() error = %v", err)
		}
		if len(resp.Slots) != 0 {
			t.Errorf("slots = %v, want none", resp.Slots)
		}
	})

	t.Run("inactive doctor has no slots", func(t *testing.T) {
		uc, _ := newAvailabilityFixture(doctorID, inactiveDoctor(doctorID), monday)

		resp, err := uc.GetAvailableSlots(context.Background(), doctorID, bookingDate)
		if err != nil {
			t.Fatalf("GetAvailableSlots() error = %v", err)
		}
		if len(resp.Slots) != 0 {
			t.Errorf("slots = %v, want none", resp.Slots)
		}
	})

	t.Run("unknown doctor", func(t *testing.T) {
		uc, _ := newAvailabilityFixture(doctorID, activeDoctor(doctorID), monday)

		_, err := uc.GetAvailableSlots(context.Background(), uuid.New(), bookingDate)
		if !errors.Is(err, ErrDoctorNotFound) {
			t.Errorf("error = %v, want ErrDoctorNotFound", err)
		}
	})

	t.Run("malformed date", func(t *testing.T) {
		uc, _ := newAvailabilityFixture(doctorID, activeDoctor(doctorID), monday)

		_, err := uc.GetAvailableSlots(context.Background(), doctorID, "07-09-2026")
		if !errors.Is(err, schedule.ErrInvalidDate) {
			t.Errorf("error = %v, want ErrInvalidDate", err)
		}
	})
}

func TestWindowManagement(t *testing.T) {
	doctorID := uuid.New()

	t.Run("rejects a window not divisible by the granularity", func(t *testing.T) {
		uc, _ := newAvailabilityFixture(doctorID, activeDoctor(doctorID), nil)
		weekday := int(time.Monday)

		_, err := uc.CreateWindow(context.Background(), doctorID, &dto.CreateWindowRequest{
			Weekday:   &weekday,
			StartTime: "09:00",
			EndTime:   "10:45",
		})
		if !errors.Is(err, schedule.ErrWindowOffGrid) {
			t.Errorf("error = %v, want ErrWindowOffGrid", err)
		}
	})

	t.Run("rejects an inverted window", func(t *testing.T) {
		uc, _ := newAvailabilityFixture(doctorID, activeDoctor(doctorID), nil)
		weekday := int(time.Monday)

		_, err := uc.CreateWindow(context.Background(), doctorID, &dto.CreateWindowRequest{
			Weekday:   &weekday,
			StartTime: "11:00",
			EndTime:   "09:00",
		})
		if !errors.Is(err, schedule.ErrWindowOrder) {
			t.Errorf("error = %v, want ErrWindowOrder", err)
		}
	})

	t.Run("rejects overlap on the same weekday", func(t *testing.T) {
		uc, _ := newAvailabilityFixture(doctorID, activeDoctor(doctorID), []entity.AvailabilityWindow{
			{ID: 1, DoctorID: doctorID, Weekday: time.Monday, StartTime: "09:00", EndTime: "11:00"},
		})
		weekday := int(time.Monday)

		_, err := uc.CreateWindow(context.Background(), doctorID, &dto.CreateWindowRequest{
			Weekday:   &weekday,
			StartTime: "10:30",
			EndTime:   "12:00",
		})
		if !errors.Is(err, ErrWindowOverlap) {
			t.Errorf("error = %v, want ErrWindowOverlap", err)
		}
	})

	t.Run("allows the same hours on another weekday", func(t *testing.T) {
		uc, _ := newAvailabilityFixture(doctorID, activeDoctor(doctorID), []entity.AvailabilityWindow{
			{ID: 1, DoctorID: doctorID, Weekday: time.Monday, StartTime: "09:00", EndTime: "11:00"},
		})
		weekday := int(time.Friday)

		resp, err := uc.CreateWindow(context.Background(), doctorID, &dto.CreateWindowRequest{
			Weekday:   &weekday,
			StartTime: "09:00",
			EndTime:   "11:00",
		})
		if err != nil {
			t.Fatalf("CreateWindow() error = %v", err)
		}
		if resp.Weekday != int(time.Friday) {
			t.Errorf("weekday = %d, want %d", resp.Weekday, int(time.Friday))
		}
	})

	t.Run("cannot touch another doctor's window", func(t *testing.T) {
		uc, _ := newAvailabilityFixture(doctorID, activeDoctor(doctorID), []entity.AvailabilityWindow{
			{ID: 7, DoctorID: uuid.New(), Weekday: time.Monday, StartTime: "09:00", EndTime: "11:00"},
		})

		if err := uc.DeleteWindow(context.Background(), doctorID, 7); !errors.Is(err, ErrWindowNotFound) {
			t.Errorf("DeleteWindow() error = %v, want ErrWindowNotFound", err)
		}
		if _, err := uc.UpdateWindow(context.Background(), doctorID, 7, &dto.UpdateWindowRequest{StartTime: "08:00"}); !errors.Is(err, ErrWindowNotFound) {
			t.Errorf("UpdateWindow() error = %v, want ErrWindowNotFound", err)
		}
	})
}
