package repository

import (
	"context"
	"time"

	"clinic-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	// Create inserts the appointment. The storage layer enforces slot
	// uniqueness for both parties; a rejected insert is reported as
	// ErrDoctorSlotTaken or ErrPatientSlotTaken.
	Create(ctx context.Context, appointment *entity.Appointment) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error)
	FindPendingByDoctor(ctx context.Context, doctorID uuid.UUID) ([]entity.Appointment, error)

	// ListActiveTimes returns the start times of the doctor's
	// pending/finalized appointments on a date.
	ListActiveTimes(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error)

	PatientHasActiveAt(ctx context.Context, patientID uuid.UUID, date time.Time, startTime string) (bool, error)
	DoctorHasActiveAt(ctx context.Context, doctorID uuid.UUID, date time.Time, startTime string) (bool, error)

	// UpdateStatusIfPending moves the appointment to a terminal status only
	// if it is still pending. Returns affected rows: 0 means a concurrent
	// transition won and the appointment is no longer pending.
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, to entity.AppointmentStatus) (int64, error)

	// FinalizeIfPending records the consultation report and moves the
	// appointment to finalized, with the same conditional-update contract.
	FinalizeIfPending(ctx context.Context, id uuid.UUID, report string, reportedAt time.Time) (int64, error)

	// AmendReportIfFinalized overwrites the report of an already finalized
	// appointment without touching its status.
	AmendReportIfFinalized(ctx context.Context, id uuid.UUID, report string, reportedAt time.Time) (int64, error)
}
