package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-appointment-service/internal/converter"
	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/domain/repository"
	"clinic-appointment-service/internal/domain/schedule"
	"clinic-appointment-service/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	BookAppointment(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	GetMyAppointments(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error)
	GetDoctorAppointments(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AppointmentListResponse, error)
}

type bookingUseCase struct {
	log             *logrus.Logger
	granularity     time.Duration
	appointmentRepo repository.AppointmentRepository
	windowRepo      repository.AvailabilityWindowRepository
	doctorRepo      repository.DoctorProfileRepository
	notifier        service.Notifier
	auditService    service.AuditService
	now             func() time.Time
}

func NewBookingUseCase(
	log *logrus.Logger,
	granularity time.Duration,
	appointmentRepo repository.AppointmentRepository,
	windowRepo repository.AvailabilityWindowRepository,
	doctorRepo repository.DoctorProfileRepository,
	notifier service.Notifier,
	auditService service.AuditService,
) BookingUseCase {
	return &bookingUseCase{
		log:             log,
		granularity:     granularity,
		appointmentRepo: appointmentRepo,
		windowRepo:      windowRepo,
		doctorRepo:      doctorRepo,
		notifier:        notifier,
		auditService:    auditService,
		now:             time.Now,
	}
}

// BookAppointment runs the booking checks in a fixed order, then inserts.
// The application-level conflict checks give precise errors; the partial
// unique indexes behind the insert are what actually decide concurrent
// races, so a constraint rejection is translated to the same errors.
func (uc *bookingUseCase) BookAppointment(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	// 1. Doctor must exist and be accepting appointments
	doctor, err := uc.doctorRepo.FindByUserID(ctx, req.DoctorID)
	if err != nil {
		uc.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !doctor.Active() {
		return nil, ErrDoctorInactive
	}

	// 2. The slot must lie on the doctor's grid for that weekday and must
	// not have started yet
	day, err := schedule.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if _, err := schedule.ParseClock(req.StartTime); err != nil {
		return nil, err
	}

	past, err := schedule.InPast(day, req.StartTime, uc.now().UTC())
	if err != nil {
		return nil, err
	}
	if past {
		return nil, ErrSlotUnavailable
	}

	onGrid, err := uc.slotOffered(ctx, req.DoctorID, day.Weekday(), req.StartTime)
	if err != nil {
		return nil, err
	}
	if !onGrid {
		return nil, ErrSlotUnavailable
	}

	// 3. Patient double-booking check
	busy, err := uc.appointmentRepo.PatientHasActiveAt(ctx, patientID, day, req.StartTime)
	if err != nil {
		uc.log.Warnf("Failed to check patient conflict: %+v", err)
		return nil, err
	}
	if busy {
		return nil, ErrPatientSlotConflict
	}

	// 4. Doctor double-booking check
	busy, err = uc.appointmentRepo.DoctorHasActiveAt(ctx, req.DoctorID, day, req.StartTime)
	if err != nil {
		uc.log.Warnf("Failed to check doctor conflict: %+v", err)
		return nil, err
	}
	if busy {
		return nil, ErrDoctorSlotConflict
	}

	// 5. Insert; a concurrent race is decided here by the unique indexes
	appointment := &entity.Appointment{
		PatientID: patientID,
		DoctorID:  req.DoctorID,
		Date:      day,
		StartTime: req.StartTime,
		Reason:    req.Reason,
		Status:    entity.AppointmentStatusPending,
	}
	if err := uc.appointmentRepo.Create(ctx, appointment); err != nil {
		switch {
		case errors.Is(err, repository.ErrDoctorSlotTaken):
			return nil, ErrDoctorSlotConflict
		case errors.Is(err, repository.ErrPatientSlotTaken):
			return nil, ErrPatientSlotConflict
		}
		uc.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	uc.emit(ctx, service.EventAppointmentBooked, appointment)

	if err := uc.auditService.LogCreate(ctx, &patientID, entity.AuditActionAppointmentBook, "appointment", appointment.ID.String(), appointment); err != nil {
		uc.log.Warnf("Failed to audit booking: %+v", err)
	}

	return converter.AppointmentToResponse(appointment), nil
}

// slotOffered reports whether startTime is one of the grid slot starts of
// any window the doctor has on that weekday.
func (uc *bookingUseCase) slotOffered(ctx context.Context, doctorID uuid.UUID, weekday time.Weekday, startTime string) (bool, error) {
	windows, err := uc.windowRepo.FindByDoctorAndWeekday(ctx, doctorID, weekday)
	if err != nil {
		uc.log.Warnf("Failed to list windows for doctor %s: %+v", doctorID, err)
		return false, err
	}

	for _, w := range windows {
		starts, err := schedule.SlotStarts(w.StartTime, w.EndTime, uc.granularity)
		if err != nil {
			uc.log.Warnf("Skipping malformed window %d for doctor %s: %+v", w.ID, doctorID, err)
			continue
		}
		for _, s := range starts {
			if s == startTime {
				return true, nil
			}
		}
	}
	return false, nil
}

func (uc *bookingUseCase) GetMyAppointments(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := uc.appointmentRepo.FindByPatientID(ctx, patientID)
	if err != nil {
		uc.log.Warnf("Failed to list appointments for patient %s: %+v", patientID, err)
		return nil, err
	}
	return converter.AppointmentsToListResponse(appointments), nil
}

// GetDoctorAppointments lists a doctor's appointments for a date, or all
// pending ones when no date is given.
func (uc *bookingUseCase) GetDoctorAppointments(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AppointmentListResponse, error) {
	var (
		appointments []entity.Appointment
		err          error
	)
	if date == "" {
		appointments, err = uc.appointmentRepo.FindPendingByDoctor(ctx, doctorID)
	} else {
		var day time.Time
		day, err = schedule.ParseDate(date)
		if err != nil {
			return nil, err
		}
		appointments, err = uc.appointmentRepo.FindByDoctorAndDate(ctx, doctorID, day)
	}
	if err != nil {
		uc.log.Warnf("Failed to list appointments for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	return converter.AppointmentsToListResponse(appointments), nil
}

func (uc *bookingUseCase) emit(ctx context.Context, eventType string, a *entity.Appointment) {
	err := uc.notifier.Emit(ctx, service.AppointmentEvent{
		Type:          eventType,
		AppointmentID: a.ID,
		PatientID:     a.PatientID,
		DoctorID:      a.DoctorID,
		Date:          a.Date.Format(schedule.DateLayout),
		StartTime:     a.StartTime,
	})
	if err != nil {
		uc.log.Warnf("Failed to emit %s event for appointment %s: %+v", eventType, a.ID, err)
	}
}
