package usecase

import (
	"context"
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

type CancellationUseCase interface {
	CancelAsPatient(ctx context.Context, patientID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	CancelAsDoctor(ctx context.Context, doctorID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)

	// CancelAllPendingForDoctor cancels every pending appointment of a
	// doctor and returns how many were cancelled. Used when a doctor is
	// deactivated.
	CancelAllPendingForDoctor(ctx context.Context, actorID, doctorID uuid.UUID) (int, error)
}

type cancellationUseCase struct {
	log             *logrus.Logger
	cancelLead      time.Duration
	appointmentRepo repository.AppointmentRepository
	notifier        service.Notifier
	auditService    service.AuditService
	now             func() time.Time
}

func NewCancellationUseCase(
	log *logrus.Logger,
	cancelLead time.Duration,
	appointmentRepo repository.AppointmentRepository,
	notifier service.Notifier,
	auditService service.AuditService,
) CancellationUseCase {
	return &cancellationUseCase{
		log:             log,
		cancelLead:      cancelLead,
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
		auditService:    auditService,
		now:             time.Now,
	}
}

// CancelAsPatient cancels the patient's own pending appointment, subject to
// the lead-time rule: once now is within cancelLead of the start, the slot
// is locked in.
func (uc *cancellationUseCase) CancelAsPatient(ctx context.Context, patientID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := uc.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		uc.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.PatientID != patientID {
		return nil, ErrAppointmentNotOwned
	}
	if !appointment.IsPending() {
		return nil, ErrAppointmentNotPending
	}

	tooLate, err := schedule.WithinLead(appointment.Date, appointment.StartTime, uc.now().UTC(), uc.cancelLead)
	if err != nil {
		return nil, err
	}
	if tooLate {
		return nil, ErrCancelTooLate
	}

	rows, err := uc.appointmentRepo.UpdateStatusIfPending(ctx, appointmentID, entity.AppointmentStatusCancelledByPatient)
	if err != nil {
		uc.log.Warnf("Failed to cancel appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if rows == 0 {
		// A concurrent finalize or cancel got there first
		return nil, ErrAppointmentNotPending
	}
	appointment.Status = entity.AppointmentStatusCancelledByPatient

	uc.emit(ctx, service.EventCancelledByPatient, appointment)

	if err := uc.auditService.LogUpdate(ctx, &patientID, entity.AuditActionPatientCancel, "appointment", appointmentID.String(), entity.AppointmentStatusPending, appointment.Status); err != nil {
		uc.log.Warnf("Failed to audit patient cancellation: %+v", err)
	}

	return converter.AppointmentToResponse(appointment), nil
}

// CancelAsDoctor cancels a pending appointment on the doctor's own
// schedule. Doctors are not bound by the lead-time rule.
func (uc *cancellationUseCase) CancelAsDoctor(ctx context.Context, doctorID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := uc.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		uc.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.DoctorID != doctorID {
		return nil, ErrAppointmentNotOwned
	}
	if !appointment.IsPending() {
		return nil, ErrAppointmentNotPending
	}

	rows, err := uc.appointmentRepo.UpdateStatusIfPending(ctx, appointmentID, entity.AppointmentStatusCancelledByDoctor)
	if err != nil {
		uc.log.Warnf("Failed to cancel appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrAppointmentNotPending
	}
	appointment.Status = entity.AppointmentStatusCancelledByDoctor

	uc.emit(ctx, service.EventCancelledByDoctor, appointment)

	if err := uc.auditService.LogUpdate(ctx, &doctorID, entity.AuditActionDoctorCancel, "appointment", appointmentID.String(), entity.AppointmentStatusPending, appointment.Status); err != nil {
		uc.log.Warnf("Failed to audit doctor cancellation: %+v", err)
	}

	return converter.AppointmentToResponse(appointment), nil
}

// CancelAllPendingForDoctor walks the doctor's pending appointments and
// cancels each with the conditional update, so rows that were concurrently
// finalized or cancelled are simply skipped. Notifications are best effort.
func (uc *cancellationUseCase) CancelAllPendingForDoctor(ctx context.Context, actorID, doctorID uuid.UUID) (int, error) {
	pending, err := uc.appointmentRepo.FindPendingByDoctor(ctx, doctorID)
	if err != nil {
		uc.log.Warnf("Failed to list pending appointments for doctor %s: %+v", doctorID, err)
		return 0, err
	}

	now := uc.now().UTC()
	cancelled := 0
	for i := range pending {
		a := &pending[i]

		if past, perr := schedule.InPast(a.Date, a.StartTime, now); perr == nil && past {
			// Stale pending row; cancel it anyway so it stops occupying
			// the slot indexes
			uc.log.Warnf("Cascade cancelling past-dated pending appointment %s (%s %s)", a.ID, a.Date.Format(schedule.DateLayout), a.StartTime)
		}

		rows, err := uc.appointmentRepo.UpdateStatusIfPending(ctx, a.ID, entity.AppointmentStatusCancelledByDoctor)
		if err != nil {
			uc.log.Warnf("Failed to cascade cancel appointment %s: %+v", a.ID, err)
			return cancelled, err
		}
		if rows == 0 {
			continue
		}
		a.Status = entity.AppointmentStatusCancelledByDoctor
		cancelled++

		uc.emit(ctx, service.EventDoctorUnavailable, a)
	}

	if cancelled > 0 {
		if err := uc.auditService.LogUpdate(ctx, &actorID, entity.AuditActionCascadeCancel, "doctor", doctorID.String(), nil, map[string]interface{}{"cancelled": cancelled}); err != nil {
			uc.log.Warnf("Failed to audit cascade cancellation: %+v", err)
		}
	}

	return cancelled, nil
}

func (uc *cancellationUseCase) emit(ctx context.Context, eventType string, a *entity.Appointment) {
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
