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

type FinalizationUseCase interface {
	FinalizeAppointment(ctx context.Context, doctorID, appointmentID uuid.UUID, req *dto.FinalizeAppointmentRequest) (*dto.AppointmentResponse, error)
	AmendReport(ctx context.Context, doctorID, appointmentID uuid.UUID, req *dto.AmendReportRequest) (*dto.AppointmentResponse, error)
}

type finalizationUseCase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	notifier        service.Notifier
	auditService    service.AuditService
	now             func() time.Time
}

func NewFinalizationUseCase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	notifier service.Notifier,
	auditService service.AuditService,
) FinalizationUseCase {
	return &finalizationUseCase{
		log:             log,
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
		auditService:    auditService,
		now:             time.Now,
	}
}

// FinalizeAppointment records the consultation report and closes the
// appointment. The report and the status change land in one conditional
// update, so an appointment can never be finalized without a report.
func (uc *finalizationUseCase) FinalizeAppointment(ctx context.Context, doctorID, appointmentID uuid.UUID, req *dto.FinalizeAppointmentRequest) (*dto.AppointmentResponse, error) {
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

	reportedAt := uc.now().UTC()
	rows, err := uc.appointmentRepo.FinalizeIfPending(ctx, appointmentID, req.Report, reportedAt)
	if err != nil {
		uc.log.Warnf("Failed to finalize appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if rows == 0 {
		// A concurrent cancel or finalize got there first
		return nil, ErrAppointmentNotPending
	}

	appointment.Status = entity.AppointmentStatusFinalized
	appointment.ConsultationReport = req.Report
	appointment.ReportedAt = &reportedAt

	uc.emit(ctx, service.EventAppointmentFinalized, appointment)

	if err := uc.auditService.LogUpdate(ctx, &doctorID, entity.AuditActionFinalize, "appointment", appointmentID.String(), entity.AppointmentStatusPending, appointment.Status); err != nil {
		uc.log.Warnf("Failed to audit finalization: %+v", err)
	}

	return converter.AppointmentToResponse(appointment), nil
}

// AmendReport replaces the consultation report of an already finalized
// appointment. The status does not change; only the report text and its
// timestamp do.
func (uc *finalizationUseCase) AmendReport(ctx context.Context, doctorID, appointmentID uuid.UUID, req *dto.AmendReportRequest) (*dto.AppointmentResponse, error) {
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
	if !appointment.HasReport() {
		return nil, ErrNoConsultationReport
	}

	oldReport := appointment.ConsultationReport
	reportedAt := uc.now().UTC()
	rows, err := uc.appointmentRepo.AmendReportIfFinalized(ctx, appointmentID, req.Report, reportedAt)
	if err != nil {
		uc.log.Warnf("Failed to amend report for appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNoConsultationReport
	}

	appointment.ConsultationReport = req.Report
	appointment.ReportedAt = &reportedAt

	if err := uc.auditService.LogUpdate(ctx, &doctorID, entity.AuditActionAmendReport, "appointment", appointmentID.String(), oldReport, req.Report); err != nil {
		uc.log.Warnf("Failed to audit report amendment: %+v", err)
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (uc *finalizationUseCase) emit(ctx context.Context, eventType string, a *entity.Appointment) {
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
