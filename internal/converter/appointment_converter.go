package converter

import (
	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/domain/schedule"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an appointment entity to its response DTO.
// Doctor/Patient sub-objects are included only when the relation was preloaded.
func AppointmentToResponse(a *entity.Appointment) *dto.AppointmentResponse {
	resp := &dto.AppointmentResponse{
		ID:                 a.ID,
		PatientID:          a.PatientID,
		DoctorID:           a.DoctorID,
		Date:               a.Date.Format(schedule.DateLayout),
		StartTime:          a.StartTime,
		Reason:             a.Reason,
		Status:             string(a.Status),
		ConsultationReport: a.ConsultationReport,
		ReportedAt:         a.ReportedAt,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.Doctor.UserID != uuid.Nil {
		resp.Doctor = DoctorToResponse(&a.Doctor)
	}
	if a.Patient.UserID != uuid.Nil {
		resp.Patient = PatientToResponse(&a.Patient)
	}

	return resp
}

func AppointmentsToListResponse(appointments []entity.Appointment) *dto.AppointmentListResponse {
	items := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		items = append(items, *AppointmentToResponse(&appointments[i]))
	}
	return &dto.AppointmentListResponse{
		Appointments: items,
		Total:        len(items),
	}
}
