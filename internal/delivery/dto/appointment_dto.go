package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type BookAppointmentRequest struct {
	DoctorID  uuid.UUID `json:"doctor_id" validate:"required"`
	Date      string    `json:"date" validate:"required"`       // Format: YYYY-MM-DD
	StartTime string    `json:"start_time" validate:"required"` // Format: HH:MM
	Reason    string    `json:"reason" validate:"omitempty,max=2000"`
}

type FinalizeAppointmentRequest struct {
	Report string `json:"report" validate:"required,min=1,max=10000"`
}

type AmendReportRequest struct {
	Report string `json:"report" validate:"required,min=1,max=10000"`
}

// Response DTOs

type AppointmentResponse struct {
	ID                 uuid.UUID        `json:"id"`
	PatientID          uuid.UUID        `json:"patient_id"`
	DoctorID           uuid.UUID        `json:"doctor_id"`
	Doctor             *DoctorResponse  `json:"doctor,omitempty"`
	Patient            *PatientResponse `json:"patient,omitempty"`
	Date               string           `json:"date"`
	StartTime          string           `json:"start_time"`
	Reason             string           `json:"reason,omitempty"`
	Status             string           `json:"status"`
	ConsultationReport string           `json:"consultation_report,omitempty"`
	ReportedAt         *time.Time       `json:"reported_at,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
