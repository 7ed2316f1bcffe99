package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment.
// Pending is the only non-terminal state.
type AppointmentStatus string

const (
	AppointmentStatusPending            AppointmentStatus = "pending"
	AppointmentStatusFinalized          AppointmentStatus = "finalized"
	AppointmentStatusCancelledByPatient AppointmentStatus = "cancelled_by_patient"
	AppointmentStatusCancelledByDoctor  AppointmentStatus = "cancelled_by_doctor"
)

// Active reports whether the appointment still occupies its slot.
func (s AppointmentStatus) Active() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusFinalized
}

// Terminal reports whether no further transition is allowed from s.
func (s AppointmentStatus) Terminal() bool {
	return s != AppointmentStatusPending
}

// CanTransitionTo is the lifecycle contract: the only legal transitions are
// pending -> finalized / cancelled_by_patient / cancelled_by_doctor.
func (s AppointmentStatus) CanTransitionTo(to AppointmentStatus) bool {
	return s == AppointmentStatusPending && to.Terminal()
}

// ActiveStatuses returns the statuses that count toward slot occupancy.
func ActiveStatuses() []AppointmentStatus {
	return []AppointmentStatus{AppointmentStatusPending, AppointmentStatusFinalized}
}

// Appointment is a booking of one grid slot of a doctor's day by a patient.
// Appointments are never deleted; cancellation is a status change.
type Appointment struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Date      time.Time         `gorm:"column:appointment_date;type:date;not null;index" json:"date"`
	StartTime string            `gorm:"type:time;not null" json:"start_time"`
	Reason    string            `gorm:"type:text" json:"reason,omitempty"`
	Status    AppointmentStatus `gorm:"type:appointment_status;not null;default:'pending';index" json:"status"`

	ConsultationReport string     `gorm:"type:text" json:"consultation_report,omitempty"`
	ReportedAt         *time.Time `json:"reported_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  DoctorProfile  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsPending checks if the appointment can still be cancelled or finalized.
func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

// HasReport checks if a consultation report has been recorded.
func (a *Appointment) HasReport() bool {
	return a.Status == AppointmentStatusFinalized && a.ConsultationReport != ""
}
