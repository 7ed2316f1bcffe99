package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"clinic-appointment-service/internal/domain/entity"
	domainRepo "clinic-appointment-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Index names from the migrations; the partial unique indexes only cover
// rows with an active status, so cancelled slots can be rebooked.
const (
	doctorSlotIndex  = "ux_appointments_doctor_slot"
	patientSlotIndex = "ux_appointments_patient_slot"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	err := r.db.WithContext(ctx).Create(appointment).Error
	if err != nil {
		if isUniqueViolation(err, doctorSlotIndex) {
			return domainRepo.ErrDoctorSlotTaken
		}
		if isUniqueViolation(err, patientSlotIndex) {
			return domainRepo.ErrPatientSlotTaken
		}
		return err
	}
	return nil
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Doctor.User").
		Preload("Patient.User").
		Where("id = ?", id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Doctor.User").
		Where("patient_id = ?", patientID).
		Order("appointment_date DESC, start_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient.User").
		Where("doctor_id = ? AND appointment_date = ?", doctorID, date.Format("2006-01-02")).
		Order("start_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindPendingByDoctor(ctx context.Context, doctorID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND status = ?", doctorID, entity.AppointmentStatusPending).
		Order("appointment_date ASC, start_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) ListActiveTimes(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	var times []string
	err := r.db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND status IN ?", doctorID, date.Format("2006-01-02"), entity.ActiveStatuses()).
		Pluck("to_char(start_time, 'HH24:MI')", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

func (r *appointmentRepository) PatientHasActiveAt(ctx context.Context, patientID uuid.UUID, date time.Time, startTime string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Where("patient_id = ? AND appointment_date = ? AND start_time = ? AND status IN ?",
			patientID, date.Format("2006-01-02"), startTime, entity.ActiveStatuses()).
		Count(&count).Error
	return count > 0, err
}

func (r *appointmentRepository) DoctorHasActiveAt(ctx context.Context, doctorID uuid.UUID, date time.Time, startTime string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND start_time = ? AND status IN ?",
			doctorID, date.Format("2006-01-02"), startTime, entity.ActiveStatuses()).
		Count(&count).Error
	return count > 0, err
}

// UpdateStatusIfPending is a compare-and-set: the WHERE clause guarantees two
// concurrent terminal transitions cannot both succeed.
func (r *appointmentRepository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, to entity.AppointmentStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, entity.AppointmentStatusPending).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) FinalizeIfPending(ctx context.Context, id uuid.UUID, report string, reportedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, entity.AppointmentStatusPending).
		Updates(map[string]interface{}{
			"status":              entity.AppointmentStatusFinalized,
			"consultation_report": report,
			"reported_at":         reportedAt,
		})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) AmendReportIfFinalized(ctx context.Context, id uuid.UUID, report string, reportedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Where("id = ? AND status = ? AND consultation_report <> ''", id, entity.AppointmentStatusFinalized).
		Updates(map[string]interface{}{
			"consultation_report": report,
			"reported_at":         reportedAt,
		})
	return result.RowsAffected, result.Error
}

// isUniqueViolation checks if the error is a PostgreSQL unique violation
// raised by the named constraint or index
func isUniqueViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
