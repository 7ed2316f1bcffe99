package repository

import (
	"context"
	"errors"
	"time"

	"clinic-appointment-service/internal/domain/entity"
	domainRepo "clinic-appointment-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type availabilityWindowRepository struct {
	db *gorm.DB
}

func NewAvailabilityWindowRepository(db *gorm.DB) domainRepo.AvailabilityWindowRepository {
	return &availabilityWindowRepository{db: db}
}

func (r *availabilityWindowRepository) Create(ctx context.Context, window *entity.AvailabilityWindow) error {
	return r.db.WithContext(ctx).Create(window).Error
}

func (r *availabilityWindowRepository) FindByID(ctx context.Context, id int) (*entity.AvailabilityWindow, error) {
	var window entity.AvailabilityWindow
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&window).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &window, nil
}

func (r *availabilityWindowRepository) FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.AvailabilityWindow, error) {
	var windows []entity.AvailabilityWindow
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("weekday ASC, start_time ASC").
		Find(&windows).Error
	if err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *availabilityWindowRepository) FindByDoctorAndWeekday(ctx context.Context, doctorID uuid.UUID, weekday time.Weekday) ([]entity.AvailabilityWindow, error) {
	var windows []entity.AvailabilityWindow
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND weekday = ?", doctorID, weekday).
		Order("start_time ASC").
		Find(&windows).Error
	if err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *availabilityWindowRepository) Update(ctx context.Context, window *entity.AvailabilityWindow) error {
	return r.db.WithContext(ctx).Omit("Doctor").Save(window).Error
}

func (r *availabilityWindowRepository) Delete(ctx context.Context, id int) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.AvailabilityWindow{})
	return result.RowsAffected, result.Error
}
