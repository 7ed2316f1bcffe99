package repository

import (
	"context"
	"time"

	"clinic-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
)

type AvailabilityWindowRepository interface {
	Create(ctx context.Context, window *entity.AvailabilityWindow) error
	FindByID(ctx context.Context, id int) (*entity.AvailabilityWindow, error)
	FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.AvailabilityWindow, error)
	FindByDoctorAndWeekday(ctx context.Context, doctorID uuid.UUID, weekday time.Weekday) ([]entity.AvailabilityWindow, error)
	Update(ctx context.Context, window *entity.AvailabilityWindow) error
	Delete(ctx context.Context, id int) (int64, error)
}
