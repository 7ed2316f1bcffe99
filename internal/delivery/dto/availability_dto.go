package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateWindowRequest struct {
	Weekday   *int   `json:"weekday" validate:"required,min=0,max=6"` // 0 = Sunday
	StartTime string `json:"start_time" validate:"required"`          // Format: HH:MM
	EndTime   string `json:"end_time" validate:"required"`            // Format: HH:MM
}

type UpdateWindowRequest struct {
	Weekday   *int   `json:"weekday" validate:"omitempty,min=0,max=6"`
	StartTime string `json:"start_time" validate:"omitempty"`
	EndTime   string `json:"end_time" validate:"omitempty"`
}

// Response DTOs

type WindowResponse struct {
	ID        int       `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Weekday   int       `json:"weekday"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type WindowListResponse struct {
	Windows []WindowResponse `json:"windows"`
	Total   int              `json:"total"`
}

type SlotListResponse struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Date     string    `json:"date"`
	Slots    []string  `json:"slots"`
}
