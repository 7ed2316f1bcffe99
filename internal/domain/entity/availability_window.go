package entity

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityWindow is a recurring weekly interval during which a doctor
// accepts bookings. Windows for the same doctor and weekday must not overlap
// and their duration must be a whole multiple of the slot granularity.
type AvailabilityWindow struct {
	ID        int          `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uuid.UUID    `gorm:"type:uuid;not null;index:idx_windows_doctor_weekday" json:"doctor_id"`
	Weekday   time.Weekday `gorm:"not null;index:idx_windows_doctor_weekday" json:"weekday"` // 0 = Sunday
	StartTime string       `gorm:"type:char(5);not null" json:"start_time"`                  // Format "HH:MM"
	EndTime   string       `gorm:"type:char(5);not null" json:"end_time"`                    // Format "HH:MM"
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (AvailabilityWindow) TableName() string {
	return "availability_windows"
}
