package converter

import (
	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
)

func WindowToResponse(w *entity.AvailabilityWindow) *dto.WindowResponse {
	return &dto.WindowResponse{
		ID:        w.ID,
		DoctorID:  w.DoctorID,
		Weekday:   int(w.Weekday),
		StartTime: w.StartTime,
		EndTime:   w.EndTime,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func WindowsToListResponse(windows []entity.AvailabilityWindow) *dto.WindowListResponse {
	items := make([]dto.WindowResponse, 0, len(windows))
	for i := range windows {
		items = append(items, *WindowToResponse(&windows[i]))
	}
	return &dto.WindowListResponse{
		Windows: items,
		Total:   len(items),
	}
}
