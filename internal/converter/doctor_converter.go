package converter

import (
	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
)

// DoctorToResponse flattens a doctor profile and its user account into a
// single response. Requires User to be preloaded.
func DoctorToResponse(p *entity.DoctorProfile) *dto.DoctorResponse {
	return &dto.DoctorResponse{
		ID:             p.UserID,
		Email:          p.User.Email,
		FullName:       p.User.FullName,
		LicenseNumber:  p.LicenseNumber,
		Specialization: p.Specialization,
		Biography:      p.Biography,
		IsActive:       p.User.IsActive,
	}
}

func DoctorsToListResponse(profiles []entity.DoctorProfile) *dto.DoctorListResponse {
	items := make([]dto.DoctorResponse, 0, len(profiles))
	for i := range profiles {
		items = append(items, *DoctorToResponse(&profiles[i]))
	}
	return &dto.DoctorListResponse{
		Doctors: items,
		Total:   len(items),
	}
}

func DoctorProfileToResponse(p *entity.DoctorProfile) *dto.DoctorProfileResponse {
	return &dto.DoctorProfileResponse{
		LicenseNumber:  p.LicenseNumber,
		Specialization: p.Specialization,
		Biography:      p.Biography,
	}
}
