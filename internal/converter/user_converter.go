package converter

import (
	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
)

func UserToResponse(u *entity.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role.RoleName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}

	if u.DoctorProfile != nil {
		resp.DoctorProfile = DoctorProfileToResponse(u.DoctorProfile)
	}
	if u.PatientProfile != nil {
		resp.PatientProfile = PatientProfileToResponse(u.PatientProfile)
	}

	return resp
}
