package converter

import (
	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
)

// PatientToResponse flattens a patient profile and its user account into a
// single response. Requires User to be preloaded.
func PatientToResponse(p *entity.PatientProfile) *dto.PatientResponse {
	return &dto.PatientResponse{
		ID:          p.UserID,
		Email:       p.User.Email,
		FullName:    p.User.FullName,
		NIK:         p.NIK,
		PhoneNumber: p.PhoneNumber,
		DateOfBirth: p.DateOfBirth,
		Gender:      p.Gender,
		Address:     p.Address,
		IsActive:    p.User.IsActive,
	}
}

func PatientProfileToResponse(p *entity.PatientProfile) *dto.PatientProfileResponse {
	return &dto.PatientProfileResponse{
		NIK:         p.NIK,
		PhoneNumber: p.PhoneNumber,
		DateOfBirth: p.DateOfBirth,
		Gender:      p.Gender,
		Address:     p.Address,
	}
}
