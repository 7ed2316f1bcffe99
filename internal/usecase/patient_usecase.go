package usecase

import (
	"context"

	"clinic-appointment-service/internal/converter"
	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/domain/repository"
	"clinic-appointment-service/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type PatientUseCase interface {
	GetProfile(ctx context.Context, patientID uuid.UUID) (*dto.PatientResponse, error)
	UpdateSelf(ctx context.Context, patientID uuid.UUID, req *dto.PatientUpdateSelfRequest) (*dto.PatientResponse, error)
}

type patientUseCase struct {
	log          *logrus.Logger
	patientRepo  repository.PatientProfileRepository
	auditService service.AuditService
}

func NewPatientUseCase(
	log *logrus.Logger,
	patientRepo repository.PatientProfileRepository,
	auditService service.AuditService,
) PatientUseCase {
	return &patientUseCase{
		log:          log,
		patientRepo:  patientRepo,
		auditService: auditService,
	}
}

func (uc *patientUseCase) GetProfile(ctx context.Context, patientID uuid.UUID) (*dto.PatientResponse, error) {
	profile, err := uc.patientRepo.FindByUserID(ctx, patientID)
	if err != nil {
		uc.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientNotFound
	}
	return converter.PatientToResponse(profile), nil
}

func (uc *patientUseCase) UpdateSelf(ctx context.Context, patientID uuid.UUID, req *dto.PatientUpdateSelfRequest) (*dto.PatientResponse, error) {
	profile, err := uc.patientRepo.FindByUserID(ctx, patientID)
	if err != nil {
		uc.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientNotFound
	}

	if req.Password != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(profile.User.Password), []byte(req.OldPassword)); err != nil {
			return nil, ErrInvalidOldPassword
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			uc.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		profile.User.Password = string(hashed)
	}
	if req.PhoneNumber != "" {
		profile.PhoneNumber = req.PhoneNumber
	}
	if req.Address != "" {
		profile.Address = req.Address
	}

	if err := uc.patientRepo.Update(ctx, profile); err != nil {
		uc.log.Warnf("Failed to update patient %s: %+v", patientID, err)
		return nil, err
	}

	if err := uc.auditService.LogUpdate(ctx, &patientID, entity.AuditActionProfileUpdate, "patient", patientID.String(), nil, nil); err != nil {
		uc.log.Warnf("Failed to audit profile update: %+v", err)
	}

	return converter.PatientToResponse(profile), nil
}
