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

type DoctorUseCase interface {
	CreateDoctor(ctx context.Context, adminID uuid.UUID, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	UpdateDoctor(ctx context.Context, adminID, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	UpdateSelf(ctx context.Context, doctorID uuid.UUID, req *dto.DoctorUpdateSelfRequest) (*dto.DoctorResponse, error)

	// DeactivateDoctor closes the account for new bookings and cancels
	// every pending appointment. Returns how many were cancelled.
	DeactivateDoctor(ctx context.Context, adminID, doctorID uuid.UUID) (int, error)
	ReactivateDoctor(ctx context.Context, adminID, doctorID uuid.UUID) error
}

type doctorUseCase struct {
	log            *logrus.Logger
	userRepo       repository.UserRepository
	doctorRepo     repository.DoctorProfileRepository
	cancellationUC CancellationUseCase
	auditService   service.AuditService
}

func NewDoctorUseCase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorProfileRepository,
	cancellationUC CancellationUseCase,
	auditService service.AuditService,
) DoctorUseCase {
	return &doctorUseCase{
		log:            log,
		userRepo:       userRepo,
		doctorRepo:     doctorRepo,
		cancellationUC: cancellationUC,
		auditService:   auditService,
	}
}

// CreateDoctor provisions a doctor account with its profile in one
// association insert. Doctors are onboarded by an admin, never by
// self-registration.
func (uc *doctorUseCase) CreateDoctor(ctx context.Context, adminID uuid.UUID, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	active := true
	user := &entity.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		FullName: req.FullName,
		RoleID:   entity.RoleIDDoctor,
		IsActive: &active,
		DoctorProfile: &entity.DoctorProfile{
			LicenseNumber:  req.LicenseNumber,
			Specialization: req.Specialization,
			Biography:      req.Biography,
		},
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailTaken
		}
		if isDuplicateKeyError(err, "license") {
			return nil, ErrLicenseTaken
		}
		uc.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	if err := uc.auditService.LogCreate(ctx, &adminID, entity.AuditActionDoctorCreate, "doctor", user.ID.String(), user.Email); err != nil {
		uc.log.Warnf("Failed to audit doctor creation: %+v", err)
	}

	profile := user.DoctorProfile
	profile.User = *user
	return converter.DoctorToResponse(profile), nil
}

func (uc *doctorUseCase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	profile, err := uc.doctorRepo.FindByUserID(ctx, doctorID)
	if err != nil {
		uc.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorToResponse(profile), nil
}

func (uc *doctorUseCase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	profiles, err := uc.doctorRepo.FindAll(ctx)
	if err != nil {
		uc.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}
	return converter.DoctorsToListResponse(profiles), nil
}

func (uc *doctorUseCase) UpdateDoctor(ctx context.Context, adminID, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	profile, err := uc.doctorRepo.FindByUserID(ctx, doctorID)
	if err != nil {
		uc.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	old := *profile
	if req.Email != "" {
		profile.User.Email = req.Email
	}
	if req.FullName != "" {
		profile.User.FullName = req.FullName
	}
	if req.LicenseNumber != "" {
		profile.LicenseNumber = req.LicenseNumber
	}
	if req.Specialization != "" {
		profile.Specialization = req.Specialization
	}
	if req.Biography != "" {
		profile.Biography = req.Biography
	}

	if err := uc.doctorRepo.Update(ctx, profile); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailTaken
		}
		if isDuplicateKeyError(err, "license") {
			return nil, ErrLicenseTaken
		}
		uc.log.Warnf("Failed to update doctor %s: %+v", doctorID, err)
		return nil, err
	}

	if err := uc.auditService.LogUpdate(ctx, &adminID, entity.AuditActionDoctorUpdate, "doctor", doctorID.String(), old, profile); err != nil {
		uc.log.Warnf("Failed to audit doctor update: %+v", err)
	}

	return converter.DoctorToResponse(profile), nil
}

func (uc *doctorUseCase) UpdateSelf(ctx context.Context, doctorID uuid.UUID, req *dto.DoctorUpdateSelfRequest) (*dto.DoctorResponse, error) {
	profile, err := uc.doctorRepo.FindByUserID(ctx, doctorID)
	if err != nil {
		uc.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
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
	if req.Biography != "" {
		profile.Biography = req.Biography
	}

	if err := uc.doctorRepo.Update(ctx, profile); err != nil {
		uc.log.Warnf("Failed to update doctor %s: %+v", doctorID, err)
		return nil, err
	}

	if err := uc.auditService.LogUpdate(ctx, &doctorID, entity.AuditActionProfileUpdate, "doctor", doctorID.String(), nil, nil); err != nil {
		uc.log.Warnf("Failed to audit profile update: %+v", err)
	}

	return converter.DoctorToResponse(profile), nil
}

// DeactivateDoctor flips the account flag with a conditional update, then
// cascades: every pending appointment the doctor still has is cancelled
// and both parties are notified. Deactivating an already inactive doctor
// is a no-op.
func (uc *doctorUseCase) DeactivateDoctor(ctx context.Context, adminID, doctorID uuid.UUID) (int, error) {
	profile, err := uc.doctorRepo.FindByUserID(ctx, doctorID)
	if err != nil {
		uc.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return 0, err
	}
	if profile == nil {
		return 0, ErrDoctorNotFound
	}

	rows, err := uc.userRepo.SetActive(ctx, doctorID, false)
	if err != nil {
		uc.log.Warnf("Failed to deactivate doctor %s: %+v", doctorID, err)
		return 0, err
	}
	if rows == 0 {
		return 0, nil
	}

	cancelled, err := uc.cancellationUC.CancelAllPendingForDoctor(ctx, adminID, doctorID)
	if err != nil {
		// The account is already closed for new bookings; report the
		// partial cascade
		uc.log.Warnf("Cascade cancellation for doctor %s incomplete: %+v", doctorID, err)
		return cancelled, err
	}

	uc.log.Infof("Deactivated doctor %s, cancelled %d pending appointments", doctorID, cancelled)

	if err := uc.auditService.LogUpdate(ctx, &adminID, entity.AuditActionDoctorDeactivate, "doctor", doctorID.String(), true, false); err != nil {
		uc.log.Warnf("Failed to audit doctor deactivation: %+v", err)
	}

	return cancelled, nil
}

func (uc *doctorUseCase) ReactivateDoctor(ctx context.Context, adminID, doctorID uuid.UUID) error {
	profile, err := uc.doctorRepo.FindByUserID(ctx, doctorID)
	if err != nil {
		uc.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return err
	}
	if profile == nil {
		return ErrDoctorNotFound
	}

	rows, err := uc.userRepo.SetActive(ctx, doctorID, true)
	if err != nil {
		uc.log.Warnf("Failed to reactivate doctor %s: %+v", doctorID, err)
		return err
	}
	if rows == 0 {
		return nil
	}

	if err := uc.auditService.LogUpdate(ctx, &adminID, entity.AuditActionDoctorReactivate, "doctor", doctorID.String(), false, true); err != nil {
		uc.log.Warnf("Failed to audit doctor reactivation: %+v", err)
	}

	return nil
}
