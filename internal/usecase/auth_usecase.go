package usecase

import (
	"context"
	"errors"
	"fmt"

	"clinic-appointment-service/internal/converter"
	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/domain/repository"
	"clinic-appointment-service/internal/domain/schedule"
	"clinic-appointment-service/internal/service"
	"clinic-appointment-service/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenRevoked = errors.New("token has been revoked")
)

type AuthUseCase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUseCase struct {
	log          *logrus.Logger
	userRepo     repository.UserRepository
	jwtService   *jwt.JWTService
	redisClient  *redis.Client
	auditService service.AuditService
}

func NewAuthUseCase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
	auditService service.AuditService,
) AuthUseCase {
	return &authUseCase{
		log:          log,
		userRepo:     userRepo,
		jwtService:   jwtService,
		redisClient:  redisClient,
		auditService: auditService,
	}
}

// RegisterPatient creates the user account together with its patient
// profile; the association insert keeps both rows in one transaction.
func (uc *authUseCase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	dob, err := schedule.ParseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

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
		RoleID:   entity.RoleIDPatient,
		IsActive: &active,
		PatientProfile: &entity.PatientProfile{
			NIK:         req.NIK,
			PhoneNumber: req.PhoneNumber,
			DateOfBirth: dob,
			Gender:      req.Gender,
			Address:     req.Address,
		},
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailTaken
		}
		if isDuplicateKeyError(err, "nik") {
			return nil, ErrNIKTaken
		}
		uc.log.Warnf("Failed to register patient: %+v", err)
		return nil, err
	}

	if err := uc.auditService.LogCreate(ctx, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), user.Email); err != nil {
		uc.log.Warnf("Failed to audit registration: %+v", err)
	}

	user.Role = entity.Role{ID: entity.RoleIDPatient, RoleName: entity.RolePatient}
	return converter.UserToResponse(user), nil
}

func (uc *authUseCase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		uc.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Active() {
		return nil, ErrUserInactive
	}

	tokens, err := uc.issueTokens(ctx, user.ID, user.Email, user.RoleID)
	if err != nil {
		return nil, err
	}

	if err := uc.auditService.LogCreate(ctx, &user.ID, entity.AuditActionUserLogin, "user", user.ID.String(), nil); err != nil {
		uc.log.Warnf("Failed to audit login: %+v", err)
	}

	return tokens, nil
}

func (uc *authUseCase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID string) error {
	accessKey := fmt.Sprintf("access_token:%s:%s", userID.String(), accessTokenID)
	if err := uc.redisClient.Del(ctx, accessKey).Err(); err != nil {
		uc.log.Warnf("Failed to revoke access token: %+v", err)
		return err
	}

	// Refresh tokens for the user die with the session too
	refreshPattern := fmt.Sprintf("refresh_token:%s:*", userID.String())
	refreshKeys, err := uc.redisClient.Keys(ctx, refreshPattern).Result()
	if err != nil {
		uc.log.Warnf("Failed to list refresh tokens: %+v", err)
		return err
	}
	if len(refreshKeys) > 0 {
		if err := uc.redisClient.Del(ctx, refreshKeys...).Err(); err != nil {
			uc.log.Warnf("Failed to revoke refresh tokens: %+v", err)
			return err
		}
	}

	if err := uc.auditService.LogDelete(ctx, &userID, entity.AuditActionUserLogout, "user", userID.String(), nil); err != nil {
		uc.log.Warnf("Failed to audit logout: %+v", err)
	}

	return nil
}

func (uc *authUseCase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := uc.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	refreshKey := fmt.Sprintf("refresh_token:%s:%s", claims.UserID.String(), claims.TokenID)
	exists, err := uc.redisClient.Exists(ctx, refreshKey).Result()
	if err != nil {
		uc.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if exists == 0 {
		return nil, ErrTokenRevoked
	}

	// Deactivation revokes future sessions even with a live refresh token
	user, err := uc.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		uc.log.Warnf("Failed to find user %s: %+v", claims.UserID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.Active() {
		return nil, ErrUserInactive
	}

	// Rotate: the old refresh token is single-use
	if err := uc.redisClient.Del(ctx, refreshKey).Err(); err != nil {
		uc.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	return uc.issueTokens(ctx, user.ID, user.Email, user.RoleID)
}

func (uc *authUseCase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		uc.log.Warnf("Failed to find user %s: %+v", userID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (uc *authUseCase) issueTokens(ctx context.Context, userID uuid.UUID, email string, roleID int) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := uc.jwtService.GenerateAccessToken(userID, email, roleID)
	if err != nil {
		uc.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := uc.jwtService.GenerateRefreshToken(userID, email, roleID)
	if err != nil {
		uc.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	accessKey := fmt.Sprintf("access_token:%s:%s", userID.String(), accessTokenID)
	refreshKey := fmt.Sprintf("refresh_token:%s:%s", userID.String(), refreshTokenID)

	if err := uc.redisClient.Set(ctx, accessKey, "valid", uc.jwtService.GetAccessExpiry()).Err(); err != nil {
		uc.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}
	if err := uc.redisClient.Set(ctx, refreshKey, "valid", uc.jwtService.GetRefreshExpiry()).Err(); err != nil {
		uc.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(uc.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}
