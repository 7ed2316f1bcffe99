package usecase

import (
	"context"
	"errors"

	"clinic-appointment-service/internal/converter"
	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

var ErrAuditLogNotFound = errors.New("audit log not found")

type AuditLogUseCase interface {
	GetAll(ctx context.Context) (*dto.AuditLogListResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUseCase struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditLogUseCase(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditLogUseCase {
	return &auditLogUseCase{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (uc *auditLogUseCase) GetAll(ctx context.Context) (*dto.AuditLogListResponse, error) {
	logs, err := uc.auditRepo.FindAll(ctx)
	if err != nil {
		uc.log.Warnf("Failed to list audit logs: %+v", err)
		return nil, err
	}
	return converter.AuditLogsToListResponse(logs), nil
}

func (uc *auditLogUseCase) GetByID(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	auditLog, err := uc.auditRepo.FindByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Failed to find audit log %d: %+v", id, err)
		return nil, err
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}
	return converter.AuditLogToResponse(auditLog), nil
}
