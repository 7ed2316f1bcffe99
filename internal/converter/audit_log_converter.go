package converter

import (
	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
)

func AuditLogToResponse(l *entity.AuditLog) *dto.AuditLogResponse {
	resp := &dto.AuditLogResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		Action:    l.Action,
		Metadata:  l.Metadata,
		CreatedAt: l.CreatedAt,
	}
	if l.User != nil {
		resp.UserEmail = l.User.Email
	}
	return resp
}

func AuditLogsToListResponse(logs []entity.AuditLog) *dto.AuditLogListResponse {
	items := make([]dto.AuditLogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, *AuditLogToResponse(&logs[i]))
	}
	return &dto.AuditLogListResponse{
		Logs:  items,
		Total: len(items),
	}
}
