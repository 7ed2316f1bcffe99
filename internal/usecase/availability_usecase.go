package usecase

import (
	"context"
	"strconv"
	"time"

	"clinic-appointment-service/internal/converter"
	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/domain/repository"
	"clinic-appointment-service/internal/domain/schedule"
	"clinic-appointment-service/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AvailabilityUseCase interface {
	GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.SlotListResponse, error)

	CreateWindow(ctx context.Context, doctorID uuid.UUID, req *dto.CreateWindowRequest) (*dto.WindowResponse, error)
	ListWindows(ctx context.Context, doctorID uuid.UUID) (*dto.WindowListResponse, error)
	UpdateWindow(ctx context.Context, doctorID uuid.UUID, windowID int, req *dto.UpdateWindowRequest) (*dto.WindowResponse, error)
	DeleteWindow(ctx context.Context, doctorID uuid.UUID, windowID int) error
}

type availabilityUseCase struct {
	log             *logrus.Logger
	granularity     time.Duration
	windowRepo      repository.AvailabilityWindowRepository
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorProfileRepository
	auditService    service.AuditService
	now             func() time.Time
}

func NewAvailabilityUseCase(
	log *logrus.Logger,
	granularity time.Duration,
	windowRepo repository.AvailabilityWindowRepository,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
) AvailabilityUseCase {
	return &availabilityUseCase{
		log:             log,
		granularity:     granularity,
		windowRepo:      windowRepo,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		auditService:    auditService,
		now:             time.Now,
	}
}

// GetAvailableSlots resolves the bookable slot starts for a doctor on a
// date: the weekly windows for that weekday expanded into the grid, minus
// slots already started and slots held by an active appointment.
func (uc *availabilityUseCase) GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.SlotListResponse, error) {
	// 1. Doctor must exist; an inactive doctor simply has nothing bookable
	doctor, err := uc.doctorRepo.FindByUserID(ctx, doctorID)
	if err != nil {
		uc.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	day, err := schedule.ParseDate(date)
	if err != nil {
		return nil, err
	}

	resp := &dto.SlotListResponse{
		DoctorID: doctorID,
		Date:     date,
		Slots:    make([]string, 0),
	}
	if !doctor.Active() {
		return resp, nil
	}

	// 2. Expand every window for that weekday into grid slot starts
	windows, err := uc.windowRepo.FindByDoctorAndWeekday(ctx, doctorID, day.Weekday())
	if err != nil {
		uc.log.Warnf("Failed to list windows for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	var slots []string
	for _, w := range windows {
		starts, err := schedule.SlotStarts(w.StartTime, w.EndTime, uc.granularity)
		if err != nil {
			uc.log.Warnf("Skipping malformed window %d for doctor %s: %+v", w.ID, doctorID, err)
			continue
		}
		slots = append(slots, starts...)
	}
	if len(slots) == 0 {
		return resp, nil
	}

	// 3. Drop slots that have already started when resolving for today
	now := uc.now().UTC()
	if schedule.SameDay(day, now) {
		upcoming := slots[:0]
		for _, s := range slots {
			past, err := schedule.InPast(day, s, now)
			if err != nil {
				return nil, err
			}
			if !past {
				upcoming = append(upcoming, s)
			}
		}
		slots = upcoming
	}

	// 4. Drop slots held by a pending or finalized appointment
	taken, err := uc.appointmentRepo.ListActiveTimes(ctx, doctorID, day)
	if err != nil {
		uc.log.Warnf("Failed to list booked times for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	takenSet := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		takenSet[t] = struct{}{}
	}

	free := slots[:0]
	for _, s := range slots {
		if _, ok := takenSet[s]; !ok {
			free = append(free, s)
		}
	}

	resp.Slots = append(resp.Slots, schedule.SortDedup(free)...)
	return resp, nil
}

func (uc *availabilityUseCase) CreateWindow(ctx context.Context, doctorID uuid.UUID, req *dto.CreateWindowRequest) (*dto.WindowResponse, error) {
	if err := schedule.ValidateWindow(req.StartTime, req.EndTime, uc.granularity); err != nil {
		return nil, err
	}

	weekday := time.Weekday(*req.Weekday)
	existing, err := uc.windowRepo.FindByDoctorAndWeekday(ctx, doctorID, weekday)
	if err != nil {
		uc.log.Warnf("Failed to list windows for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	for _, w := range existing {
		if schedule.Overlaps(req.StartTime, req.EndTime, w.StartTime, w.EndTime) {
			return nil, ErrWindowOverlap
		}
	}

	window := &entity.AvailabilityWindow{
		DoctorID:  doctorID,
		Weekday:   weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := uc.windowRepo.Create(ctx, window); err != nil {
		uc.log.Warnf("Failed to create window for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	if err := uc.auditService.LogCreate(ctx, &doctorID, entity.AuditActionWindowCreate, "availability_window", strconv.Itoa(window.ID), window); err != nil {
		uc.log.Warnf("Failed to audit window creation: %+v", err)
	}

	return converter.WindowToResponse(window), nil
}

func (uc *availabilityUseCase) ListWindows(ctx context.Context, doctorID uuid.UUID) (*dto.WindowListResponse, error) {
	windows, err := uc.windowRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		uc.log.Warnf("Failed to list windows for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	return converter.WindowsToListResponse(windows), nil
}

func (uc *availabilityUseCase) UpdateWindow(ctx context.Context, doctorID uuid.UUID, windowID int, req *dto.UpdateWindowRequest) (*dto.WindowResponse, error) {
	window, err := uc.windowRepo.FindByID(ctx, windowID)
	if err != nil {
		uc.log.Warnf("Failed to find window %d: %+v", windowID, err)
		return nil, err
	}
	if window == nil || window.DoctorID != doctorID {
		return nil, ErrWindowNotFound
	}

	old := *window
	if req.Weekday != nil {
		window.Weekday = time.Weekday(*req.Weekday)
	}
	if req.StartTime != "" {
		window.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		window.EndTime = req.EndTime
	}

	if err := schedule.ValidateWindow(window.StartTime, window.EndTime, uc.granularity); err != nil {
		return nil, err
	}

	siblings, err := uc.windowRepo.FindByDoctorAndWeekday(ctx, doctorID, window.Weekday)
	if err != nil {
		uc.log.Warnf("Failed to list windows for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	for _, w := range siblings {
		if w.ID == window.ID {
			continue
		}
		if schedule.Overlaps(window.StartTime, window.EndTime, w.StartTime, w.EndTime) {
			return nil, ErrWindowOverlap
		}
	}

	if err := uc.windowRepo.Update(ctx, window); err != nil {
		uc.log.Warnf("Failed to update window %d: %+v", windowID, err)
		return nil, err
	}

	if err := uc.auditService.LogUpdate(ctx, &doctorID, entity.AuditActionWindowUpdate, "availability_window", strconv.Itoa(window.ID), old, window); err != nil {
		uc.log.Warnf("Failed to audit window update: %+v", err)
	}

	return converter.WindowToResponse(window), nil
}

func (uc *availabilityUseCase) DeleteWindow(ctx context.Context, doctorID uuid.UUID, windowID int) error {
	window, err := uc.windowRepo.FindByID(ctx, windowID)
	if err != nil {
		uc.log.Warnf("Failed to find window %d: %+v", windowID, err)
		return err
	}
	if window == nil || window.DoctorID != doctorID {
		return ErrWindowNotFound
	}

	rows, err := uc.windowRepo.Delete(ctx, windowID)
	if err != nil {
		uc.log.Warnf("Failed to delete window %d: %+v", windowID, err)
		return err
	}
	if rows == 0 {
		return ErrWindowNotFound
	}

	if err := uc.auditService.LogDelete(ctx, &doctorID, entity.AuditActionWindowDelete, "availability_window", strconv.Itoa(windowID), window); err != nil {
		uc.log.Warnf("Failed to audit window deletion: %+v", err)
	}

	return nil
}
