package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/delivery/http/middleware"
	"clinic-appointment-service/internal/domain/schedule"
	"clinic-appointment-service/internal/usecase"
	"clinic-appointment-service/pkg/response"
	"clinic-appointment-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AvailabilityHandler struct {
	availabilityUseCase usecase.AvailabilityUseCase
	validator           *validator.CustomValidator
}

func NewAvailabilityHandler(availabilityUseCase usecase.AvailabilityUseCase, validator *validator.CustomValidator) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUseCase: availabilityUseCase,
		validator:           validator,
	}
}

// GetAvailableSlots resolves the free slots of a doctor on a date, e.g.
// GET /doctors/{id}/slots?date=2026-09-07
func (h *AvailabilityHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	date := r.URL.Query().Get("date")
	slots, err := h.availabilityUseCase.GetAvailableSlots(r.Context(), doctorID, date)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case schedule.ErrInvalidDate:
			response.BadRequest(w, "Invalid date, use YYYY-MM-DD")
		default:
			response.InternalServerError(w, "Failed to resolve available slots")
		}
		return
	}

	response.Success(w, http.StatusOK, "Available slots retrieved successfully", slots)
}

func (h *AvailabilityHandler) CreateWindow(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.CreateWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	window, err := h.availabilityUseCase.CreateWindow(r.Context(), doctorID, &req)
	if err != nil {
		h.writeWindowError(w, err, "Failed to create window")
		return
	}

	response.Success(w, http.StatusCreated, "Window created successfully", window)
}

func (h *AvailabilityHandler) ListMyWindows(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	windows, err := h.availabilityUseCase.ListWindows(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to list windows")
		return
	}

	response.Success(w, http.StatusOK, "Windows retrieved successfully", windows)
}

func (h *AvailabilityHandler) UpdateWindow(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	windowID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid window ID")
		return
	}

	var req dto.UpdateWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	window, err := h.availabilityUseCase.UpdateWindow(r.Context(), doctorID, windowID, &req)
	if err != nil {
		h.writeWindowError(w, err, "Failed to update window")
		return
	}

	response.Success(w, http.StatusOK, "Window updated successfully", window)
}

func (h *AvailabilityHandler) DeleteWindow(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	windowID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid window ID")
		return
	}

	if err := h.availabilityUseCase.DeleteWindow(r.Context(), doctorID, windowID); err != nil {
		h.writeWindowError(w, err, "Failed to delete window")
		return
	}

	response.Success(w, http.StatusOK, "Window deleted successfully", nil)
}

func (h *AvailabilityHandler) writeWindowError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrWindowNotFound:
		response.NotFound(w, "Window not found")
	case usecase.ErrWindowOverlap:
		response.Conflict(w, "Window overlaps an existing window on this weekday")
	case schedule.ErrInvalidClock:
		response.BadRequest(w, "Invalid time, use HH:MM")
	case schedule.ErrWindowOrder:
		response.BadRequest(w, "start_time must be before end_time")
	case schedule.ErrWindowOffGrid:
		response.BadRequest(w, "Window duration must be a whole multiple of the slot length")
	default:
		response.InternalServerError(w, fallback)
	}
}
