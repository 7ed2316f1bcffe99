package handler

import (
	"encoding/json"
	"net/http"

	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/delivery/http/middleware"
	"clinic-appointment-service/internal/domain/schedule"
	"clinic-appointment-service/internal/usecase"
	"clinic-appointment-service/pkg/response"
	"clinic-appointment-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	bookingUseCase      usecase.BookingUseCase
	cancellationUseCase usecase.CancellationUseCase
	finalizationUseCase usecase.FinalizationUseCase
	validator           *validator.CustomValidator
}

func NewAppointmentHandler(
	bookingUseCase usecase.BookingUseCase,
	cancellationUseCase usecase.CancellationUseCase,
	finalizationUseCase usecase.FinalizationUseCase,
	validator *validator.CustomValidator,
) *AppointmentHandler {
	return &AppointmentHandler{
		bookingUseCase:      bookingUseCase,
		cancellationUseCase: cancellationUseCase,
		finalizationUseCase: finalizationUseCase,
		validator:           validator,
	}
}

// Patient endpoints

func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.bookingUseCase.BookAppointment(r.Context(), patientID, &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrDoctorInactive:
			response.Conflict(w, "Doctor is not accepting appointments")
		case schedule.ErrInvalidDate:
			response.BadRequest(w, "Invalid date, use YYYY-MM-DD")
		case schedule.ErrInvalidClock:
			response.BadRequest(w, "Invalid start time, use HH:MM")
		case usecase.ErrSlotUnavailable:
			response.UnprocessableEntity(w, "Requested slot is not bookable")
		case usecase.ErrPatientSlotConflict:
			response.Conflict(w, "You already have an appointment at this time")
		case usecase.ErrDoctorSlotConflict:
			response.Conflict(w, "Doctor is already booked at this time")
		default:
			response.InternalServerError(w, "Failed to book appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

func (h *AppointmentHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	appointments, err := h.bookingUseCase.GetMyAppointments(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) CancelMyAppointment(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	appointment, err := h.cancellationUseCase.CancelAsPatient(r.Context(), patientID, appointmentID)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrAppointmentNotOwned:
			response.Forbidden(w, "Appointment does not belong to you")
		case usecase.ErrAppointmentNotPending:
			response.Conflict(w, "Appointment is no longer pending")
		case usecase.ErrCancelTooLate:
			response.UnprocessableEntity(w, "Appointment starts too soon to be cancelled")
		default:
			response.InternalServerError(w, "Failed to cancel appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", appointment)
}

// Doctor endpoints

func (h *AppointmentHandler) GetDaySchedule(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	date := r.URL.Query().Get("date")
	appointments, err := h.bookingUseCase.GetDoctorAppointments(r.Context(), doctorID, date)
	if err != nil {
		switch err {
		case schedule.ErrInvalidDate:
			response.BadRequest(w, "Invalid date, use YYYY-MM-DD")
		default:
			response.InternalServerError(w, "Failed to get appointments")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	appointment, err := h.cancellationUseCase.CancelAsDoctor(r.Context(), doctorID, appointmentID)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrAppointmentNotOwned:
			response.Forbidden(w, "Appointment is not on your schedule")
		case usecase.ErrAppointmentNotPending:
			response.Conflict(w, "Appointment is no longer pending")
		default:
			response.InternalServerError(w, "Failed to cancel appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", appointment)
}

func (h *AppointmentHandler) FinalizeAppointment(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	var req dto.FinalizeAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.finalizationUseCase.FinalizeAppointment(r.Context(), doctorID, appointmentID, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrAppointmentNotOwned:
			response.Forbidden(w, "Appointment is not on your schedule")
		case usecase.ErrAppointmentNotPending:
			response.Conflict(w, "Appointment is no longer pending")
		default:
			response.InternalServerError(w, "Failed to finalize appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment finalized successfully", appointment)
}

func (h *AppointmentHandler) AmendReport(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	var req dto.AmendReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.finalizationUseCase.AmendReport(r.Context(), doctorID, appointmentID, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrAppointmentNotOwned:
			response.Forbidden(w, "Appointment is not on your schedule")
		case usecase.ErrNoConsultationReport:
			response.Conflict(w, "Appointment has no consultation report to amend")
		default:
			response.InternalServerError(w, "Failed to amend report")
		}
		return
	}

	response.Success(w, http.StatusOK, "Report amended successfully", appointment)
}
