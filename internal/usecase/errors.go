package usecase

import "errors"

// Business errors surfaced to the delivery layer. Handlers map each of
// these to one HTTP response; anything else is an internal error.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrNIKTaken           = errors.New("nik is already registered")
	ErrLicenseTaken       = errors.New("license number is already registered")
	ErrUserInactive       = errors.New("account is deactivated")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidOldPassword = errors.New("old password is incorrect")

	ErrDoctorNotFound = errors.New("doctor not found")
	ErrDoctorInactive = errors.New("doctor is not accepting appointments")

	ErrSlotUnavailable     = errors.New("requested slot is not bookable")
	ErrPatientSlotConflict = errors.New("patient already has an appointment at this time")
	ErrDoctorSlotConflict  = errors.New("doctor is already booked at this time")

	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrAppointmentNotOwned   = errors.New("appointment does not belong to this user")
	ErrAppointmentNotPending = errors.New("appointment is no longer pending")
	ErrCancelTooLate         = errors.New("appointment can no longer be cancelled")
	ErrNoConsultationReport  = errors.New("appointment has no consultation report")

	ErrWindowNotFound = errors.New("availability window not found")
	ErrWindowOverlap  = errors.New("window overlaps an existing window on this weekday")

	ErrPatientNotFound = errors.New("patient profile not found")
)
