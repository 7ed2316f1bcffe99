package repository

import "errors"

// Conflict errors surfaced by AppointmentRepository.Create when one of the
// partial unique indexes rejects the insert. They are how a losing
// concurrent booker learns it lost: the constraint, not the preceding
// application-level check, is the source of truth.
var (
	ErrDoctorSlotTaken  = errors.New("doctor already has an active appointment at this slot")
	ErrPatientSlotTaken = errors.New("patient already has an active appointment at this slot")
)
