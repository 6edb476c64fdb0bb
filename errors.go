package custodykit

import (
	"errors"
	"fmt"
)

// Sentinel errors for CustodyKit operations.
var (
	// ErrUnauthorized is returned when a role, status or custody predicate fails.
	ErrUnauthorized = errors.New("custodykit: unauthorized")

	// ErrAlreadyRegistered is returned when an identity registers twice.
	ErrAlreadyRegistered = errors.New("custodykit: already registered")

	// ErrInvalidCustodian is returned when a doctor's custodian is not a
	// registered hospital administrator.
	ErrInvalidCustodian = errors.New("custodykit: invalid custodian")

	// ErrInvalidHospital is returned when a grant targets an identity that
	// does not hold the hospital role.
	ErrInvalidHospital = errors.New("custodykit: invalid hospital")

	// ErrInvalidExpiry is returned when a non-sentinel expiry is not in the future.
	ErrInvalidExpiry = errors.New("custodykit: invalid expiry")

	// ErrNotFound is returned when a record identifier was never allocated.
	ErrNotFound = errors.New("custodykit: record not found")

	// ErrSystemInactive is returned when the system gate is closed.
	ErrSystemInactive = errors.New("custodykit: system inactive")

	// ErrNotAPatient is returned when the target identity does not hold the
	// patient role.
	ErrNotAPatient = errors.New("custodykit: not a patient")

	// ErrNotAMember is returned when a doctor does not belong to the calling
	// hospital.
	ErrNotAMember = errors.New("custodykit: not a member of this hospital")

	// ErrNoAccess is returned when the doctor's hospital holds no live
	// permission grant from the patient.
	ErrNoAccess = errors.New("custodykit: no hospital access")

	// ErrInvalidRole is returned when a registration names an unknown role.
	ErrInvalidRole = errors.New("custodykit: invalid role")

	// ErrInvalidRecordType is returned when a record carries an unknown type tag.
	ErrInvalidRecordType = errors.New("custodykit: invalid record type")

	// ErrNoActorID is returned when the caller identity is not found in context.
	ErrNoActorID = errors.New("custodykit: no actor ID in context")

	// ErrNotBootstrapped is returned when the system configuration row has
	// not been seeded yet.
	ErrNotBootstrapped = errors.New("custodykit: system not bootstrapped")

	// ErrDatabaseError is returned when a database operation fails.
	ErrDatabaseError = errors.New("custodykit: database error")
)

// Error wraps a sentinel error with additional context.
type Error struct {
	Err        error  // Underlying sentinel error
	Message    string // Additional context
	ActorID    string // Caller that triggered the error (if applicable)
	PatientID  string // Patient involved (if applicable)
	DoctorID   string // Doctor involved (if applicable)
	HospitalID string // Hospital involved (if applicable)
	RecordID   int64  // Record involved (if applicable)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithActor adds the caller identity to the error.
func (e *Error) WithActor(actorID string) *Error {
	e.ActorID = actorID
	return e
}

// WithPatient adds patient information to the error.
func (e *Error) WithPatient(patientID string) *Error {
	e.PatientID = patientID
	return e
}

// WithDoctor adds doctor information to the error.
func (e *Error) WithDoctor(doctorID string) *Error {
	e.DoctorID = doctorID
	return e
}

// WithHospital adds hospital information to the error.
func (e *Error) WithHospital(hospitalID string) *Error {
	e.HospitalID = hospitalID
	return e
}

// WithRecord adds the record identifier to the error.
func (e *Error) WithRecord(recordID int64) *Error {
	e.RecordID = recordID
	return e
}

// IsUnauthorized checks if an error is an authorization error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsAlreadyRegistered checks if an error is a duplicate registration.
func IsAlreadyRegistered(err error) bool {
	return errors.Is(err, ErrAlreadyRegistered)
}

// IsSystemInactive checks if an error is due to the closed system gate.
func IsSystemInactive(err error) bool {
	return errors.Is(err, ErrSystemInactive)
}

// IsNotFound checks if an error is due to a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNoAccess checks if an error is due to a missing or lapsed hospital grant.
func IsNoAccess(err error) bool {
	return errors.Is(err, ErrNoAccess)
}
