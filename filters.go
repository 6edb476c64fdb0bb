package custodykit

import "time"

// EventLogFilter provides options for filtering event log queries.
type EventLogFilter struct {
	// Filter by event kind
	Kind EventKind

	// Filter by the caller that triggered the event
	ActorID string

	// Filter by involved identities
	PatientID  string
	DoctorID   string
	HospitalID string

	// Filter by record identifier
	RecordID int64

	// Filter by time range
	Since time.Time
	Until time.Time

	// Pagination
	Limit  int
	Offset int
}

// NewEventLogFilter creates a new EventLogFilter with default values.
func NewEventLogFilter() EventLogFilter {
	return EventLogFilter{
		Limit: 100,
	}
}

// WithKind sets the event kind filter.
func (f EventLogFilter) WithKind(kind EventKind) EventLogFilter {
	f.Kind = kind
	return f
}

// WithActor sets the actor ID filter.
func (f EventLogFilter) WithActor(actorID string) EventLogFilter {
	f.ActorID = actorID
	return f
}

// WithPatient sets the patient filter.
func (f EventLogFilter) WithPatient(patientID string) EventLogFilter {
	f.PatientID = patientID
	return f
}

// WithDoctor sets the doctor filter.
func (f EventLogFilter) WithDoctor(doctorID string) EventLogFilter {
	f.DoctorID = doctorID
	return f
}

// WithHospital sets the hospital filter.
func (f EventLogFilter) WithHospital(hospitalID string) EventLogFilter {
	f.HospitalID = hospitalID
	return f
}

// WithRecord sets the record identifier filter.
func (f EventLogFilter) WithRecord(recordID int64) EventLogFilter {
	f.RecordID = recordID
	return f
}

// WithTimeRange sets the time range filter.
func (f EventLogFilter) WithTimeRange(since, until time.Time) EventLogFilter {
	f.Since = since
	f.Until = until
	return f
}

// WithSince sets the start time filter.
func (f EventLogFilter) WithSince(since time.Time) EventLogFilter {
	f.Since = since
	return f
}

// WithUntil sets the end time filter.
func (f EventLogFilter) WithUntil(until time.Time) EventLogFilter {
	f.Until = until
	return f
}

// WithLimit sets the limit for results.
func (f EventLogFilter) WithLimit(limit int) EventLogFilter {
	f.Limit = limit
	return f
}

// WithOffset sets the offset for pagination.
func (f EventLogFilter) WithOffset(offset int) EventLogFilter {
	f.Offset = offset
	return f
}

// WithPagination sets both limit and offset.
func (f EventLogFilter) WithPagination(limit, offset int) EventLogFilter {
	f.Limit = limit
	f.Offset = offset
	return f
}
