package custodykit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// Service is the authorization and record-custody engine. It composes the
// identity registry, hospital roster, permission ledger, record store and
// system gate over a single dbkit-backed store, and evaluates every caller
// through the Checker predicates.
//
// Error Handling:
// All database operations use dbkit's chainable error wrapping to provide
// detailed context about failed operations. Domain failures surface as the
// package sentinel errors so callers can explain a denial precisely:
//
//	_, err := service.AddRecord(ctx, patientID, data, custodykit.RecordDiagnosis)
//	if err != nil {
//	    switch {
//	    case custodykit.IsNoAccess(err):
//	        // hospital holds no live grant from this patient
//	    case custodykit.IsUnauthorized(err):
//	        // caller is not a practicing doctor
//	    case custodykit.IsSystemInactive(err):
//	        // system gate is closed
//	    }
//	}
type Service struct {
	db        dbkit.IDB
	policy    *Policy
	clock     Clock
	sink      EventSink
	txMonitor *transactionMonitor
}

// Option configures the Service.
type Option func(*Service)

// WithClock sets the clock used for grant timestamps and expiry comparisons.
// Defaults to SystemClock.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithEventSink sets an external sink notified of every emitted event, in
// addition to the event log table. Defaults to none.
func WithEventSink(sink EventSink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

// NewService creates a new CustodyKit service.
//
// Example:
//
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	service := custodykit.NewService(custodykit.DefaultPolicy(), db)
func NewService(policy *Policy, db dbkit.IDB, opts ...Option) *Service {
	s := &Service{
		db:        db,
		policy:    policy,
		clock:     SystemClock,
		txMonitor: newTransactionMonitor(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Policy returns the action policy.
func (s *Service) Policy() *Policy {
	return s.policy
}

// now returns the current instant from the injected clock.
func (s *Service) now() int64 {
	return s.clock.Now()
}

// withDB returns a copy of the service bound to a different database handle.
// Used to scope operations to an open transaction.
func (s *Service) withDB(db dbkit.IDB) *Service {
	return &Service{
		db:        db,
		policy:    s.policy,
		clock:     s.clock,
		sink:      s.sink,
		txMonitor: s.txMonitor,
	}
}

// ============================================================================
// EVENT LOG
// ============================================================================

// GetEventLog retrieves event log entries with optional filters.
func (s *Service) GetEventLog(ctx context.Context, filter EventLogFilter) ([]EventLog, error) {
	var events []EventLog
	q := s.db.NewSelect().Model(&events)
	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}
	if filter.ActorID != "" {
		q = q.Where("actor_id = ?", filter.ActorID)
	}
	if filter.PatientID != "" {
		q = q.Where("patient_id = ?", filter.PatientID)
	}
	if filter.DoctorID != "" {
		q = q.Where("doctor_id = ?", filter.DoctorID)
	}
	if filter.HospitalID != "" {
		q = q.Where("hospital_id = ?", filter.HospitalID)
	}
	if filter.RecordID != NoRecord {
		q = q.Where("record_id = ?", filter.RecordID)
	}
	if !filter.Since.IsZero() {
		q = q.Where("timestamp >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		q = q.Where("timestamp <= ?", filter.Until)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 100 // Default limit
	}
	q = q.Limit(limit)

	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	q = q.Order("timestamp DESC")
	err := dbkit.WithErr1(q.Scan(ctx), "GetEventLog").Err()
	if err != nil {
		return nil, err
	}

	return events, nil
}
