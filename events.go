package custodykit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// EventSink receives every emitted event, after it has been written to the
// event log table. Sinks feed external audit trails; the service never
// consumes its own events. A sink must not block for long: it runs inside
// the emitting call.
type EventSink interface {
	Emit(ctx context.Context, event Event)
}

// EventSinkFunc adapts a plain function to the EventSink interface.
type EventSinkFunc func(ctx context.Context, event Event)

// Emit implements EventSink.
func (f EventSinkFunc) Emit(ctx context.Context, event Event) {
	f(ctx, event)
}

// newEvent builds an event of the given kind carrying the caller identity
// and request metadata from context.
func (s *Service) newEvent(ctx context.Context, kind EventKind) Event {
	audit := GetAuditContext(ctx)
	return Event{
		Kind:      kind,
		ActorID:   audit.ActorID,
		IPAddress: audit.IPAddress,
		UserAgent: audit.UserAgent,
		RequestID: audit.RequestID,
	}
}

// logEvent writes the event to the event log table and notifies the sink.
// Emission failures never fail the mutation that produced the event.
func (s *Service) logEvent(ctx context.Context, event Event) error {
	_, err := s.db.NewInsert().Model(event.ToModel()).Exec(ctx)
	if s.sink != nil {
		s.sink.Emit(ctx, event)
	}
	return dbkit.WithErr1(err, "LogEvent").Err()
}
