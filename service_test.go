package custodykit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewService tests service construction.
func TestNewService(t *testing.T) {
	policy := DefaultPolicy()
	service := NewService(policy, nil)

	assert.NotNil(t, service)
	assert.Same(t, policy, service.Policy())
	assert.NotNil(t, service.txMonitor)
	assert.NotNil(t, service.clock)
	assert.Nil(t, service.sink)
}

// TestNewServiceOptions tests the functional options.
func TestNewServiceOptions(t *testing.T) {
	clock := FixedClock(1_000_000)
	sink := EventSinkFunc(func(ctx context.Context, event Event) {})

	service := NewService(DefaultPolicy(), nil, WithClock(clock), WithEventSink(sink))

	assert.Equal(t, int64(1_000_000), service.now())
	assert.NotNil(t, service.sink)
}

// TestServiceWithDB tests transaction-scoping copies.
func TestServiceWithDB(t *testing.T) {
	clock := FixedClock(42)
	service := NewService(DefaultPolicy(), nil, WithClock(clock))

	scoped := service.withDB(nil)
	assert.NotSame(t, service, scoped)
	assert.Same(t, service.policy, scoped.policy)
	assert.Same(t, service.txMonitor, scoped.txMonitor)
	assert.Equal(t, int64(42), scoped.now())
}

// TestServiceGetEventLogNilDB verifies panic behavior when db is nil.
func TestServiceGetEventLogNilDB(t *testing.T) {
	service := NewService(DefaultPolicy(), nil)
	ctx := context.Background()

	assert.Panics(t, func() {
		_, _ = service.GetEventLog(ctx, NewEventLogFilter())
	})
}

// TestServiceGetEventLogFiltersNilDB checks filters still panic when db is nil.
func TestServiceGetEventLogFiltersNilDB(t *testing.T) {
	service := NewService(DefaultPolicy(), nil)
	ctx := context.Background()

	filter := NewEventLogFilter().
		WithKind(EventAccessGranted).
		WithActor("pat1").
		WithPatient("pat1").
		WithHospital("hosp1").
		WithRecord(7).
		WithLimit(10).
		WithOffset(5)

	assert.Panics(t, func() {
		_, _ = service.GetEventLog(ctx, filter)
	})
}
