package custodykit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTransactionRequiresDatabase tests the unsupported-handle error
func TestTransactionRequiresDatabase(t *testing.T) {
	service := NewService(DefaultPolicy(), nil)
	ctx := context.Background()

	err := service.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		return nil
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "transaction support requires")

	err = service.ReadOnlyTransaction(ctx, func(ctx context.Context, tx *Service) error {
		return nil
	})
	assert.Error(t, err)
}

// TestIntegrationTransactionCommit tests that committed work is visible
func TestIntegrationTransactionCommit(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := SetupTestDatabase(ctx, nil)
	require.NoError(t, err)
	resetTables(ctx, t, service, "root")

	patientID := uniqueID("pat")
	hospitalID := uniqueID("hosp")

	err = service.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		if err := tx.Register(ctx, hospitalID, RoleHospital, "General Hospital", ""); err != nil {
			return err
		}
		return tx.Register(ctx, patientID, RolePatient, "Pat Doe", "")
	})
	require.NoError(t, err)

	for _, id := range []string{patientID, hospitalID} {
		registered, err := service.IsRegistered(ctx, id)
		require.NoError(t, err)
		assert.True(t, registered)
	}
}

// TestIntegrationTransactionRollback tests that a failing fn leaves no trace
func TestIntegrationTransactionRollback(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := SetupTestDatabase(ctx, nil)
	require.NoError(t, err)
	resetTables(ctx, t, service, "root")

	patientID := uniqueID("pat")
	boom := errors.New("boom")

	err = service.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		if err := tx.Register(ctx, patientID, RolePatient, "Pat Doe", ""); err != nil {
			return err
		}

		// Registered inside the transaction...
		registered, err := tx.IsRegistered(ctx, patientID)
		if err != nil {
			return err
		}
		assert.True(t, registered)

		return boom
	})
	assert.ErrorIs(t, err, boom)

	// ...but rolled back outside of it.
	registered, err := service.IsRegistered(ctx, patientID)
	require.NoError(t, err)
	assert.False(t, registered)
}

// TestIntegrationNestedTransaction tests savepoint nesting
func TestIntegrationNestedTransaction(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := SetupTestDatabase(ctx, nil)
	require.NoError(t, err)
	resetTables(ctx, t, service, "root")

	keptID := uniqueID("pat")
	droppedID := uniqueID("pat")
	boom := errors.New("inner boom")

	err = service.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		if err := tx.Register(ctx, keptID, RolePatient, "Kept Pat", ""); err != nil {
			return err
		}

		// Inner failure rolls back to the savepoint only.
		innerErr := tx.Transaction(ctx, func(ctx context.Context, inner *Service) error {
			if err := inner.Register(ctx, droppedID, RolePatient, "Dropped Pat", ""); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, innerErr, boom)

		return nil
	})
	require.NoError(t, err)

	kept, err := service.IsRegistered(ctx, keptID)
	require.NoError(t, err)
	assert.True(t, kept)

	dropped, err := service.IsRegistered(ctx, droppedID)
	require.NoError(t, err)
	assert.False(t, dropped)
}

// TestIntegrationReadOnlyTransaction tests a consistent multi-query view
func TestIntegrationReadOnlyTransaction(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := SetupTestDatabase(ctx, nil)
	require.NoError(t, err)
	resetTables(ctx, t, service, "root")

	hospitalID, doctorID, patientID := registerCareTrio(ctx, t, service)
	require.NoError(t, service.GrantAccess(WithActorID(ctx, patientID), hospitalID, NoExpiry))

	err = service.ReadOnlyTransaction(ctx, func(ctx context.Context, tx *Service) error {
		has, err := tx.HasAccess(ctx, patientID, hospitalID)
		if err != nil {
			return err
		}
		assert.True(t, has)

		verified, err := tx.IsVerified(ctx, doctorID)
		if err != nil {
			return err
		}
		assert.True(t, verified)

		return nil
	})
	require.NoError(t, err)
}

// TestIntegrationTransactionMetrics tests the transaction monitor
func TestIntegrationTransactionMetrics(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}

	ctx := context.Background()
	service, err := SetupTestDatabase(ctx, nil)
	require.NoError(t, err)
	resetTables(ctx, t, service, "root")

	service.ResetTransactionMetrics()

	require.NoError(t, service.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		return nil
	}))

	boom := errors.New("boom")
	err = service.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)

	metrics := service.GetTransactionMetrics()
	assert.Equal(t, int64(2), metrics.TotalTransactions)
	assert.Equal(t, int64(1), metrics.SuccessfulTransactions)
	assert.Equal(t, int64(1), metrics.FailedTransactions)
	assert.GreaterOrEqual(t, metrics.AverageDuration, time.Duration(0))

	service.ResetTransactionMetrics()
	metrics = service.GetTransactionMetrics()
	assert.Equal(t, int64(0), metrics.TotalTransactions)
}
