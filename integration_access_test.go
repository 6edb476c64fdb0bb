package custodykit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIntegrationGrantAccess tests the permission ledger
func TestIntegrationGrantAccess(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}

	ctx := context.Background()
	clock := newSettableClock(1_000_000)
	service, err := SetupTestDatabase(ctx, clock)
	require.NoError(t, err)
	resetTables(ctx, t, service, "root")

	hospitalID, doctorID, patientID := registerCareTrio(ctx, t, service)
	patientCtx := WithActorID(ctx, patientID)

	t.Run("Only active patients grant", func(t *testing.T) {
		err := service.GrantAccess(WithActorID(ctx, doctorID), hospitalID, NoExpiry)
		assert.True(t, IsUnauthorized(err))

		err = service.GrantAccess(WithActorID(ctx, hospitalID), hospitalID, NoExpiry)
		assert.True(t, IsUnauthorized(err))

		err = service.GrantAccess(ctx, hospitalID, NoExpiry)
		assert.ErrorIs(t, err, ErrNoActorID)
	})

	t.Run("Grantee must be a hospital", func(t *testing.T) {
		err := service.GrantAccess(patientCtx, doctorID, NoExpiry)
		assert.ErrorIs(t, err, ErrInvalidHospital)

		err = service.GrantAccess(patientCtx, uniqueID("ghost"), NoExpiry)
		assert.ErrorIs(t, err, ErrInvalidHospital)
	})

	t.Run("Expiry must be in the future", func(t *testing.T) {
		err := service.GrantAccess(patientCtx, hospitalID, clock.Now()-1)
		assert.ErrorIs(t, err, ErrInvalidExpiry)

		// The current instant is not in the future.
		err = service.GrantAccess(patientCtx, hospitalID, clock.Now())
		assert.ErrorIs(t, err, ErrInvalidExpiry)
	})

	t.Run("Open-ended grant", func(t *testing.T) {
		require.NoError(t, service.GrantAccess(patientCtx, hospitalID, NoExpiry))

		has, err := service.HasAccess(ctx, patientID, hospitalID)
		require.NoError(t, err)
		assert.True(t, has)

		permission, err := service.Permission(ctx, patientID, hospitalID)
		require.NoError(t, err)
		require.NotNil(t, permission)
		assert.Equal(t, clock.Now(), permission.GrantedAt)
		assert.Equal(t, NoExpiry, permission.ExpiresAt)
		assert.True(t, permission.Active)
	})

	t.Run("No entry means no access", func(t *testing.T) {
		otherHospital := uniqueID("hosp")
		require.NoError(t, service.Register(ctx, otherHospital, RoleHospital, "Other Hospital", ""))

		has, err := service.HasAccess(ctx, patientID, otherHospital)
		require.NoError(t, err)
		assert.False(t, has)

		permission, err := service.Permission(ctx, patientID, otherHospital)
		require.NoError(t, err)
		assert.Nil(t, permission)
	})
}

// TestIntegrationAccessExpiry tests lazy expiry at the boundary instant
func TestIntegrationAccessExpiry(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}

	ctx := context.Background()
	clock := newSettableClock(1_000_000)
	service, err := SetupTestDatabase(ctx, clock)
	require.NoError(t, err)
	resetTables(ctx, t, service, "root")

	hospitalID, _, patientID := registerCareTrio(ctx, t, service)
	patientCtx := WithActorID(ctx, patientID)

	expiry := clock.Now() + 3600
	require.NoError(t, service.GrantAccess(patientCtx, hospitalID, expiry))

	t.Run("Live before the boundary", func(t *testing.T) {
		clock.Set(expiry - 1)
		has, err := service.HasAccess(ctx, patientID, hospitalID)
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("Lapses exactly at the boundary", func(t *testing.T) {
		clock.Set(expiry)
		has, err := service.HasAccess(ctx, patientID, hospitalID)
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("Stays lapsed after the boundary", func(t *testing.T) {
		clock.Set(expiry + 1000)
		has, err := service.HasAccess(ctx, patientID, hospitalID)
		require.NoError(t, err)
		assert.False(t, has)

		// The ledger entry is untouched: expiry is evaluated, never pruned.
		permission, err := service.Permission(ctx, patientID, hospitalID)
		require.NoError(t, err)
		require.NotNil(t, permission)
		assert.True(t, permission.Active)
		assert.Equal(t, expiry, permission.ExpiresAt)
	})

	t.Run("A new grant replaces the lapsed one", func(t *testing.T) {
		require.NoError(t, service.GrantAccess(patientCtx, hospitalID, NoExpiry))

		has, err := service.HasAccess(ctx, patientID, hospitalID)
		require.NoError(t, err)
		assert.True(t, has)

		permission, err := service.Permission(ctx, patientID, hospitalID)
		require.NoError(t, err)
		assert.Equal(t, NoExpiry, permission.ExpiresAt)
		assert.Equal(t, clock.Now(), permission.GrantedAt)
	})
}

// TestIntegrationRevokeAccess tests soft-delete revocation
func TestIntegrationRevokeAccess(t *testing.T) {
	if !RequireDatabase(t) {
		return
	}

	ctx := context.Background()
	clock := newSettableClock(1_000_000)
	service, err := SetupTestDatabase(ctx, clock)
	require.NoError(t, err)
	resetTables(ctx, t, service, "root")

	hospitalID, _, patientID := registerCareTrio(ctx, t, service)
	patientCtx := WithActorID(ctx, patientID)

	t.Run("Revoke flips the entry inactive", func(t *testing.T) {
		require.NoError(t, service.GrantAccess(patientCtx, hospitalID, NoExpiry))
		require.NoError(t, service.RevokeAccess(patientCtx, hospitalID))

		has, err := service.HasAccess(ctx, patientID, hospitalID)
		require.NoError(t, err)
		assert.False(t, has)

		// Soft delete: the entry survives for audit.
		permission, err := service.Permission(ctx, patientID, hospitalID)
		require.NoError(t, err)
		require.NotNil(t, permission)
		assert.False(t, permission.Active)
	})

	t.Run("Revoking an absent grant is a no-op", func(t *testing.T) {
		otherHospital := uniqueID("hosp")
		require.NoError(t, service.Register(ctx, otherHospital, RoleHospital, "Other Hospital", ""))

		assert.NoError(t, service.RevokeAccess(patientCtx, otherHospital))

		has, err := service.HasAccess(ctx, patientID, otherHospital)
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("Re-grant after revoke restores access", func(t *testing.T) {
		require.NoError(t, service.GrantAccess(patientCtx, hospitalID, NoExpiry))

		has, err := service.HasAccess(ctx, patientID, hospitalID)
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("Only patients revoke", func(t *testing.T) {
		err := service.RevokeAccess(WithActorID(ctx, hospitalID), hospitalID)
		assert.True(t, IsUnauthorized(err))

		err = service.RevokeAccess(ctx, hospitalID)
		assert.ErrorIs(t, err, ErrNoActorID)
	})
}
