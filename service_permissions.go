package custodykit

import (
	"context"
	"time"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// PERMISSION LEDGER
// ============================================================================

// GrantAccess records the caller's consent for a hospital to handle their
// records. The caller must be an active patient and the system gate open.
// expiry is either NoExpiry or an instant strictly after now. A later grant
// for the same hospital unconditionally replaces the prior one; there is no
// merging or stacking of grants.
//
// Example:
//
//	// one-hour grant
//	err := service.GrantAccess(ctx, hospitalID, clock.Now()+3600)
func (s *Service) GrantAccess(ctx context.Context, hospitalID string, expiry int64) error {
	actorID := GetActorID(ctx)
	if actorID == "" {
		return NewError(ErrNoActorID, "actor ID required to grant access")
	}

	return s.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		if _, err := tx.requireSystemActive(ctx); err != nil {
			return err
		}

		patient, err := tx.Profile(ctx, actorID)
		if err != nil {
			return err
		}
		caller := NewChecker(patient, "", tx.policy)
		if !caller.IsPatientCaller() {
			return NewError(ErrUnauthorized, "caller is not an active patient").
				WithActor(actorID)
		}

		hospital, err := tx.Profile(ctx, hospitalID)
		if err != nil {
			return err
		}
		if hospital.Role != RoleHospital {
			return NewError(ErrInvalidHospital, "grantee is not a registered hospital").
				WithActor(actorID).
				WithHospital(hospitalID)
		}

		now := tx.now()
		if expiry != NoExpiry && expiry <= now {
			return NewError(ErrInvalidExpiry, "expiry must be in the future").
				WithActor(actorID).
				WithHospital(hospitalID)
		}

		permission := &AccessPermission{
			PatientID:  actorID,
			HospitalID: hospitalID,
			GrantedAt:  now,
			ExpiresAt:  expiry,
			Active:     true,
			UpdatedAt:  time.Now(),
		}

		result, err := tx.db.NewInsert().
			Model(permission).
			On("CONFLICT (patient_id, hospital_id) DO UPDATE").
			Set("granted_at = EXCLUDED.granted_at").
			Set("expires_at = EXCLUDED.expires_at").
			Set("active = EXCLUDED.active").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err = dbkit.WithErr(result, err, "GrantAccess").Err(); err != nil {
			return NewError(ErrDatabaseError, "failed to store access grant").
				WithPatient(actorID).
				WithHospital(hospitalID)
		}

		event := tx.newEvent(ctx, EventAccessGranted)
		event.PatientID = actorID
		event.HospitalID = hospitalID
		_ = tx.logEvent(ctx, event) // Log error but don't fail the grant

		return nil
	})
}

// RevokeAccess soft-deletes the caller's grant for a hospital: the entry
// stays in the ledger with active=false for audit. Revoking a grant that was
// never made records an inactive entry, which is equivalent to a no-op.
// Revocation works even while the system gate is closed.
func (s *Service) RevokeAccess(ctx context.Context, hospitalID string) error {
	actorID := GetActorID(ctx)
	if actorID == "" {
		return NewError(ErrNoActorID, "actor ID required to revoke access")
	}

	return s.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		patient, err := tx.Profile(ctx, actorID)
		if err != nil {
			return err
		}
		caller := NewChecker(patient, "", tx.policy)
		if !caller.IsPatientCaller() {
			return NewError(ErrUnauthorized, "caller is not an active patient").
				WithActor(actorID)
		}

		permission := &AccessPermission{
			PatientID:  actorID,
			HospitalID: hospitalID,
			GrantedAt:  tx.now(),
			ExpiresAt:  NoExpiry,
			Active:     false,
			UpdatedAt:  time.Now(),
		}

		result, err := tx.db.NewInsert().
			Model(permission).
			On("CONFLICT (patient_id, hospital_id) DO UPDATE").
			Set("active = FALSE").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err = dbkit.WithErr(result, err, "RevokeAccess").Err(); err != nil {
			return NewError(ErrDatabaseError, "failed to revoke access grant").
				WithPatient(actorID).
				WithHospital(hospitalID)
		}

		event := tx.newEvent(ctx, EventAccessRevoked)
		event.PatientID = actorID
		event.HospitalID = hospitalID
		_ = tx.logEvent(ctx, event) // Log error but don't fail the revocation

		return nil
	})
}

// HasAccess reports whether the hospital currently holds a live grant from
// the patient. Pure read: no entry or an inactive entry is false; a set
// expiry that has passed is false, with access lapsing exactly at the
// boundary instant. The predicate is re-evaluated on every dependent call
// and never cached, so expiry takes effect the moment the boundary is
// crossed, without any pruning pass.
func (s *Service) HasAccess(ctx context.Context, patientID, hospitalID string) (bool, error) {
	permission, err := s.getPermission(ctx, patientID, hospitalID)
	if err != nil {
		return false, err
	}
	return permission.Live(s.now()), nil
}

// Permission returns the raw ledger entry for a (patient, hospital) pair,
// or nil when none was ever recorded. Intended for audit surfaces; access
// decisions go through HasAccess.
func (s *Service) Permission(ctx context.Context, patientID, hospitalID string) (*AccessPermission, error) {
	return s.getPermission(ctx, patientID, hospitalID)
}

func (s *Service) getPermission(ctx context.Context, patientID, hospitalID string) (*AccessPermission, error) {
	var permission AccessPermission
	err := dbkit.WithErr1(
		s.db.NewSelect().
			Model(&permission).
			Where("patient_id = ? AND hospital_id = ?", patientID, hospitalID).
			Scan(ctx),
		"GetPermission").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &permission, nil
}
