package custodykit

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// HOSPITAL ROSTER
// ============================================================================

// VetDoctor marks a registered doctor as verified and appends them to the
// calling hospital's roster. The caller must be an active hospital
// administrator and the named custodian of the doctor. Vetting runs even
// while the system gate is closed: it is an administrative path.
//
// The roster is append-only. Vetting the same doctor twice appends a second
// entry and the duplicate is preserved in roster reads; de-duplicating would
// change observable vetting history.
func (s *Service) VetDoctor(ctx context.Context, doctorID string) error {
	actorID := GetActorID(ctx)
	if actorID == "" {
		return NewError(ErrNoActorID, "actor ID required to vet a doctor")
	}

	return s.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		hospital, err := tx.Profile(ctx, actorID)
		if err != nil {
			return err
		}
		caller := NewChecker(hospital, "", tx.policy)
		if !caller.IsHospitalCaller() {
			return NewError(ErrUnauthorized, "caller is not an active hospital").
				WithActor(actorID)
		}

		doctor, err := tx.Profile(ctx, doctorID)
		if err != nil {
			return err
		}
		if doctor.Role != RoleDoctor || doctor.CustodianID != actorID {
			return NewError(ErrNotAMember, "doctor is not registered under this hospital").
				WithActor(actorID).
				WithDoctor(doctorID).
				WithHospital(actorID)
		}

		result, err := tx.db.NewUpdate().
			Model((*Identity)(nil)).
			Set("verified = TRUE").
			Where("id = ?", doctorID).
			Exec(ctx)
		if err = dbkit.WithErr(result, err, "VetDoctor").Err(); err != nil {
			return err
		}

		entry := &RosterEntry{
			HospitalID: actorID,
			DoctorID:   doctorID,
		}
		result, err = tx.db.NewInsert().Model(entry).Exec(ctx)
		return dbkit.WithErr(result, err, "AppendRoster").Err()
	})
}

// SuspendDoctor sets the doctor's suspended flag. Only the doctor's
// custodian hospital may call it. Idempotent: suspending an already
// suspended doctor is a no-op. Not gated: suspension must remain operable
// while the system is paused.
func (s *Service) SuspendDoctor(ctx context.Context, doctorID string) error {
	return s.setSuspended(ctx, doctorID, true)
}

// UnsuspendDoctor clears the doctor's suspended flag. Same authorization and
// idempotency as SuspendDoctor.
func (s *Service) UnsuspendDoctor(ctx context.Context, doctorID string) error {
	return s.setSuspended(ctx, doctorID, false)
}

func (s *Service) setSuspended(ctx context.Context, doctorID string, suspended bool) error {
	actorID := GetActorID(ctx)
	if actorID == "" {
		return NewError(ErrNoActorID, "actor ID required to change suspension")
	}

	return s.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		hospital, err := tx.Profile(ctx, actorID)
		if err != nil {
			return err
		}
		caller := NewChecker(hospital, "", tx.policy)
		if !caller.IsHospitalCaller() {
			return NewError(ErrUnauthorized, "caller is not an active hospital").
				WithActor(actorID)
		}

		doctor, err := tx.Profile(ctx, doctorID)
		if err != nil {
			return err
		}
		if doctor.Role != RoleDoctor || doctor.CustodianID != actorID {
			return NewError(ErrUnauthorized, "caller is not the doctor's custodian hospital").
				WithActor(actorID).
				WithDoctor(doctorID)
		}

		result, err := tx.db.NewUpdate().
			Model((*Identity)(nil)).
			Set("suspended = ?", suspended).
			Where("id = ?", doctorID).
			Exec(ctx)
		return dbkit.WithErr(result, err, "SetSuspended").Err()
	})
}

// Roster returns the hospital's doctor identities in vetting order,
// duplicates included.
func (s *Service) Roster(ctx context.Context, hospitalID string) ([]string, error) {
	var entries []RosterEntry
	err := dbkit.WithErr1(
		s.db.NewSelect().
			Model(&entries).
			Where("hospital_id = ?", hospitalID).
			Order("seq ASC").
			Scan(ctx),
		"Roster").Err()
	if err != nil {
		return nil, err
	}

	doctors := make([]string, 0, len(entries))
	for _, entry := range entries {
		doctors = append(doctors, entry.DoctorID)
	}
	return doctors, nil
}

// RosterCount returns the number of roster entries for a hospital. Repeated
// vetting of the same doctor counts every entry.
func (s *Service) RosterCount(ctx context.Context, hospitalID string) (int, error) {
	return dbkit.Count[RosterEntry](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("hospital_id = ?", hospitalID)
	})
}
