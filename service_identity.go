package custodykit

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// IDENTITY REGISTRY
// ============================================================================

// Register records a new identity with one immutable role. An identity
// registers at most once. Doctors must name a custodian hospital that is
// already registered as a hospital administrator; they start active but
// unverified, and cannot practice until that hospital vets them. Patients
// and hospital administrators start verified and active with no custodian.
// The system gate must be open.
//
// Example:
//
//	err := service.Register(ctx, doctorID, custodykit.RoleDoctor, "Dr. Shaw", hospitalID)
func (s *Service) Register(ctx context.Context, id string, role Role, name, custodianHospital string) error {
	if id == "" {
		return NewError(ErrInvalidRole, "identity handle must not be empty")
	}
	if !ValidRole(role) {
		return NewError(ErrInvalidRole, "unknown role").WithActor(id)
	}

	return s.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		if _, err := tx.requireSystemActive(ctx); err != nil {
			return err
		}

		exists, err := dbkit.Exists[Identity](ctx, tx.db, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("id = ?", id)
		})
		if err != nil {
			return dbkit.WithErr1(err, "RegisterExists").Err()
		}
		if exists {
			return NewError(ErrAlreadyRegistered, "identity already registered").WithActor(id)
		}

		identity := &Identity{
			ID:       id,
			Name:     name,
			Role:     role,
			Verified: true,
			Active:   true,
		}

		if role == RoleDoctor {
			custodian, err := tx.Profile(ctx, custodianHospital)
			if err != nil {
				return err
			}
			if custodian.Role != RoleHospital {
				return NewError(ErrInvalidCustodian, "custodian is not a registered hospital").
					WithActor(id).
					WithHospital(custodianHospital)
			}
			identity.CustodianID = custodianHospital
			// Vetting is a separate hospital action
			identity.Verified = false
		}

		result, err := tx.db.NewInsert().Model(identity).Exec(ctx)
		if err = dbkit.WithErr(result, err, "RegisterIdentity").Err(); err != nil {
			return NewError(ErrDatabaseError, "failed to register identity").WithActor(id)
		}

		event := tx.newEvent(ctx, EventRegistered)
		if event.ActorID == "" {
			event.ActorID = id
		}
		event.Role = role
		switch role {
		case RolePatient:
			event.PatientID = id
		case RoleDoctor:
			event.DoctorID = id
			event.HospitalID = custodianHospital
		case RoleHospital:
			event.HospitalID = id
		}
		_ = tx.logEvent(ctx, event) // Log error but don't fail the registration

		return nil
	})
}

// Profile returns the identity's profile. Unregistered identities yield a
// zero-value profile, not an error: callers that care must check
// IsRegistered separately.
func (s *Service) Profile(ctx context.Context, id string) (Identity, error) {
	var identity Identity
	err := dbkit.WithErr1(s.db.NewSelect().Model(&identity).Where("id = ?", id).Scan(ctx), "Profile").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return Identity{ID: id}, nil
		}
		return Identity{}, err
	}
	return identity, nil
}

// IsRegistered reports whether the identity exists in the registry.
func (s *Service) IsRegistered(ctx context.Context, id string) (bool, error) {
	identity, err := s.Profile(ctx, id)
	if err != nil {
		return false, err
	}
	return identity.IsRegistered(), nil
}

// StatusOf returns the identity's status flags.
func (s *Service) StatusOf(ctx context.Context, id string) (Status, error) {
	identity, err := s.Profile(ctx, id)
	if err != nil {
		return Status{}, err
	}
	return identity.Status(), nil
}

// IsVerified reports whether the identity's verified flag is set.
func (s *Service) IsVerified(ctx context.Context, id string) (bool, error) {
	status, err := s.StatusOf(ctx, id)
	return status.Verified, err
}

// IsActive reports whether the identity's active flag is set.
func (s *Service) IsActive(ctx context.Context, id string) (bool, error) {
	status, err := s.StatusOf(ctx, id)
	return status.Active, err
}

// IsSuspended reports whether the identity's suspended flag is set.
func (s *Service) IsSuspended(ctx context.Context, id string) (bool, error) {
	status, err := s.StatusOf(ctx, id)
	return status.Suspended, err
}

// GetChecker loads the identity's profile and the admin slot and returns a
// Checker. This can be stored in context for authorization checks in handlers.
func (s *Service) GetChecker(ctx context.Context, id string) (*Checker, error) {
	identity, err := s.Profile(ctx, id)
	if err != nil {
		return nil, err
	}

	adminID := ""
	cfg, err := s.loadConfig(ctx)
	if err == nil {
		adminID = cfg.AdminID
	} else if !errors.Is(err, ErrNotBootstrapped) {
		return nil, err
	}

	return NewChecker(identity, adminID, s.policy), nil
}

// GetCheckerFromContext creates a Checker for the caller identity in context.
func (s *Service) GetCheckerFromContext(ctx context.Context) (*Checker, error) {
	actorID := GetActorID(ctx)
	if actorID == "" {
		return nil, ErrNoActorID
	}
	return s.GetChecker(ctx, actorID)
}
