package custodykit

import (
	"context"
	"time"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// SYSTEM GATE
// ============================================================================

// Bootstrap seeds the system configuration row: the deployer becomes the
// designated admin, the gate opens, and the record counter starts at 1.
// Bootstrapping twice is a no-op; the original admin slot is kept.
func Bootstrap(ctx context.Context, db dbkit.IDB, adminID string) error {
	if adminID == "" {
		return NewError(ErrNoActorID, "admin ID required for bootstrap")
	}

	cfg := &SystemConfig{
		ID:           ConfigID,
		Active:       true,
		AdminID:      adminID,
		NextRecordID: 1,
	}

	result, err := db.NewInsert().
		Model(cfg).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	return dbkit.WithErr(result, err, "Bootstrap").Err()
}

// Bootstrap seeds the system configuration through the service's database
// handle. See the package-level Bootstrap.
func (s *Service) Bootstrap(ctx context.Context, adminID string) error {
	return Bootstrap(ctx, s.db, adminID)
}

// loadConfig reads the system configuration row.
func (s *Service) loadConfig(ctx context.Context) (*SystemConfig, error) {
	var cfg SystemConfig
	err := dbkit.WithErr1(s.db.NewSelect().Model(&cfg).Where("id = ?", ConfigID).Scan(ctx), "LoadConfig").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, ErrNotBootstrapped
		}
		return nil, err
	}
	return &cfg, nil
}

// requireSystemActive loads the configuration and fails with
// ErrSystemInactive when the gate is closed.
func (s *Service) requireSystemActive(ctx context.Context) (*SystemConfig, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.Active {
		return nil, NewError(ErrSystemInactive, "system gate is closed")
	}
	return cfg, nil
}

// SystemActive reports whether the system gate is open.
func (s *Service) SystemActive(ctx context.Context) (bool, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return false, err
	}
	return cfg.Active, nil
}

// Admin returns the identity occupying the designated admin slot.
func (s *Service) Admin(ctx context.Context) (string, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return "", err
	}
	return cfg.AdminID, nil
}

// ToggleSystem flips the global gate. Only the designated admin may call it.
// A closed gate blocks registration, access grants and record mutation; it
// never blocks revocation, suspension toggling, vetting or reads, so the
// administrative paths stay operable while the system is paused.
func (s *Service) ToggleSystem(ctx context.Context) error {
	actorID := GetActorID(ctx)
	if actorID == "" {
		return NewError(ErrNoActorID, "actor ID required to toggle the system gate")
	}

	return s.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		cfg, err := tx.loadConfig(ctx)
		if err != nil {
			return err
		}
		if actorID != cfg.AdminID {
			return NewError(ErrUnauthorized, "only the system admin can toggle the gate").
				WithActor(actorID)
		}

		result, err := tx.db.NewUpdate().
			Model((*SystemConfig)(nil)).
			Set("active = NOT active").
			Set("updated_at = ?", time.Now()).
			Where("id = ?", ConfigID).
			Exec(ctx)
		return dbkit.WithErr(result, err, "ToggleSystem").Err()
	})
}

// TransferAdmin overwrites the admin slot unconditionally. Only the current
// admin may call it. There is no confirmation step: a mistyped newAdmin
// permanently locks out administrative control. This single-step semantic is
// inherited and documented, not softened here.
func (s *Service) TransferAdmin(ctx context.Context, newAdmin string) error {
	actorID := GetActorID(ctx)
	if actorID == "" {
		return NewError(ErrNoActorID, "actor ID required to transfer the admin slot")
	}
	if newAdmin == "" {
		return NewError(ErrUnauthorized, "new admin identity must not be empty").
			WithActor(actorID)
	}

	return s.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		cfg, err := tx.loadConfig(ctx)
		if err != nil {
			return err
		}
		if actorID != cfg.AdminID {
			return NewError(ErrUnauthorized, "only the system admin can transfer the admin slot").
				WithActor(actorID)
		}

		result, err := tx.db.NewUpdate().
			Model((*SystemConfig)(nil)).
			Set("admin_id = ?", newAdmin).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", ConfigID).
			Exec(ctx)
		return dbkit.WithErr(result, err, "TransferAdmin").Err()
	})
}
