package custodykit

import (
	"github.com/fernandezvara/dbkit"
)

// MigrationService provides migration management functionality as an extension to Service
type MigrationService struct {
	*Service
}

// NewMigrationService creates a new migration service extension
func NewMigrationService(service *Service) *MigrationService {
	return &MigrationService{Service: service}
}

// Migrations returns all database migrations required for CustodyKit.
// Use dbkit.Migrate(ctx, service.Migrations()) to run migrations.
// Use dbkit.MigrationStatus(ctx, service.Migrations()) to check status.
func (ms *MigrationService) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "custodykit-001",
			Description: "Create identities table",
			SQL: `
		CREATE TABLE IF NOT EXISTS identities (
		    id TEXT PRIMARY KEY,
		    name TEXT NOT NULL,
		    role TEXT NOT NULL,
		    custodian_id TEXT,
		    verified BOOLEAN NOT NULL DEFAULT FALSE,
		    active BOOLEAN NOT NULL DEFAULT FALSE,
		    suspended BOOLEAN NOT NULL DEFAULT FALSE,
		    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
		)`,
		},
		{
			ID:          "custodykit-002",
			Description: "Create access_permissions table",
			SQL: `
		CREATE TABLE IF NOT EXISTS access_permissions (
		    patient_id TEXT NOT NULL,
		    hospital_id TEXT NOT NULL,
		    granted_at BIGINT NOT NULL,
		    expires_at BIGINT NOT NULL DEFAULT 0,
		    active BOOLEAN NOT NULL DEFAULT FALSE,
		    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
		    PRIMARY KEY (patient_id, hospital_id)
		)`,
		},
		{
			ID:          "custodykit-003",
			Description: "Create medical_records table",
			SQL: `
		CREATE TABLE IF NOT EXISTS medical_records (
		    id BIGINT PRIMARY KEY,
		    patient_id TEXT NOT NULL,
		    doctor_id TEXT NOT NULL,
		    hospital_id TEXT NOT NULL,
		    data TEXT NOT NULL,
		    record_type TEXT NOT NULL,
		    created_at BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS medical_records_patient_idx
		    ON medical_records (patient_id, id)`,
		},
		{
			ID:          "custodykit-004",
			Description: "Create hospital_roster table",
			SQL: `
		CREATE TABLE IF NOT EXISTS hospital_roster (
		    seq BIGSERIAL PRIMARY KEY,
		    hospital_id TEXT NOT NULL,
		    doctor_id TEXT NOT NULL,
		    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
		);
		CREATE INDEX IF NOT EXISTS hospital_roster_hospital_idx
		    ON hospital_roster (hospital_id, seq)`,
		},
		{
			ID:          "custodykit-005",
			Description: "Create system_config table",
			SQL: `
		CREATE TABLE IF NOT EXISTS system_config (
		    id BIGINT PRIMARY KEY,
		    active BOOLEAN NOT NULL DEFAULT TRUE,
		    admin_id TEXT NOT NULL,
		    next_record_id BIGINT NOT NULL DEFAULT 1,
		    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
		)`,
		},
		{
			ID:          "custodykit-006",
			Description: "Create event_log table",
			SQL: `
		CREATE TABLE IF NOT EXISTS event_log (
		    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		    timestamp TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
		    kind TEXT NOT NULL,
		    actor_id TEXT NOT NULL,
		    patient_id TEXT,
		    doctor_id TEXT,
		    hospital_id TEXT,
		    record_id BIGINT,
		    role TEXT,
		    ip_address TEXT,
		    user_agent TEXT,
		    request_id TEXT
		)`,
		},
	}
}
