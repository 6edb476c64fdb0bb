package custodykit

import (
	"time"

	"github.com/uptrace/bun"
)

// Role identifies the single class an identity registers as.
// A role never changes after registration.
type Role string

const (
	// RolePatient is the data subject. Patients own their records and control
	// which hospitals may access them.
	RolePatient Role = "patient"

	// RoleDoctor is the authoring role. Doctors practice under exactly one
	// custodian hospital and can act only after that hospital vets them.
	RoleDoctor Role = "doctor"

	// RoleHospital is the hospital administrator identity. It vets and
	// suspends its doctors and is the grantee of patient access permissions.
	RoleHospital Role = "hospital"
)

// ValidRole reports whether r is one of the three registrable roles.
func ValidRole(r Role) bool {
	switch r {
	case RolePatient, RoleDoctor, RoleHospital:
		return true
	}
	return false
}

// RecordType tags a medical record with its clinical category.
type RecordType string

const (
	RecordDiagnosis   RecordType = "diagnosis"
	RecordTreatment   RecordType = "treatment"
	RecordExamination RecordType = "examination"
	RecordSurgery     RecordType = "surgery"
)

// ValidRecordType reports whether t is a known record type.
func ValidRecordType(t RecordType) bool {
	switch t {
	case RecordDiagnosis, RecordTreatment, RecordExamination, RecordSurgery:
		return true
	}
	return false
}

// NoExpiry is the sentinel expiry meaning a permission never lapses.
const NoExpiry int64 = 0

// NoRecord is the reserved record identifier meaning "does not exist".
// Allocated identifiers start at 1.
const NoRecord int64 = 0

// ConfigID is the primary key of the single system configuration row.
const ConfigID int64 = 1

// Identity is the registered profile of an actor.
// An identity registers at most once and keeps its role forever.
type Identity struct {
	bun.BaseModel `bun:"table:identities,alias:i"`

	ID          string    `bun:"id,pk"`
	Name        string    `bun:"name,notnull"`
	Role        Role      `bun:"role,notnull"`
	CustodianID string    `bun:"custodian_id"` // meaningful only for doctors
	Verified    bool      `bun:"verified,notnull"`
	Active      bool      `bun:"active,notnull"`
	Suspended   bool      `bun:"suspended,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// IsRegistered reports whether this identity exists in the registry.
// Profile lookups return a zero-value Identity for unregistered actors.
func (i *Identity) IsRegistered() bool {
	return i.Role != ""
}

// Status holds the identity's status flags as named booleans.
type Status struct {
	Verified  bool
	Active    bool
	Suspended bool
}

// Status derives the status flags of the identity.
func (i *Identity) Status() Status {
	return Status{Verified: i.Verified, Active: i.Active, Suspended: i.Suspended}
}

// AccessPermission is the single permission record per (patient, hospital)
// pair. A later grant fully replaces the prior one; revocation flips Active
// to false but keeps the row for audit.
type AccessPermission struct {
	bun.BaseModel `bun:"table:access_permissions,alias:ap"`

	PatientID  string    `bun:"patient_id,pk"`
	HospitalID string    `bun:"hospital_id,pk"`
	GrantedAt  int64     `bun:"granted_at,notnull"`
	ExpiresAt  int64     `bun:"expires_at,notnull"` // NoExpiry means no lapse
	Active     bool      `bun:"active,notnull"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Live reports whether the permission grants access at the given instant.
// Expiry is evaluated lazily here, never pruned: access lapses exactly at
// the boundary instant (expires_at <= now), without a revoke call.
func (p *AccessPermission) Live(now int64) bool {
	if p == nil || !p.Active {
		return false
	}
	if p.ExpiresAt != NoExpiry && p.ExpiresAt <= now {
		return false
	}
	return true
}

// MedicalRecord is an entry in the record store. Authorship and patient
// binding are immutable; only Data may change, and only by the original
// authoring doctor. HospitalID is the doctor's custodian captured at
// creation time and is used for access-control evaluation only.
type MedicalRecord struct {
	bun.BaseModel `bun:"table:medical_records,alias:mr"`

	ID         int64      `bun:"id,pk"`
	PatientID  string     `bun:"patient_id,notnull"`
	DoctorID   string     `bun:"doctor_id,notnull"`
	HospitalID string     `bun:"hospital_id,notnull"`
	Data       string     `bun:"data,notnull"` // opaque payload, stored verbatim
	Type       RecordType `bun:"record_type,notnull"`
	CreatedAt  int64      `bun:"created_at,notnull"`
}

// RosterEntry is one append-only vetting entry in a hospital's roster.
// Vetting the same doctor twice appends a second entry; the sequence is
// never de-duplicated, reordered or pruned.
type RosterEntry struct {
	bun.BaseModel `bun:"table:hospital_roster,alias:hr"`

	Seq        int64     `bun:"seq,pk,autoincrement"`
	HospitalID string    `bun:"hospital_id,notnull"`
	DoctorID   string    `bun:"doctor_id,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// SystemConfig is the single-row global configuration: the system gate, the
// designated admin slot and the record identifier counter.
type SystemConfig struct {
	bun.BaseModel `bun:"table:system_config,alias:sc"`

	ID           int64     `bun:"id,pk"`
	Active       bool      `bun:"active,notnull"`
	AdminID      string    `bun:"admin_id,notnull"`
	NextRecordID int64     `bun:"next_record_id,notnull"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// EventKind classifies entries in the event log.
type EventKind string

const (
	EventRegistered    EventKind = "registered"
	EventRecordAdded   EventKind = "record_added"
	EventAccessGranted EventKind = "access_granted"
	EventAccessRevoked EventKind = "access_revoked"
)

// EventLog records every auditable mutation for external audit trails.
// Entries are written by the service and never consumed internally.
type EventLog struct {
	bun.BaseModel `bun:"table:event_log,alias:el"`

	ID        string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Timestamp time.Time `bun:"timestamp,notnull,default:current_timestamp"`

	Kind    EventKind `bun:"kind,notnull"`
	ActorID string    `bun:"actor_id,notnull"`

	// Indexed identities involved in the event. Unused fields stay empty.
	PatientID  string `bun:"patient_id"`
	DoctorID   string `bun:"doctor_id"`
	HospitalID string `bun:"hospital_id"`
	RecordID   int64  `bun:"record_id"`
	Role       string `bun:"role"`

	// Request metadata for forensics
	IPAddress string `bun:"ip_address"`
	UserAgent string `bun:"user_agent"`
	RequestID string `bun:"request_id"`
}

// Event is used to create new event log entries and to notify an EventSink.
type Event struct {
	Kind       EventKind
	ActorID    string
	PatientID  string
	DoctorID   string
	HospitalID string
	RecordID   int64
	Role       Role
	IPAddress  string
	UserAgent  string
	RequestID  string
}

// ToModel converts an Event to an EventLog model.
func (e *Event) ToModel() *EventLog {
	return &EventLog{
		Kind:       e.Kind,
		ActorID:    e.ActorID,
		PatientID:  e.PatientID,
		DoctorID:   e.DoctorID,
		HospitalID: e.HospitalID,
		RecordID:   e.RecordID,
		Role:       string(e.Role),
		IPAddress:  e.IPAddress,
		UserAgent:  e.UserAgent,
		RequestID:  e.RequestID,
		Timestamp:  time.Now(),
	}
}
