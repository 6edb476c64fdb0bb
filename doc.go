// Package custodykit implements a multi-tenant authorization and
// record-custody ledger for medical records.
//
// Three classes of actors register identities: patients, doctors, and
// hospital administrators. Hospitals vet and suspend their doctors, patients
// grant and revoke time-bounded access to hospitals, and doctors create and
// update records under an enforced chain of consent. CustodyKit is the
// decision core: for any actor and any action it decides whether the action
// is allowed, applies the effect atomically, and records an auditable event.
//
// # Core Concepts
//
// Identity: an opaque actor handle registered at most once with exactly one
// immutable role and three named status flags (verified, active, suspended).
//
// Custodian hospital: the single hospital a doctor registers under. It alone
// can vet (verify) or suspend the doctor, and it scopes every access-control
// decision the doctor's actions are subject to.
//
// Access permission: one ledger entry per (patient, hospital) pair with a
// grant timestamp and an optional expiry. A later grant replaces the prior
// one; revocation soft-deletes the entry; expiry is evaluated lazily at
// query time, never pruned.
//
// Medical record: an append-mostly entry keyed by an identifier allocated
// from 1 upward. The patient is the data subject, the authoring doctor the
// sole mutator, the hospital a custodian used only for access evaluation.
//
// System gate: a single global switch plus a designated admin slot. A closed
// gate blocks registration and record mutation while revocation, suspension
// and reads stay operable.
//
// # Key Features
//
//   - Named authorization predicates: patient/doctor/hospital caller checks
//     as explicit functions, not inline flag arithmetic
//   - Hospital-scoped consent: doctors write under their hospital's grant,
//     not a per-doctor relationship
//   - Lazy expiry: access lapses exactly at the boundary instant without a
//     revoke call or background sweep
//   - Tamper-evident trail: registration, grants, revocations and record
//     additions land in a queryable event log and an optional EventSink
//   - Injected clock: expiry decisions are deterministic and testable
//   - DBKit integration: per-call transactions over your existing database
//     connection; a failed precondition leaves no partial effect
//
// # Basic Usage
//
//	// 1. Open the store and run migrations (at application startup)
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	service := custodykit.NewService(custodykit.DefaultPolicy(), db)
//	db.Migrate(ctx, custodykit.NewMigrationService(service).Migrations())
//
//	// 2. Seed the admin slot and open the gate
//	service.Bootstrap(ctx, deployerID)
//
//	// 3. Register actors
//	service.Register(ctx, hospitalID, custodykit.RoleHospital, "St. Mary", "")
//	service.Register(ctx, doctorID, custodykit.RoleDoctor, "Dr. Shaw", hospitalID)
//	service.Register(ctx, patientID, custodykit.RolePatient, "Ada", "")
//
//	// 4. Vet the doctor (caller identity travels in context)
//	service.VetDoctor(custodykit.WithActorID(ctx, hospitalID), doctorID)
//
//	// 5. Patient grants the hospital access, doctor writes a record
//	pctx := custodykit.WithActorID(ctx, patientID)
//	service.GrantAccess(pctx, hospitalID, custodykit.NoExpiry)
//
//	dctx := custodykit.WithActorID(ctx, doctorID)
//	recordID, _ := service.AddRecord(dctx, patientID, payload, custodykit.RecordDiagnosis)
//
// # Middleware Usage
//
//	mw := custodykit.NewMiddleware(service)
//
//	router.With(mw.RequireRole(custodykit.RoleDoctor)).
//	    Post("/patients/{patientID}/records", addRecordHandler)
//
//	router.With(mw.RequirePermission("access.grant")).
//	    Post("/hospitals/{hospitalID}/access", grantHandler)
//
// # Event Log
//
// Every successful mutation is logged with:
//   - Actor (who made the change)
//   - Event kind (registered, record_added, access_granted, access_revoked)
//   - The indexed identities involved (patient, doctor, hospital, record id)
//   - Timestamp
//   - Request metadata (IP, user agent, request ID)
package custodykit
