package custodykit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// RECORD STORE
// ============================================================================

// AddRecord stores a new medical record for a patient. The caller must be a
// practicing doctor (vetted, active, not suspended) and the caller's
// custodian hospital must currently hold a live grant from the patient:
// authorization is hospital-scoped, independent of whether this particular
// doctor treated the patient before. The system gate must be open.
//
// The custodian hospital is captured on the record at this instant and never
// re-derived. Returns the allocated identifier; identifiers start at 1 and
// advance by exactly one per successful call, failures in between included.
func (s *Service) AddRecord(ctx context.Context, patientID, data string, recordType RecordType) (int64, error) {
	actorID := GetActorID(ctx)
	if actorID == "" {
		return NoRecord, NewError(ErrNoActorID, "actor ID required to add a record")
	}
	if !ValidRecordType(recordType) {
		return NoRecord, NewError(ErrInvalidRecordType, "unknown record type").
			WithActor(actorID)
	}

	var recordID int64
	err := s.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		if _, err := tx.requireSystemActive(ctx); err != nil {
			return err
		}

		doctor, err := tx.Profile(ctx, actorID)
		if err != nil {
			return err
		}
		caller := NewChecker(doctor, "", tx.policy)
		if !caller.IsDoctorCaller() {
			return NewError(ErrUnauthorized, "caller is not a practicing doctor").
				WithActor(actorID)
		}

		patient, err := tx.Profile(ctx, patientID)
		if err != nil {
			return err
		}
		if patient.Role != RolePatient {
			return NewError(ErrNotAPatient, "target identity is not a patient").
				WithActor(actorID).
				WithPatient(patientID)
		}

		ok, err := tx.HasAccess(ctx, patientID, doctor.CustodianID)
		if err != nil {
			return err
		}
		if !ok {
			return NewError(ErrNoAccess, "hospital holds no live grant from this patient").
				WithActor(actorID).
				WithPatient(patientID).
				WithHospital(doctor.CustodianID)
		}

		recordID, err = tx.allocateRecordID(ctx)
		if err != nil {
			return err
		}

		record := &MedicalRecord{
			ID:         recordID,
			PatientID:  patientID,
			DoctorID:   actorID,
			HospitalID: doctor.CustodianID,
			Data:       data,
			Type:       recordType,
			CreatedAt:  tx.now(),
		}

		result, err := tx.db.NewInsert().Model(record).Exec(ctx)
		if err = dbkit.WithErr(result, err, "AddRecord").Err(); err != nil {
			return NewError(ErrDatabaseError, "failed to store record").
				WithActor(actorID).
				WithPatient(patientID)
		}

		event := tx.newEvent(ctx, EventRecordAdded)
		event.PatientID = patientID
		event.DoctorID = actorID
		event.HospitalID = doctor.CustodianID
		event.RecordID = recordID
		_ = tx.logEvent(ctx, event) // Log error but don't fail the addition

		return nil
	})
	if err != nil {
		return NoRecord, err
	}
	return recordID, nil
}

// allocateRecordID post-increments the global record counter held in the
// system configuration row and returns the allocated identifier. Running
// inside the caller's transaction keeps allocation atomic with the insert,
// so a failed precondition never consumes an identifier.
func (s *Service) allocateRecordID(ctx context.Context) (int64, error) {
	var next int64
	err := dbkit.WithErr1(
		s.db.NewRaw(
			"UPDATE system_config SET next_record_id = next_record_id + 1, updated_at = current_timestamp WHERE id = ? RETURNING next_record_id - 1",
			ConfigID,
		).Scan(ctx, &next),
		"AllocateRecordID").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return NoRecord, ErrNotBootstrapped
		}
		return NoRecord, err
	}
	return next, nil
}

// UpdateRecord replaces the record's payload in place. Only the original
// authoring doctor may update it: custody never transfers, hospital
// administrators cannot update, and a patient revoking hospital access does
// not retroactively block the author. Every other field, the creation
// timestamp included, stays unchanged. The system gate must be open.
func (s *Service) UpdateRecord(ctx context.Context, recordID int64, newData string) error {
	actorID := GetActorID(ctx)
	if actorID == "" {
		return NewError(ErrNoActorID, "actor ID required to update a record")
	}

	return s.Transaction(ctx, func(ctx context.Context, tx *Service) error {
		if _, err := tx.requireSystemActive(ctx); err != nil {
			return err
		}

		record, err := tx.getRecord(ctx, recordID)
		if err != nil {
			return err
		}
		if record.DoctorID != actorID {
			return NewError(ErrUnauthorized, "only the original author can update a record").
				WithActor(actorID).
				WithRecord(recordID)
		}

		result, err := tx.db.NewUpdate().
			Model((*MedicalRecord)(nil)).
			Set("data = ?", newData).
			Where("id = ?", recordID).
			Exec(ctx)
		return dbkit.WithErr(result, err, "UpdateRecord").Err()
	})
}

// GetRecord returns a record to its patient, or to any practicing doctor
// whose hospital currently holds a live grant from that patient. The access
// predicate is evaluated at query time, so a doctor other than the author
// can read once their hospital is granted access.
func (s *Service) GetRecord(ctx context.Context, recordID int64) (MedicalRecord, error) {
	actorID := GetActorID(ctx)
	if actorID == "" {
		return MedicalRecord{}, NewError(ErrNoActorID, "actor ID required to read a record")
	}

	record, err := s.getRecord(ctx, recordID)
	if err != nil {
		return MedicalRecord{}, err
	}

	ok, err := s.canViewPatient(ctx, actorID, record.PatientID)
	if err != nil {
		return MedicalRecord{}, err
	}
	if !ok {
		return MedicalRecord{}, NewError(ErrUnauthorized, "caller may not read this record").
			WithActor(actorID).
			WithRecord(recordID)
	}

	return *record, nil
}

// PatientRecords returns the ordered identifiers of a patient's records.
// Same authorization as GetRecord, applied once for the whole sequence.
// The sequence is append-only: insertion order equals creation order and is
// never reordered or pruned.
func (s *Service) PatientRecords(ctx context.Context, patientID string) ([]int64, error) {
	actorID := GetActorID(ctx)
	if actorID == "" {
		return nil, NewError(ErrNoActorID, "actor ID required to list records")
	}

	ok, err := s.canViewPatient(ctx, actorID, patientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewError(ErrUnauthorized, "caller may not list this patient's records").
			WithActor(actorID).
			WithPatient(patientID)
	}

	return s.recordIDs(ctx, patientID)
}

// MyRecords returns the caller's own record identifiers. The caller must
// hold the patient role; self-access needs no further check.
func (s *Service) MyRecords(ctx context.Context) ([]int64, error) {
	actorID := GetActorID(ctx)
	if actorID == "" {
		return nil, NewError(ErrNoActorID, "actor ID required to list records")
	}

	identity, err := s.Profile(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if identity.Role != RolePatient {
		return nil, NewError(ErrNotAPatient, "caller is not a patient").
			WithActor(actorID)
	}

	return s.recordIDs(ctx, actorID)
}

// canViewPatient is the shared read predicate: the patient themselves, or a
// practicing doctor whose hospital currently has live access to the patient.
func (s *Service) canViewPatient(ctx context.Context, actorID, patientID string) (bool, error) {
	if actorID == patientID {
		return true, nil
	}

	actor, err := s.Profile(ctx, actorID)
	if err != nil {
		return false, err
	}
	caller := NewChecker(actor, "", s.policy)
	if !caller.IsDoctorCaller() {
		return false, nil
	}

	return s.HasAccess(ctx, patientID, actor.CustodianID)
}

func (s *Service) getRecord(ctx context.Context, recordID int64) (*MedicalRecord, error) {
	var record MedicalRecord
	err := dbkit.WithErr1(
		s.db.NewSelect().Model(&record).Where("id = ?", recordID).Scan(ctx),
		"GetRecord").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrNotFound, "record was never allocated").WithRecord(recordID)
		}
		return nil, err
	}
	return &record, nil
}

func (s *Service) recordIDs(ctx context.Context, patientID string) ([]int64, error) {
	var ids []int64
	err := dbkit.WithErr1(
		s.db.NewSelect().
			Model((*MedicalRecord)(nil)).
			Column("id").
			Where("patient_id = ?", patientID).
			Order("id ASC").
			Scan(ctx, &ids),
		"RecordIDs").Err()
	if err != nil {
		return nil, err
	}
	return ids, nil
}
