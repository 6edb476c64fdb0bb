package custodykit

import (
	"context"
	"fmt"
	"time"

	"github.com/fernandezvara/dbkit"
)

// Transaction executes fn within a database transaction with automatic
// commit/rollback. The tx argument is the service bound to the open
// transaction; fn must route every read and write through it so the whole
// call stays one atomic unit. If fn returns an error the transaction rolls
// back and no partial effect is visible to concurrent observers.
//
// Example:
//
//	err := service.Transaction(ctx, func(ctx context.Context, tx *custodykit.Service) error {
//	    if err := tx.GrantAccess(ctx, hospitalID, custodykit.NoExpiry); err != nil {
//	        return err // This will cause a rollback
//	    }
//	    return nil // This will cause a commit
//	})
func (s *Service) Transaction(ctx context.Context, fn func(ctx context.Context, tx *Service) error) error {
	start := time.Now()
	var err error

	switch db := s.db.(type) {
	case *dbkit.Tx:
		// Already in a transaction, use savepoint
		err = db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(ctx, s.withDB(tx))
		})
	case *dbkit.DBKit:
		err = db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(ctx, s.withDB(tx))
		})
	default:
		err = fmt.Errorf("transaction support requires a dbkit.DBKit or dbkit.Tx instance")
	}

	// Record transaction metrics
	duration := time.Since(start)
	s.txMonitor.recordTransaction(duration, err == nil)

	return err
}

// TransactionWithOptions executes fn within a database transaction with
// custom options. Supports read-only transactions, isolation levels, and
// other transaction parameters.
//
// Example:
//
//	err := service.TransactionWithOptions(ctx, dbkit.SerializableTxOptions(), func(ctx context.Context, tx *custodykit.Service) error {
//	    _, err := tx.AddRecord(ctx, patientID, data, custodykit.RecordDiagnosis)
//	    return err
//	})
func (s *Service) TransactionWithOptions(ctx context.Context, opts dbkit.TxOptions, fn func(ctx context.Context, tx *Service) error) error {
	switch db := s.db.(type) {
	case *dbkit.Tx:
		// Already in a transaction, use savepoint (no options support in nested transactions)
		return db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(ctx, s.withDB(tx))
		})
	case *dbkit.DBKit:
		return db.TransactionWithOptions(ctx, opts, func(tx *dbkit.Tx) error {
			return fn(ctx, s.withDB(tx))
		})
	}

	return fmt.Errorf("transaction support requires a dbkit.DBKit or dbkit.Tx instance")
}

// ReadOnlyTransaction executes fn within a read-only database transaction.
// Useful for multi-query reads that want one consistent view.
//
// Example:
//
//	err := service.ReadOnlyTransaction(ctx, func(ctx context.Context, tx *custodykit.Service) error {
//	    ok, err := tx.HasAccess(ctx, patientID, hospitalID)
//	    if err != nil {
//	        return err
//	    }
//	    ids, err := tx.PatientRecords(ctx, patientID)
//	    return err
//	})
func (s *Service) ReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context, tx *Service) error) error {
	return s.TransactionWithOptions(ctx, dbkit.ReadOnlyTxOptions(), fn)
}
