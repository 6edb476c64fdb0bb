package custodykit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// Database defines the database operations interface for dependency injection
type Database interface {
	dbkit.IDB
}

// TransactionManager defines the transaction management interface
type TransactionManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context, tx *Service) error) error
	TransactionWithOptions(ctx context.Context, opts dbkit.TxOptions, fn func(ctx context.Context, tx *Service) error) error
	ReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context, tx *Service) error) error
}

// MigrationManager defines the migration management interface
type MigrationManager interface {
	Migrations() []dbkit.Migration
}

// HealthMonitor defines the health monitoring interface
type HealthMonitor interface {
	Health(ctx context.Context) dbkit.HealthStatus
	IsHealthy(ctx context.Context) bool
	Ping(ctx context.Context) error
	GetPoolStats() dbkit.PoolStats
}

// PoolManager defines the connection pool management interface
type PoolManager interface {
	ConfigureConnectionPool(config PoolConfig) error
	GetConnectionPoolConfig() (*PoolConfig, error)
	ResetConnectionPool() error
}

// TransactionMonitor defines the transaction monitoring interface
type TransactionMonitor interface {
	GetTransactionMetrics() TransactionMetrics
	ResetTransactionMetrics()
	IsTransactionHealthy() bool
}

// AccessLedger is the consent surface of the service: what a patient grants
// and revokes, and the predicate everything else consults.
type AccessLedger interface {
	GrantAccess(ctx context.Context, hospitalID string, expiry int64) error
	RevokeAccess(ctx context.Context, hospitalID string) error
	HasAccess(ctx context.Context, patientID, hospitalID string) (bool, error)
}

// RecordStore is the record custody surface of the service.
type RecordStore interface {
	AddRecord(ctx context.Context, patientID, data string, recordType RecordType) (int64, error)
	UpdateRecord(ctx context.Context, recordID int64, newData string) error
	GetRecord(ctx context.Context, recordID int64) (MedicalRecord, error)
	PatientRecords(ctx context.Context, patientID string) ([]int64, error)
	MyRecords(ctx context.Context) ([]int64, error)
}
