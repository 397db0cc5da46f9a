package store

import (
	"errors"
	"time"

	"github.com/studyvolt/studyvolt/models"
)

var (
	// ErrNotFound signals an absent daily record for a (user, date) key.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicateRecord signals that another writer already created the
	// daily record for the same (user, date) key.
	ErrDuplicateRecord = errors.New("store: duplicate daily record")
)

// BatteryLedger is the raw material of the battery balance: batteries minted
// by goal days versus batteries consumed by bonus grants.
type BatteryLedger struct {
	Earned int
	Used   int
}

// LedgerStore is the persistence contract the energy engine runs against.
// Implementations must guarantee exclusive creation per (user, date) and
// serialize the read-then-write sequence inside InTx per key.
type LedgerStore interface {
	// GetRecord returns the daily record for (user, date) or ErrNotFound.
	GetRecord(userID uint, date time.Time) (models.DailyRecord, error)
	// GetRecordForUpdate behaves like GetRecord but takes a write lock on
	// the row for the duration of the surrounding transaction.
	GetRecordForUpdate(userID uint, date time.Time) (models.DailyRecord, error)
	// CreateRecord inserts a fresh daily record. Returns ErrDuplicateRecord
	// when a concurrent first-touch won the race for the same key.
	CreateRecord(rec *models.DailyRecord) error
	// UpdateRecord persists a new energy value and the battery flag for an
	// existing record. The flag is one-way: an update can set it but an
	// implementation must refuse to downgrade true back to false.
	// BonusApplied is immutable after creation and never written here.
	UpdateRecord(userID uint, date time.Time, energy int, batteryEarned bool) error
	// AppendEntry appends one immutable activity log row.
	AppendEntry(entry *models.ActivityEntry) error
	// SumPoints returns the raw signed sum of all log points for a user.
	SumPoints(userID uint) (int, error)
	// SumBatteryLedger counts batteryEarned and bonusApplied flags across
	// all of a user's daily records.
	SumBatteryLedger(userID uint) (BatteryLedger, error)
	// ListDay returns the user's log entries for one date, newest first.
	ListDay(userID uint, date time.Time) ([]models.ActivityEntry, error)
	// InTx runs fn against a transactional view of the store. Either every
	// write inside fn commits or none does.
	InTx(fn func(tx LedgerStore) error) error
}
