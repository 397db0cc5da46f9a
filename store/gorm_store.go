package store

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studyvolt/studyvolt/models"
)

// GormStore implements LedgerStore on top of a MySQL-backed gorm handle.
// Exclusive day creation relies on the unique (user_id, date) index on
// daily_records; the database, not the process, arbitrates races.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a gorm handle as a LedgerStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// GetRecord returns the daily record for (user, date) or ErrNotFound.
func (s *GormStore) GetRecord(userID uint, date time.Time) (models.DailyRecord, error) {
	var rec models.DailyRecord
	err := s.db.Where("user_id = ? AND date = ?", userID, dateKey(date)).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DailyRecord{}, ErrNotFound
		}
		return models.DailyRecord{}, err
	}
	return rec, nil
}

// GetRecordForUpdate locks the row with SELECT ... FOR UPDATE so concurrent
// accrual calls on the same (user, date) serialize at the database.
func (s *GormStore) GetRecordForUpdate(userID uint, date time.Time) (models.DailyRecord, error) {
	var rec models.DailyRecord
	err := s.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND date = ?", userID, dateKey(date)).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DailyRecord{}, ErrNotFound
		}
		return models.DailyRecord{}, err
	}
	return rec, nil
}

// CreateRecord inserts a fresh daily record, mapping the unique index
// violation to ErrDuplicateRecord.
func (s *GormStore) CreateRecord(rec *models.DailyRecord) error {
	rec.Date = dateKey(rec.Date)
	if err := s.db.Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateRecord
		}
		return err
	}
	return nil
}

// UpdateRecord writes energy and the battery flag. The OR expression keeps the
// flag sticky at the SQL level: a true value can never be written back to false.
func (s *GormStore) UpdateRecord(userID uint, date time.Time, energy int, batteryEarned bool) error {
	res := s.db.Model(&models.DailyRecord{}).
		Where("user_id = ? AND date = ?", userID, dateKey(date)).
		Updates(map[string]interface{}{
			"energy":         energy,
			"battery_earned": gorm.Expr("battery_earned OR ?", batteryEarned),
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendEntry appends one activity log row.
func (s *GormStore) AppendEntry(entry *models.ActivityEntry) error {
	entry.Date = dateKey(entry.Date)
	return s.db.Create(entry).Error
}

// SumPoints returns the raw signed lifetime total for a user.
func (s *GormStore) SumPoints(userID uint) (int, error) {
	var total int64
	err := s.db.Model(&models.ActivityEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points),0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// SumBatteryLedger counts earned and consumed batteries over all daily records.
func (s *GormStore) SumBatteryLedger(userID uint) (BatteryLedger, error) {
	type row struct {
		Earned int64
		Used   int64
	}
	var r row
	err := s.db.Model(&models.DailyRecord{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(battery_earned),0) AS earned, COALESCE(SUM(bonus_applied),0) AS used").
		Scan(&r).Error
	if err != nil {
		return BatteryLedger{}, err
	}
	return BatteryLedger{Earned: int(r.Earned), Used: int(r.Used)}, nil
}

// ListDay returns the user's entries for one date, newest first.
func (s *GormStore) ListDay(userID uint, date time.Time) ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry
	err := s.db.Where("user_id = ? AND date = ?", userID, dateKey(date)).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	return entries, err
}

// InTx runs fn inside a database transaction; the callback sees a store bound
// to the transaction handle so its locks and writes share one commit.
func (s *GormStore) InTx(fn func(tx LedgerStore) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// dateKey normalizes a timestamp to local midnight to align with the DATE
// column, the same convention the rest of the app uses for "today".
func dateKey(t time.Time) time.Time {
	tt := t.In(time.Local)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, tt.Location())
}
