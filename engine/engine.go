// Package engine implements the daily accrual engine: lazy one-shot day
// initialization with bonus carryover, clamped energy accrual, one-way battery
// minting, and the derived battery balance.
package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/studyvolt/studyvolt/models"
	"github.com/studyvolt/studyvolt/store"
)

const (
	// BatteryGoal is the daily energy threshold that mints one battery.
	BatteryGoal = 65
	// BonusEnergy is the head start granted when a banked battery is consumed.
	BonusEnergy = 20
	// BonusActivityType labels the synthetic log entry written for a grant.
	BonusActivityType = "Battery Bonus"

	maxActivityTypeLen = 64
)

// ErrInvalidActivity rejects submissions whose activity type is empty after
// trimming and sanitization. Validation happens before any storage touch.
var ErrInvalidActivity = errors.New("activity type must not be empty")

// AccrualResult reports the outcome of one activity submission.
type AccrualResult struct {
	LifetimeEnergy     int  `json:"lifetime_energy"`
	TodayEnergy        int  `json:"today_energy"`
	BatteryBalance     int  `json:"battery_balance"`
	BatteryEarnedToday bool `json:"battery_earned_today"`
	// NewBattery is true only on the call that crossed the goal threshold.
	NewBattery bool `json:"new_battery"`
}

// Status is the read-only view served to status queries.
type Status struct {
	LifetimeEnergy     int  `json:"lifetime_energy"`
	TodayEnergy        int  `json:"today_energy"`
	BatteryBalance     int  `json:"battery_balance"`
	BatteryEarnedToday bool `json:"battery_earned_today"`
	BonusActiveToday   bool `json:"bonus_active_today"`
}

// Engine wires the daily initializer, accrual processor, and balance
// aggregator against a LedgerStore. It holds no clock state: "today" is
// recomputed from wall-clock time on every call.
type Engine struct {
	store store.LedgerStore
	now   func() time.Time
}

// New creates an Engine over the given store.
func New(st store.LedgerStore) *Engine {
	return &Engine{store: st, now: time.Now}
}

// WithClock overrides the wall clock, for tests only.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// EnsureToday returns today's record for the user, creating it exactly once.
// On first touch of a new day it decides bonus carryover: yesterday earned a
// battery and the balance is still positive. A granted bonus seeds the record
// with BonusEnergy and appends the synthetic log entry in the same
// transaction, so the balance stays reconstructable from history alone.
func (e *Engine) EnsureToday(userID uint) (models.DailyRecord, error) {
	today := e.today()

	rec, err := e.store.GetRecord(userID, today)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.DailyRecord{}, fmt.Errorf("load today: %w", err)
	}

	var created models.DailyRecord
	txErr := e.store.InTx(func(tx store.LedgerStore) error {
		eligible, err := e.bonusEligible(tx, userID, today)
		if err != nil {
			return err
		}

		created = models.DailyRecord{UserID: userID, Date: today}
		if eligible {
			created.Energy = BonusEnergy
			created.BonusApplied = true
		}
		if err := tx.CreateRecord(&created); err != nil {
			return err
		}
		if eligible {
			return tx.AppendEntry(&models.ActivityEntry{
				UserID: userID,
				Type:   BonusActivityType,
				Points: BonusEnergy,
				Date:   today,
			})
		}
		return nil
	})
	if txErr != nil {
		// A concurrent first-touch won the creation race; its record is
		// authoritative, including any bonus it decided.
		if errors.Is(txErr, store.ErrDuplicateRecord) {
			return e.store.GetRecord(userID, today)
		}
		return models.DailyRecord{}, fmt.Errorf("create today: %w", txErr)
	}
	return created, nil
}

// RecordActivity appends a log entry and folds its points into today's energy,
// clamping the gauge at zero while keeping the raw signed delta in the log.
// Crossing BatteryGoal mints at most one battery per day; the flag never
// resets once set.
func (e *Engine) RecordActivity(userID uint, activityType string, points int) (AccrualResult, error) {
	label, err := normalizeActivityType(activityType)
	if err != nil {
		return AccrualResult{}, err
	}

	if _, err := e.EnsureToday(userID); err != nil {
		return AccrualResult{}, err
	}

	today := e.today()
	var result AccrualResult
	txErr := e.store.InTx(func(tx store.LedgerStore) error {
		rec, err := tx.GetRecordForUpdate(userID, today)
		if err != nil {
			return err
		}

		if err := tx.AppendEntry(&models.ActivityEntry{
			UserID: userID,
			Type:   label,
			Points: points,
			Date:   today,
		}); err != nil {
			return err
		}

		candidate := rec.Energy + points
		if candidate < 0 {
			candidate = 0
		}
		newBattery := candidate >= BatteryGoal && !rec.BatteryEarned
		if err := tx.UpdateRecord(userID, today, candidate, rec.BatteryEarned || newBattery); err != nil {
			return err
		}

		result.TodayEnergy = candidate
		result.BatteryEarnedToday = rec.BatteryEarned || newBattery
		result.NewBattery = newBattery
		return nil
	})
	if txErr != nil {
		return AccrualResult{}, fmt.Errorf("record activity: %w", txErr)
	}

	result.LifetimeEnergy, err = e.store.SumPoints(userID)
	if err != nil {
		return AccrualResult{}, fmt.Errorf("sum points: %w", err)
	}
	result.BatteryBalance, err = e.batteryBalance(e.store, userID)
	if err != nil {
		return AccrualResult{}, err
	}
	return result, nil
}

// ComputeStatus returns the user's aggregate figures. It ensures today's
// record first so the two "today" booleans always read off a real row.
func (e *Engine) ComputeStatus(userID uint) (Status, error) {
	rec, err := e.EnsureToday(userID)
	if err != nil {
		return Status{}, err
	}

	lifetime, err := e.store.SumPoints(userID)
	if err != nil {
		return Status{}, fmt.Errorf("sum points: %w", err)
	}
	balance, err := e.batteryBalance(e.store, userID)
	if err != nil {
		return Status{}, err
	}

	return Status{
		LifetimeEnergy:     lifetime,
		TodayEnergy:        rec.Energy,
		BatteryBalance:     balance,
		BatteryEarnedToday: rec.BatteryEarned,
		BonusActiveToday:   rec.BonusApplied,
	}, nil
}

// ListToday returns today's log entries, newest first, ensuring the day
// record exists before reading.
func (e *Engine) ListToday(userID uint) ([]models.ActivityEntry, error) {
	if _, err := e.EnsureToday(userID); err != nil {
		return nil, err
	}
	return e.store.ListDay(userID, e.today())
}

// bonusEligible checks yesterday's record and the current battery balance.
// Yesterday only: a skipped day forfeits the pending head start until another
// battery-earning day comes along.
func (e *Engine) bonusEligible(tx store.LedgerStore, userID uint, today time.Time) (bool, error) {
	yesterday, err := tx.GetRecord(userID, today.AddDate(0, 0, -1))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load yesterday: %w", err)
	}
	if !yesterday.BatteryEarned {
		return false, nil
	}
	balance, err := e.batteryBalance(tx, userID)
	if err != nil {
		return false, err
	}
	return balance > 0, nil
}

// batteryBalance recomputes earned minus used from the record history on
// every call; there is no cached counter to drift.
func (e *Engine) batteryBalance(st store.LedgerStore, userID uint) (int, error) {
	ledger, err := st.SumBatteryLedger(userID)
	if err != nil {
		return 0, fmt.Errorf("sum battery ledger: %w", err)
	}
	return ledger.Earned - ledger.Used, nil
}

// today is the engine's unit of time: local midnight of the current wall clock.
func (e *Engine) today() time.Time {
	now := e.now().In(time.Local)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func normalizeActivityType(raw string) (string, error) {
	label := strings.TrimSpace(raw)
	if label == "" {
		return "", ErrInvalidActivity
	}
	if runes := []rune(label); len(runes) > maxActivityTypeLen {
		label = string(runes[:maxActivityTypeLen])
	}
	return label, nil
}
