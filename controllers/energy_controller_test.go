package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyvolt/studyvolt/engine"
	"github.com/studyvolt/studyvolt/middleware"
	"github.com/studyvolt/studyvolt/models"
	"github.com/studyvolt/studyvolt/store"
)

// fakeStore is a minimal single-process LedgerStore for handler tests.
type fakeStore struct {
	records map[string]*models.DailyRecord
	entries []models.ActivityEntry
	nextID  uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]*models.DailyRecord{}}
}

func (f *fakeStore) key(userID uint, date time.Time) string {
	return fmt.Sprintf("%d/%s", userID, date.In(time.Local).Format("2006-01-02"))
}

func (f *fakeStore) GetRecord(userID uint, date time.Time) (models.DailyRecord, error) {
	if rec, ok := f.records[f.key(userID, date)]; ok {
		return *rec, nil
	}
	return models.DailyRecord{}, store.ErrNotFound
}

func (f *fakeStore) GetRecordForUpdate(userID uint, date time.Time) (models.DailyRecord, error) {
	return f.GetRecord(userID, date)
}

func (f *fakeStore) CreateRecord(rec *models.DailyRecord) error {
	key := f.key(rec.UserID, rec.Date)
	if _, ok := f.records[key]; ok {
		return store.ErrDuplicateRecord
	}
	f.nextID++
	rec.ID = f.nextID
	stored := *rec
	f.records[key] = &stored
	return nil
}

func (f *fakeStore) UpdateRecord(userID uint, date time.Time, energy int, batteryEarned bool) error {
	rec, ok := f.records[f.key(userID, date)]
	if !ok {
		return store.ErrNotFound
	}
	rec.Energy = energy
	rec.BatteryEarned = rec.BatteryEarned || batteryEarned
	return nil
}

func (f *fakeStore) AppendEntry(entry *models.ActivityEntry) error {
	f.nextID++
	entry.ID = f.nextID
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeStore) SumPoints(userID uint) (int, error) {
	total := 0
	for _, e := range f.entries {
		if e.UserID == userID {
			total += e.Points
		}
	}
	return total, nil
}

func (f *fakeStore) SumBatteryLedger(userID uint) (store.BatteryLedger, error) {
	var ledger store.BatteryLedger
	for _, rec := range f.records {
		if rec.UserID != userID {
			continue
		}
		if rec.BatteryEarned {
			ledger.Earned++
		}
		if rec.BonusApplied {
			ledger.Used++
		}
	}
	return ledger, nil
}

func (f *fakeStore) ListDay(userID uint, date time.Time) ([]models.ActivityEntry, error) {
	key := f.key(userID, date)
	var out []models.ActivityEntry
	for i := len(f.entries) - 1; i >= 0; i-- {
		e := f.entries[i]
		if e.UserID == userID && f.key(e.UserID, e.Date) == key {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) InTx(fn func(tx store.LedgerStore) error) error {
	return fn(f)
}

func testRouter(t *testing.T, userID uint) (*gin.Engine, *fakeStore) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	st := newFakeStore()
	ec := NewEnergyController(engine.New(st))

	r := gin.New()
	r.Use(func(ctx *gin.Context) {
		ctx.Set(middleware.ContextUserIDKey, userID)
	})
	r.GET("/status", ec.Status)
	r.POST("/activities", ec.SubmitActivity)
	r.GET("/activities/today", ec.ListToday)
	return r, st
}

func TestStatusCreatesDayAndReturnsZeroes(t *testing.T) {
	r, st := testRouter(t, 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"today_energy":0`)
	assert.Contains(t, w.Body.String(), `"battery_balance":0`)
	assert.Len(t, st.records, 1)
}

func TestSubmitActivityAccrues(t *testing.T) {
	r, _ := testRouter(t, 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/activities", strings.NewReader(`{"type":"read","points":70}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"today_energy":70`)
	assert.Contains(t, body, `"new_battery":true`)
	assert.Contains(t, body, `"battery_balance":1`)
}

func TestSubmitActivityRequiresPoints(t *testing.T) {
	r, st := testRouter(t, 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/activities", strings.NewReader(`{"type":"read"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, st.entries)
}

func TestSubmitActivityRejectsBlankType(t *testing.T) {
	r, st := testRouter(t, 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/activities", strings.NewReader(`{"type":"   ","points":5}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, st.entries)
}

func TestSubmitActivityStripsMarkup(t *testing.T) {
	r, st := testRouter(t, 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/activities", strings.NewReader(`{"type":"<b>read</b>","points":5}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, st.entries, 1)
	assert.Equal(t, "read", st.entries[0].Type)
}

func TestListTodayReturnsNewestFirst(t *testing.T) {
	r, _ := testRouter(t, 1)

	for _, payload := range []string{
		`{"type":"read","points":10}`,
		`{"type":"quiz","points":15}`,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/activities", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/activities/today", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Less(t, strings.Index(body, "quiz"), strings.Index(body, "read"))
}
