package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/studyvolt/studyvolt/config"
	"github.com/studyvolt/studyvolt/utils"
)

const leaderboardCacheKey = "cache:leaderboard"

// LeaderboardController serves the cross-user ranking. It is pure aggregation
// over the ledger tables and keeps no state of its own; results for the
// default page size are cached briefly in Redis.
type LeaderboardController struct {
	db *gorm.DB
}

// NewLeaderboardController creates a new controller instance.
func NewLeaderboardController(db *gorm.DB) *LeaderboardController {
	return &LeaderboardController{db: db}
}

type leaderboardRow struct {
	UserID         uint   `json:"user_id"`
	Handle         string `json:"handle"`
	LifetimeEnergy int    `json:"lifetime_energy"`
	TodayEnergy    int    `json:"today_energy"`
	BatteryBalance int    `json:"battery_balance"`
}

// List returns users ordered by lifetime energy descending, each with today's
// gauge and battery balance.
func (l *LeaderboardController) List(ctx *gin.Context) {
	cfg := config.Get()

	limit := cfg.LeaderboardLimit
	cacheable := true
	if v := ctx.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
			cacheable = n == cfg.LeaderboardLimit
		}
	}

	if cacheable {
		if b, ok := utils.CacheGetBytes(leaderboardCacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	now := time.Now().In(time.Local)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var rows []leaderboardRow
	err := l.db.Raw(`
		SELECT u.id AS user_id,
		       u.handle,
		       COALESCE(la.total, 0) AS lifetime_energy,
		       COALESCE(d.energy, 0) AS today_energy,
		       COALESCE(bl.earned, 0) - COALESCE(bl.used, 0) AS battery_balance
		FROM users u
		LEFT JOIN (
			SELECT user_id, SUM(points) AS total
			FROM activity_entries
			GROUP BY user_id
		) la ON la.user_id = u.id
		LEFT JOIN daily_records d ON d.user_id = u.id AND d.date = ?
		LEFT JOIN (
			SELECT user_id, SUM(battery_earned) AS earned, SUM(bonus_applied) AS used
			FROM daily_records
			GROUP BY user_id
		) bl ON bl.user_id = u.id
		WHERE u.deleted_at IS NULL
		ORDER BY lifetime_energy DESC, u.id ASC
		LIMIT ?
	`, today, limit).Scan(&rows).Error
	if err != nil {
		utils.Sugar.Errorf("leaderboard query failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load leaderboard")
		return
	}

	payload := gin.H{"items": rows}
	if cacheable {
		wrapper := utils.Envelope{Code: 0, Message: "success", Data: payload}
		utils.CacheSetJSON(leaderboardCacheKey, wrapper, time.Duration(cfg.LeaderboardCacheSec)*time.Second)
	}
	utils.Success(ctx, payload)
}
