package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyvolt/studyvolt/engine"
	"github.com/studyvolt/studyvolt/utils"
)

// EnergyController exposes the daily accrual engine over HTTP: status reads,
// activity submissions, and today's log.
type EnergyController struct {
	engine *engine.Engine
}

// NewEnergyController creates a new controller instance.
func NewEnergyController(eng *engine.Engine) *EnergyController {
	return &EnergyController{engine: eng}
}

// Status returns the user's lifetime total, today's gauge, and battery figures.
// Touching the status lazily opens the day, which is where a pending bonus
// gets granted.
func (e *EnergyController) Status(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40100, "unauthorized")
		return
	}

	status, err := e.engine.ComputeStatus(userID)
	if err != nil {
		utils.Sugar.Errorf("compute status failed user=%d err=%v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to compute status")
		return
	}

	utils.Success(ctx, status)
}

// SubmitActivity records one point-valued activity event. Points may be
// negative; the engine clamps the daily gauge, not the log.
func (e *EnergyController) SubmitActivity(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40100, "unauthorized")
		return
	}

	var req struct {
		Type   string `json:"type" binding:"required"`
		Points *int   `json:"points" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "type and points are required")
		return
	}

	result, err := e.engine.RecordActivity(userID, utils.Sanitize(req.Type), *req.Points)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidActivity) {
			utils.Error(ctx, http.StatusBadRequest, 40021, err.Error())
			return
		}
		utils.Sugar.Errorf("record activity failed user=%d err=%v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to record activity")
		return
	}

	// The ranking changed; drop the cached leaderboard.
	utils.CacheDelete(leaderboardCacheKey)

	utils.Success(ctx, result)
}

// ListToday returns today's activity entries, newest first.
func (e *EnergyController) ListToday(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40100, "unauthorized")
		return
	}

	entries, err := e.engine.ListToday(userID)
	if err != nil {
		utils.Sugar.Errorf("list today failed user=%d err=%v", userID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to list activities")
		return
	}

	utils.Success(ctx, gin.H{"items": entries})
}
