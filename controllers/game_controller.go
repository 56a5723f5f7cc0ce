package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storemate/storemate/services"
	"github.com/storemate/storemate/utils"
)

// GameController exposes the progression engine over HTTP.
type GameController struct {
	Engine   *services.Engine
	CacheTTL time.Duration
}

func NewGameController(engine *services.Engine, cacheTTL time.Duration) *GameController {
	return &GameController{Engine: engine, CacheTTL: cacheTTL}
}

type checkinRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	DisplayName string `json:"display_name"`
}

type actionRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	DisplayName string `json:"display_name"`
	ActionType  string `json:"action_type" binding:"required"`
}

type drawRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	DisplayName string `json:"display_name"`
	LuckyValue  int    `json:"lucky_value"`
}

type badgeRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	DisplayName string `json:"display_name"`
	BadgeCode   string `json:"badge_code" binding:"required"`
}

type grantXPRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	DisplayName string `json:"display_name"`
	Amount      int    `json:"amount" binding:"required"`
	ActionType  string `json:"action_type" binding:"required"`
	Description string `json:"description"`
}

// CheckIn handles POST /game/checkin. Checking in twice on the same calendar
// day returns the unchanged state with already_checked_in set.
func (gc *GameController) CheckIn(c *gin.Context) {
	var req checkinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, 40001, "リクエスト形式が不正です")
		return
	}

	res, err := gc.Engine.CheckIn(c.Request.Context(), req.UserID, utils.Sanitize(req.DisplayName), time.Now())
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.Success(c, res)
}

// RecordAction handles POST /game/actions for product register/remove events.
func (gc *GameController) RecordAction(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, 40001, "リクエスト形式が不正です")
		return
	}

	res, err := gc.Engine.RecordAction(c.Request.Context(), req.UserID, utils.Sanitize(req.DisplayName), req.ActionType, time.Now())
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.Success(c, res)
}

// RecordDraw handles POST /game/draws for fortune-card draw signals.
func (gc *GameController) RecordDraw(c *gin.Context) {
	var req drawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, 40001, "リクエスト形式が不正です")
		return
	}

	res, err := gc.Engine.RecordDraw(c.Request.Context(), req.UserID, utils.Sanitize(req.DisplayName), req.LuckyValue, time.Now())
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.Success(c, res)
}

// AwardBadge handles POST /game/badges for explicit badge grants.
func (gc *GameController) AwardBadge(c *gin.Context) {
	var req badgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, 40001, "リクエスト形式が不正です")
		return
	}

	res, err := gc.Engine.AwardBadge(c.Request.Context(), req.UserID, utils.Sanitize(req.DisplayName), req.BadgeCode, time.Now())
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.Success(c, res)
}

// GrantXP handles POST /game/xp for direct XP grants from trusted callers.
func (gc *GameController) GrantXP(c *gin.Context) {
	var req grantXPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, 40001, "リクエスト形式が不正です")
		return
	}

	res, err := gc.Engine.GrantXP(c.Request.Context(), req.UserID, utils.Sanitize(req.DisplayName), req.Amount, req.ActionType, req.Description, time.Now())
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.Success(c, res)
}

// GetUser handles GET /game/users/:id.
func (gc *GameController) GetUser(c *gin.Context) {
	userID := c.Param("id")
	data, err := gc.Engine.GetUserGameData(c.Request.Context(), userID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.Success(c, data)
}

// GetLeaderboard handles GET /game/leaderboard?window=all|weekly|monthly&limit=N.
// Results are cached in Redis for a short TTL since the ranking query scans
// the ledger for windowed boards.
func (gc *GameController) GetLeaderboard(c *gin.Context) {
	window := c.DefaultQuery("window", services.WindowAll)
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.Error(c, http.StatusBadRequest, 40001, "limitは整数で指定してください")
			return
		}
		limit = n
	}

	cacheKey := fmt.Sprintf("lb:%s:%d", window, limit)
	var cached []services.LeaderboardEntry
	if utils.CacheGetJSON(c.Request.Context(), cacheKey, &cached) {
		utils.Success(c, cached)
		return
	}

	entries, err := gc.Engine.GetLeaderboard(c.Request.Context(), window, limit, time.Now())
	if err != nil {
		respondEngineError(c, err)
		return
	}

	utils.CacheSetJSON(c.Request.Context(), cacheKey, entries, gc.CacheTTL)
	utils.Success(c, entries)
}

// GetDailyReport handles GET /game/report/daily?date=YYYY-MM-DD, defaulting
// to today.
func (gc *GameController) GetDailyReport(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		// The engine truncates days in its configured zone; the query date
		// must be read in that same zone or the report shifts a day.
		parsed, err := time.ParseInLocation("2006-01-02", raw, gc.Engine.Location())
		if err != nil {
			utils.Error(c, http.StatusBadRequest, 40001, "dateはYYYY-MM-DD形式で指定してください")
			return
		}
		day = parsed
	}

	report, err := gc.Engine.GetDailyReport(c.Request.Context(), day)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.Success(c, report)
}

// respondEngineError maps the engine error taxonomy onto HTTP statuses and
// app codes. Unclassified errors stay generic so internals never leak.
func respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		utils.Error(c, http.StatusBadRequest, 40001, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.Error(c, http.StatusNotFound, 40401, "対象が見つかりません")
	case errors.Is(err, services.ErrConflict):
		utils.Error(c, http.StatusConflict, 40901, "競合が発生しました。もう一度お試しください")
	case errors.Is(err, services.ErrStorageUnavailable):
		utils.Sugar.Errorw("storage unavailable", "err", err)
		utils.Error(c, http.StatusServiceUnavailable, 50301, "一時的に利用できません。しばらくしてからお試しください")
	default:
		utils.Sugar.Errorw("unexpected engine error", "err", err)
		utils.Error(c, http.StatusInternalServerError, 50001, "内部エラーが発生しました")
	}
}
