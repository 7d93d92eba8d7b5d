package handler

import (
	"strconv"
	"time"

	"github.com/TheBreeze12/lifehub-backend/internal/repository"
	"github.com/TheBreeze12/lifehub-backend/internal/stats"
	"github.com/gin-gonic/gin"
)

// StatsHandler serves spec.md §6's read-only aggregate-stats endpoints.
// Its responses are the stats package's own structs directly — they are
// already plain value types with json tags, not GORM models, so no
// separate response DTO layer is needed.
type StatsHandler struct {
	*BaseHandler
	aggregator *stats.Aggregator
	userRepo   repository.UserRepository
}

func NewStatsHandler(aggregator *stats.Aggregator, userRepo repository.UserRepository) *StatsHandler {
	return &StatsHandler{BaseHandler: NewBaseHandler(), aggregator: aggregator, userRepo: userRepo}
}

func (h *StatsHandler) parseDateParam(c *gin.Context, name string, fallback time.Time) time.Time {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return fallback
	}
	return t
}

// DailyCalories handles GET /api/stats/calories/daily.
func (h *StatsHandler) DailyCalories(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	date := h.parseDateParam(c, "date", time.Now())

	balance, err := h.aggregator.DailyEnergyBalance(c.Request.Context(), userID, date)
	if err != nil {
		h.InternalError(c, "查询每日热量统计失败")
		return
	}
	h.Success(c, balance)
}

// WeeklyCalories handles GET /api/stats/calories/weekly.
func (h *StatsHandler) WeeklyCalories(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	weekStart := h.parseDateParam(c, "week_start", time.Now().AddDate(0, 0, -6))

	weekly, err := h.aggregator.WeeklyEnergyBalance(c.Request.Context(), userID, weekStart)
	if err != nil {
		h.InternalError(c, "查询每周热量统计失败")
		return
	}
	h.Success(c, weekly)
}

// DailyNutrients handles GET /api/stats/nutrients/daily.
func (h *StatsHandler) DailyNutrients(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	date := h.parseDateParam(c, "date", time.Now())

	n, err := h.aggregator.DailyNutrients(c.Request.Context(), userID, date)
	if err != nil {
		h.InternalError(c, "查询每日营养素统计失败")
		return
	}
	h.Success(c, n)
}

// GoalProgress handles GET /api/stats/goal-progress.
func (h *StatsHandler) GoalProgress(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		h.InternalError(c, "查询用户信息失败")
		return
	}

	days := 0
	if raw := c.Query("days"); raw != "" {
		if parsed, perr := strconv.Atoi(raw); perr == nil {
			days = parsed
		}
	}

	progress, err := h.aggregator.GoalProgress(c.Request.Context(), userID, user, time.Now(), days)
	if err != nil {
		h.InternalError(c, "查询目标进度失败")
		return
	}
	h.Success(c, progress)
}

// ExerciseFrequency handles GET /api/stats/exercise-frequency.
func (h *StatsHandler) ExerciseFrequency(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	period := c.DefaultQuery("period", "week")
	if period != "week" && period != "month" {
		period = "week"
	}

	freq, err := h.aggregator.ExerciseFrequency(c.Request.Context(), userID, period, time.Now())
	if err != nil {
		h.InternalError(c, "查询运动频率统计失败")
		return
	}
	h.Success(c, freq)
}
