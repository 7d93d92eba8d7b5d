package handler

import (
	"github.com/TheBreeze12/lifehub-backend/internal/api/request"
	"github.com/TheBreeze12/lifehub-backend/internal/api/response"
	"github.com/TheBreeze12/lifehub-backend/internal/calllog"
	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"github.com/TheBreeze12/lifehub-backend/internal/repository"
	"github.com/gin-gonic/gin"
)

// AccountHandler serves spec.md §6's health-profile preferences,
// AI-call-log visibility, and account-deletion endpoints.
type AccountHandler struct {
	*BaseHandler
	userRepo   repository.UserRepository
	callLogs   calllog.Repository
	deleter    *repository.AccountDeleter
}

func NewAccountHandler(userRepo repository.UserRepository, callLogs calllog.Repository, deleter *repository.AccountDeleter) *AccountHandler {
	return &AccountHandler{BaseHandler: NewBaseHandler(), userRepo: userRepo, callLogs: callLogs, deleter: deleter}
}

func toPreferencesInfo(u *model.User) response.PreferencesInfo {
	allergens := make([]string, 0, len(u.Allergens))
	for _, a := range u.Allergens {
		if s, ok := a.(string); ok {
			allergens = append(allergens, s)
		}
	}
	return response.PreferencesInfo{
		HealthGoal: u.HealthGoal, Allergens: allergens,
		WeightKg: u.WeightKg, HeightCm: u.HeightCm, Age: u.Age, Gender: u.Gender,
	}
}

// GetPreferences handles GET /api/user/preferences.
func (h *AccountHandler) GetPreferences(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		h.InternalError(c, "查询用户信息失败")
		return
	}
	h.Success(c, toPreferencesInfo(user))
}

// UpdatePreferences handles PUT /api/user/preferences.
func (h *AccountHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	var req request.UpdatePreferencesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		h.InternalError(c, "查询用户信息失败")
		return
	}

	if req.HealthGoal != nil {
		user.HealthGoal = *req.HealthGoal
	}
	if req.Allergens != nil {
		slice := make(model.JSONSlice, 0, len(req.Allergens))
		for _, a := range req.Allergens {
			slice = append(slice, a)
		}
		user.Allergens = slice
	}
	if req.WeightKg != nil {
		user.WeightKg = req.WeightKg
	}
	if req.HeightCm != nil {
		user.HeightCm = req.HeightCm
	}
	if req.Age != nil {
		user.Age = req.Age
	}
	if req.Gender != nil {
		user.Gender = req.Gender
	}

	if err := h.userRepo.Update(c.Request.Context(), user); err != nil {
		h.InternalError(c, "更新健康画像失败")
		return
	}
	h.Success(c, toPreferencesInfo(user))
}

// ListAiLogs handles GET /api/user/ai-logs.
func (h *AccountHandler) ListAiLogs(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	var params request.AiLogsListParams
	_ = c.ShouldBindQuery(&params)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}

	logs, total, err := h.callLogs.List(userID, params.CallType, params.Limit, (params.Page-1)*params.Limit)
	if err != nil {
		h.InternalError(c, "查询AI调用日志失败")
		return
	}
	h.Success(c, gin.H{
		"logs":       logs,
		"pagination": h.BuildPaginationInfo(params.Page, params.Limit, total),
	})
}

// AiLogStats handles GET /api/user/ai-logs/stats.
func (h *AccountHandler) AiLogStats(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	stats, err := h.callLogs.Stats(userID)
	if err != nil {
		h.InternalError(c, "查询AI调用统计失败")
		return
	}
	h.Success(c, stats)
}

// DeleteAccountData handles DELETE /api/user/data: the "forget-me"
// cascading delete across every table the user owns.
func (h *AccountHandler) DeleteAccountData(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	counts, err := h.deleter.DeleteAccount(c.Request.Context(), userID)
	if err != nil {
		h.InternalError(c, "删除账户数据失败")
		return
	}
	h.Success(c, response.AccountDeletionInfo{DeletedCounts: counts})
}
