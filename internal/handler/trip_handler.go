package handler

import (
	"strconv"
	"time"

	"github.com/TheBreeze12/lifehub-backend/internal/analyzer"
	"github.com/TheBreeze12/lifehub-backend/internal/api/request"
	"github.com/TheBreeze12/lifehub-backend/internal/api/response"
	"github.com/TheBreeze12/lifehub-backend/internal/mets"
	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"github.com/TheBreeze12/lifehub-backend/internal/repository"
	"github.com/gin-gonic/gin"
)

// TripHandler serves spec.md §6's exercise/trip endpoint group: two-stage
// trip-plan generation and logged-exercise CRUD.
type TripHandler struct {
	*BaseHandler
	generator *analyzer.ExerciseIntentGenerator
	tripRepo  repository.TripRepository
	exRepo    repository.ExerciseRecordRepository
	userRepo  repository.UserRepository
}

func NewTripHandler(
	generator *analyzer.ExerciseIntentGenerator,
	tripRepo repository.TripRepository,
	exRepo repository.ExerciseRecordRepository,
	userRepo repository.UserRepository,
) *TripHandler {
	return &TripHandler{
		BaseHandler: NewBaseHandler(), generator: generator,
		tripRepo: tripRepo, exRepo: exRepo, userRepo: userRepo,
	}
}

// GenerateTrip handles POST /api/trip/generate (spec.md §4.10).
func (h *TripHandler) GenerateTrip(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	var req request.GenerateTripRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var loc *analyzer.LatLon
	if req.Lat != nil && req.Lon != nil {
		loc = &analyzer.LatLon{Lat: *req.Lat, Lon: *req.Lon}
	}

	intent, err := h.generator.ExtractIntent(c.Request.Context(), req.Query, req.CaloriesIntake, req.Preferences, loc)
	if err != nil {
		h.Error(c, err)
		return
	}
	plan := h.generator.GeneratePlan(c.Request.Context(), intent, req.Query)

	weightKg := mets.DefaultWeightKg
	if user, err := h.userRepo.GetByID(c.Request.Context(), userID); err == nil && user != nil {
		weightKg = user.BodyParamsOrDefault().WeightKg
	}

	items := make([]model.TripItem, 0, len(plan.Items))
	for i, it := range plan.Items {
		enriched := mets.Enrich(it.PlaceType, weightKg, float64(it.Duration))
		items = append(items, model.TripItem{
			DayIndex: it.DayIndex, StartTime: it.StartTime, PlaceName: it.PlaceName,
			ExerciseType: it.PlaceType, DurationMinutes: it.Duration,
			EstimatedCalories: enriched.Calories, SortOrder: i,
			Notes: nonEmptyPtr(it.Notes),
		})
	}

	tripPlan := &model.TripPlan{
		UserID: userID, Title: plan.Title, Destination: plan.Destination,
		StartDate: plan.StartDate, EndDate: plan.EndDate, Status: "planning", Items: items,
	}
	if err := h.tripRepo.CreatePlan(c.Request.Context(), tripPlan); err != nil {
		h.InternalError(c, "保存运动计划失败")
		return
	}

	h.Created(c, toTripPlanInfo(tripPlan))
}

func nonEmptyPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toTripPlanInfo(p *model.TripPlan) response.TripPlanInfo {
	info := response.TripPlanInfo{
		ID: p.ID, Title: p.Title, Destination: p.Destination,
		StartDate: p.StartDate.Format("2006-01-02"), EndDate: p.EndDate.Format("2006-01-02"),
		Status: p.Status, CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
	for _, it := range p.Items {
		itemInfo := response.TripItemInfo{
			ID: it.ID, DayIndex: it.DayIndex, StartTime: it.StartTime, PlaceName: it.PlaceName,
			ExerciseType: it.ExerciseType, DurationMinutes: it.DurationMinutes,
			EstimatedCalories: it.EstimatedCalories,
		}
		if it.Notes != nil {
			itemInfo.Notes = *it.Notes
		}
		info.Items = append(info.Items, itemInfo)
	}
	return info
}

// ListTripPlans handles GET /api/trip/list.
func (h *TripHandler) ListTripPlans(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	plans, err := h.tripRepo.ListPlansByUser(c.Request.Context(), userID)
	if err != nil {
		h.InternalError(c, "查询运动计划失败")
		return
	}
	infos := make([]response.TripPlanInfo, 0, len(plans))
	for _, p := range plans {
		infos = append(infos, toTripPlanInfo(p))
	}
	h.Success(c, gin.H{"plans": infos})
}

// RecentTripPlans handles GET /api/trip/recent: up to three of the user's
// plans with the latest start dates, or an empty list when none exist.
func (h *TripHandler) RecentTripPlans(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	plans, err := h.tripRepo.ListPlansByUser(c.Request.Context(), userID)
	if err != nil {
		h.InternalError(c, "查询运动计划失败")
		return
	}
	if len(plans) > 3 {
		plans = plans[:3]
	}
	infos := make([]response.TripPlanInfo, 0, len(plans))
	for _, p := range plans {
		infos = append(infos, toTripPlanInfo(p))
	}
	h.Success(c, gin.H{"plans": infos})
}

// HomeTripSummary handles GET /api/trip/home: today's covering items plus
// the single most recent plan, for the landing-page widget.
func (h *TripHandler) HomeTripSummary(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	items, err := h.tripRepo.ItemsCoveringDate(c.Request.Context(), userID, time.Now())
	if err != nil {
		h.InternalError(c, "查询今日安排失败")
		return
	}

	plans, err := h.tripRepo.ListPlansByUser(c.Request.Context(), userID)
	if err != nil {
		h.InternalError(c, "查询运动计划失败")
		return
	}

	todayItems := make([]response.TripItemInfo, 0, len(items))
	for _, it := range items {
		todayItems = append(todayItems, response.TripItemInfo{
			ID: it.ID, DayIndex: it.DayIndex, StartTime: it.StartTime, PlaceName: it.PlaceName,
			ExerciseType: it.ExerciseType, DurationMinutes: it.DurationMinutes, EstimatedCalories: it.EstimatedCalories,
		})
	}

	resp := gin.H{"today_items": todayItems}
	if len(plans) > 0 {
		resp["latest_plan"] = toTripPlanInfo(plans[0])
	}
	h.Success(c, resp)
}

// GetTripPlan handles GET /api/trip/:id.
func (h *TripHandler) GetTripPlan(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.BadRequest(c, "无效的计划ID")
		return
	}
	plan, err := h.tripRepo.GetPlanByID(c.Request.Context(), id)
	if err != nil {
		h.InternalError(c, "查询运动计划失败")
		return
	}
	if plan == nil || plan.UserID != userID {
		h.NotFound(c, "计划不存在")
		return
	}
	h.Success(c, toTripPlanInfo(plan))
}

// RecordExercise handles POST /api/exercise/record.
func (h *TripHandler) RecordExercise(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	var req request.RecordExerciseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	exerciseDate, err := time.Parse("2006-01-02", req.ExerciseDate)
	if err != nil {
		h.BadRequest(c, "无效的日期格式")
		return
	}

	rec := &model.ExerciseRecord{
		UserID: userID, ExerciseType: req.ExerciseType, ActualCalories: req.ActualCalories,
		ActualDuration: req.ActualDuration, DistanceKm: req.DistanceKm, TripPlanID: req.TripPlanID,
		PlannedCalories: req.PlannedCalories, PlannedDuration: req.PlannedDuration,
		ExerciseDate: exerciseDate, Notes: req.Notes,
	}
	if rec.ActualCalories == 0 {
		rec.ActualCalories = mets.Calories(req.ExerciseType, mets.DefaultWeightKg, float64(req.ActualDuration))
	}

	if err := h.exRepo.Create(c.Request.Context(), rec); err != nil {
		h.InternalError(c, "保存运动记录失败")
		return
	}
	h.Created(c, toExerciseRecordInfo(rec))
}

func toExerciseRecordInfo(r *model.ExerciseRecord) response.ExerciseRecordInfo {
	return response.ExerciseRecordInfo{
		ID: r.ID, ExerciseType: r.ExerciseType, ActualCalories: r.ActualCalories,
		ActualDuration: r.ActualDuration, DistanceKm: r.DistanceKm, TripPlanID: r.TripPlanID,
		PlannedCalories: r.PlannedCalories, AchievementRate: r.AchievementRate(),
		ExerciseDate: r.ExerciseDate.Format("2006-01-02"), CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

// ListExerciseRecords handles GET /api/exercise/records.
func (h *TripHandler) ListExerciseRecords(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	var params request.ExerciseRecordListParams
	_ = c.ShouldBindQuery(&params)

	start, end := time.Now().AddDate(0, 0, -30), time.Now()
	if params.StartDate != "" {
		if t, err := time.Parse("2006-01-02", params.StartDate); err == nil {
			start = t
		}
	}
	if params.EndDate != "" {
		if t, err := time.Parse("2006-01-02", params.EndDate); err == nil {
			end = t
		}
	}

	records, err := h.exRepo.ListByUserAndDateRange(c.Request.Context(), userID, start, end)
	if err != nil {
		h.InternalError(c, "查询运动记录失败")
		return
	}
	infos := make([]response.ExerciseRecordInfo, 0, len(records))
	for _, r := range records {
		infos = append(infos, toExerciseRecordInfo(r))
	}
	h.Success(c, gin.H{"records": infos})
}

// GetExerciseRecord handles GET /api/exercise/record/:id.
func (h *TripHandler) GetExerciseRecord(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.BadRequest(c, "无效的记录ID")
		return
	}
	rec, err := h.exRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.InternalError(c, "查询运动记录失败")
		return
	}
	if rec == nil || rec.UserID != userID {
		h.NotFound(c, "记录不存在")
		return
	}
	h.Success(c, toExerciseRecordInfo(rec))
}
