package handler

import (
	"strconv"
	"time"

	"github.com/TheBreeze12/lifehub-backend/internal/allergen"
	"github.com/TheBreeze12/lifehub-backend/internal/analyzer"
	"github.com/TheBreeze12/lifehub-backend/internal/api/request"
	"github.com/TheBreeze12/lifehub-backend/internal/api/response"
	stderrors "github.com/TheBreeze12/lifehub-backend/internal/errors"
	"github.com/TheBreeze12/lifehub-backend/internal/mealdiff"
	"github.com/TheBreeze12/lifehub-backend/internal/middleware"
	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"github.com/TheBreeze12/lifehub-backend/internal/recommend"
	"github.com/TheBreeze12/lifehub-backend/internal/repository"
	"github.com/gin-gonic/gin"
)

// FoodHandler serves spec.md §6's food/nutrition endpoint group: single-dish
// analysis, menu-photo recognition, diet-record logging, allergen checks,
// the before/after meal-photo diff, and dish recommendations.
type FoodHandler struct {
	*BaseHandler
	nutrition   *analyzer.NutritionAnalyzer
	menu        *analyzer.MenuAnalyzer
	mealDiff    *mealdiff.Engine
	scorer      *recommend.Scorer
	dietRepo    repository.DietRecordRepository
	menuRepo    repository.MenuRecognitionRepository
	comparisonRepo repository.MealComparisonRepository
	userRepo    repository.UserRepository
	uploadRoot  string
}

func NewFoodHandler(
	nutrition *analyzer.NutritionAnalyzer,
	menu *analyzer.MenuAnalyzer,
	mealDiff *mealdiff.Engine,
	scorer *recommend.Scorer,
	dietRepo repository.DietRecordRepository,
	menuRepo repository.MenuRecognitionRepository,
	comparisonRepo repository.MealComparisonRepository,
	userRepo repository.UserRepository,
	uploadRoot string,
) *FoodHandler {
	return &FoodHandler{
		BaseHandler:    NewBaseHandler(),
		nutrition:      nutrition,
		menu:           menu,
		mealDiff:       mealDiff,
		scorer:         scorer,
		dietRepo:       dietRepo,
		menuRepo:       menuRepo,
		comparisonRepo: comparisonRepo,
		userRepo:       userRepo,
		uploadRoot:     uploadRoot,
	}
}

// AnalyzeFood handles POST /api/food/analyze (spec.md §4.6).
func (h *FoodHandler) AnalyzeFood(c *gin.Context) {
	var req request.AnalyzeFoodRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result := h.nutrition.Analyze(c.Request.Context(), req.FoodName)
	h.Success(c, toFoodAnalysisResponse(result))
}

func toFoodAnalysisResponse(r analyzer.NutritionResult) response.FoodAnalysisResponse {
	resp := response.FoodAnalysisResponse{
		Calories: r.Calories, Protein: r.Protein, Fat: r.Fat, Carbs: r.Carbs,
		Recommendation: r.Recommendation, Allergens: r.Allergens, AllergenReasoning: r.AllergenReasoning,
	}
	for _, cmc := range r.CookingMethodComparisons {
		resp.CookingMethodComparisons = append(resp.CookingMethodComparisons, response.CookingMethodComparison{
			Method: cmc.Method, Calories: cmc.Calories, Fat: cmc.Fat, Description: cmc.Description,
		})
	}
	return resp
}

// RecognizeMenu handles POST /api/food/recognize (multipart, spec.md §4.7).
func (h *FoodHandler) RecognizeMenu(c *gin.Context) {
	userID, authed := middleware.GetUserID(c)

	upload, err := saveImageUpload(c, h.uploadRoot, "image")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	healthGoal := "balanced"
	if authed {
		if user, err := h.userRepo.GetByID(c.Request.Context(), userID); err == nil && user != nil && user.HealthGoal != "" && user.HealthGoal != "unset" {
			healthGoal = user.HealthGoal
		}
	}

	dishes, err := h.menu.Recognize(c.Request.Context(), upload.DataURI, healthGoal)
	if err != nil {
		h.Error(c, err)
		return
	}

	record := &model.MenuRecognition{Dishes: toDishesJSON(dishes)}
	if authed {
		record.UserID = &userID
	}
	if err := h.menuRepo.Create(c.Request.Context(), record); err != nil {
		h.InternalError(c, "保存识别结果失败")
		return
	}

	h.Success(c, response.MenuRecognitionResponse{ID: record.ID, Dishes: toRecognizedDishResponses(dishes)})
}

func toDishesJSON(dishes []model.RecognizedDish) model.JSONSlice {
	out := make(model.JSONSlice, 0, len(dishes))
	for _, d := range dishes {
		out = append(out, map[string]interface{}{
			"name": d.Name, "calories": d.Calories, "protein": d.Protein,
			"fat": d.Fat, "carbs": d.Carbs, "isRecommended": d.IsRecommended, "reason": d.Reason,
		})
	}
	return out
}

func toRecognizedDishResponses(dishes []model.RecognizedDish) []response.RecognizedDish {
	out := make([]response.RecognizedDish, 0, len(dishes))
	for _, d := range dishes {
		out = append(out, response.RecognizedDish{
			Name: d.Name, Calories: d.Calories, Protein: d.Protein, Fat: d.Fat, Carbs: d.Carbs,
			IsRecommended: d.IsRecommended, Reason: d.Reason,
		})
	}
	return out
}

// LatestRecognition handles GET /api/food/latest-recognition.
func (h *FoodHandler) LatestRecognition(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	record, err := h.menuRepo.LatestByUserID(c.Request.Context(), userID)
	if err != nil {
		h.InternalError(c, "查询识别记录失败")
		return
	}
	if record == nil {
		h.NotFound(c, "暂无识别记录")
		return
	}

	dishes := make([]response.RecognizedDish, 0, len(record.Dishes))
	for _, raw := range record.Dishes {
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		dishes = append(dishes, response.RecognizedDish{
			Name:          coerceStr(m["name"]),
			Calories:      coerceF(m["calories"]),
			Protein:       coerceF(m["protein"]),
			Fat:           coerceF(m["fat"]),
			Carbs:         coerceF(m["carbs"]),
			IsRecommended: coerceBool(m["isRecommended"]),
			Reason:        coerceStr(m["reason"]),
		})
	}
	h.Success(c, response.MenuRecognitionResponse{ID: record.ID, Dishes: dishes})
}

func coerceStr(v interface{}) string {
	s, _ := v.(string)
	return s
}
func coerceF(v interface{}) float64 {
	f, _ := v.(float64)
	return f
}
func coerceBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

// RecordDiet handles POST /api/food/record.
func (h *FoodHandler) RecordDiet(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	var req request.RecordDietRequest
	if !h.BindJSON(c, &req) {
		return
	}

	recordDate, err := time.Parse("2006-01-02", req.RecordDate)
	if err != nil {
		h.BadRequest(c, "无效的日期格式")
		return
	}
	if recordDate.After(time.Now().Add(model.MaxFutureHorizon)) {
		h.BadRequest(c, "记录日期不能超过未来24小时")
		return
	}

	rec := &model.DietRecord{
		UserID: userID, DishName: req.DishName, Calories: req.Calories,
		Protein: req.Protein, Fat: req.Fat, Carbs: req.Carbs,
		MealSlot: req.MealSlot, RecordDate: recordDate,
	}
	if err := h.dietRepo.Create(c.Request.Context(), rec); err != nil {
		h.InternalError(c, "保存饮食记录失败")
		return
	}

	h.Created(c, toDietRecordInfo(rec))
}

func toDietRecordInfo(r *model.DietRecord) response.DietRecordInfo {
	return response.DietRecordInfo{
		ID: r.ID, DishName: r.DishName, Calories: r.Calories, Protein: r.Protein,
		Fat: r.Fat, Carbs: r.Carbs, MealSlot: r.MealSlot,
		RecordDate: r.RecordDate.Format("2006-01-02"), CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

// ListDietRecords handles GET /api/food/records.
func (h *FoodHandler) ListDietRecords(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	var params request.DietRecordListParams
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

	records, err := h.dietRepo.ListByUserAndDateRange(c.Request.Context(), userID, start, end)
	if err != nil {
		h.InternalError(c, "查询饮食记录失败")
		return
	}

	infos := make([]response.DietRecordInfo, 0, len(records))
	for _, r := range records {
		infos = append(infos, toDietRecordInfo(r))
	}
	h.Success(c, gin.H{"records": infos})
}

// GetDietRecord handles GET /api/food/record/:id.
func (h *FoodHandler) GetDietRecord(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.BadRequest(c, "无效的记录ID")
		return
	}

	rec, err := h.dietRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.InternalError(c, "查询饮食记录失败")
		return
	}
	if rec == nil || rec.UserID != userID {
		h.NotFound(c, "记录不存在")
		return
	}
	h.Success(c, toDietRecordInfo(rec))
}

// CheckAllergen handles POST /api/food/allergen/check (spec.md §4.9).
func (h *FoodHandler) CheckAllergen(c *gin.Context) {
	var req request.AllergenCheckRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var userAllergens []string
	if userID, ok := middleware.GetUserID(c); ok {
		if user, err := h.userRepo.GetByID(c.Request.Context(), userID); err == nil && user != nil {
			for _, a := range user.Allergens {
				if s, ok := a.(string); ok {
					userAllergens = append(userAllergens, s)
				}
			}
		}
	}

	result := allergen.Check(req.FoodName, req.Ingredients, userAllergens)
	h.Success(c, toAllergenCheckResponse(result.DetectedAllergens, result.Warnings, result.HasAllergens, result.HasWarnings))
}

func toAllergenCheckResponse(findings []allergen.Finding, warnings []string, hasAllergens, hasWarnings bool) response.AllergenCheckResponse {
	resp := response.AllergenCheckResponse{Warnings: warnings, HasAllergens: hasAllergens, HasWarnings: hasWarnings}
	for _, f := range findings {
		resp.DetectedAllergens = append(resp.DetectedAllergens, response.AllergenFinding{
			Code: string(f.Code), Name: f.Name, Source: "keyword", Confidence: f.Confidence,
		})
	}
	return resp
}

// ListAllergenCategories handles GET /api/food/allergen/categories.
func (h *FoodHandler) ListAllergenCategories(c *gin.Context) {
	infos := make([]response.AllergenCategoryInfo, 0, len(allergen.Catalog))
	for _, cat := range allergen.Catalog {
		infos = append(infos, response.AllergenCategoryInfo{
			Code: string(cat.Code), NameEN: cat.NameEN, NameCN: cat.NameCN, Description: cat.Description,
		})
	}
	h.Success(c, gin.H{"categories": infos})
}

// CreateMealBefore handles POST /api/food/meal/before (multipart, spec.md §4.8).
func (h *FoodHandler) CreateMealBefore(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	upload, err := saveImageUpload(c, h.uploadRoot, "image")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	mc, err := h.mealDiff.CreateBefore(c.Request.Context(), userID, upload.URI, upload.DataURI)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, toMealComparisonResponse(mc))
}

// CompleteMealAfter handles POST /api/food/meal/after/:comparison_id
// (multipart, spec.md §4.8).
func (h *FoodHandler) CompleteMealAfter(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("comparison_id"), 10, 64)
	if err != nil {
		h.BadRequest(c, "无效的记录ID")
		return
	}

	upload, err := saveImageUpload(c, h.uploadRoot, "image")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	mc, err := h.mealDiff.CompleteAfter(c.Request.Context(), id, userID, upload.URI, upload.DataURI)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, toMealComparisonResponse(mc))
}

// AdjustMealComparison handles PUT /api/food/meal/:comparison_id/adjust
// (spec.md §4.8 manual override).
func (h *FoodHandler) AdjustMealComparison(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("comparison_id"), 10, 64)
	if err != nil {
		h.BadRequest(c, "无效的记录ID")
		return
	}

	var req request.AdjustMealComparisonRequest
	if !h.BindJSON(c, &req) {
		return
	}

	mc, err := h.mealDiff.Adjust(c.Request.Context(), id, userID, req.ConsumptionRatio)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, toMealComparisonResponse(mc))
}

func toMealComparisonResponse(mc *model.MealComparison) response.MealComparisonResponse {
	resp := response.MealComparisonResponse{
		ID: mc.ID, Status: mc.Status, BeforeImageURI: mc.BeforeImageURI,
		ConsumptionRatio: mc.ConsumptionRatio,
		OriginalCalories: mc.OriginalCalories, OriginalProtein: mc.OriginalProtein,
		OriginalFat: mc.OriginalFat, OriginalCarbs: mc.OriginalCarbs,
		NetCalories: mc.NetCalories, NetProtein: mc.NetProtein, NetFat: mc.NetFat, NetCarbs: mc.NetCarbs,
		CreatedAt: mc.CreatedAt.Format(time.RFC3339),
	}
	if mc.AfterImageURI != nil {
		resp.AfterImageURI = *mc.AfterImageURI
	}
	if mc.Narrative != nil {
		resp.Narrative = *mc.Narrative
	}
	return resp
}

// RecommendFood handles GET /api/food/recommend (spec.md §4.13).
func (h *FoodHandler) RecommendFood(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	var params request.RecommendFoodParams
	if !h.BindQuery(c, &params) {
		return
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 5
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		h.NotFound(c, "用户不存在")
		return
	}

	recs, err := h.scorer.Recommend(c.Request.Context(), user, params.MealType, limit, time.Now())
	if err != nil {
		h.Error(c, stderrors.InternalError("生成推荐失败"))
		return
	}

	infos := make([]response.RecommendationInfo, 0, len(recs))
	for _, r := range recs {
		infos = append(infos, response.RecommendationInfo{
			FoodName: r.FoodName, Calories: r.Calories, Protein: r.Protein, Fat: r.Fat, Carbs: r.Carbs,
			Score: r.Score, Reason: r.Reason, Tags: r.Tags,
		})
	}
	h.Success(c, gin.H{"recommendations": infos})
}
