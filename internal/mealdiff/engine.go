// Package mealdiff implements spec.md §4.8: the before/after meal-photo
// diff state machine, its manual-override recomputation, and the
// documented failure policy that never refuses to complete a record
// once both images are in hand.
//
// Grounded on the source backend's NutritionPlan/TrainingRecord
// status-enum + JSON-column persistence pattern, generalized into a
// two-step state machine, with the `extractJSON` balanced-brace scanner
// from ai_service.go ported locally.
package mealdiff

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/TheBreeze12/lifehub-backend/internal/aiclient"
	stderrors "github.com/TheBreeze12/lifehub-backend/internal/errors"
	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"github.com/TheBreeze12/lifehub-backend/internal/repository"
)

// Engine runs the before/after diff state machine.
type Engine struct {
	adapter *aiclient.Adapter
	cfg     *aiclient.Config
	repo    repository.MealComparisonRepository
}

func NewEngine(adapter *aiclient.Adapter, cfg *aiclient.Config, repo repository.MealComparisonRepository) *Engine {
	return &Engine{adapter: adapter, cfg: cfg, repo: repo}
}

// CreateBefore runs the before-phase: extract per-dish features from the
// first photo and persist a pending-after record. There is no
// documented fallback here (unlike the after-phase) because without
// before-features the record has nothing meaningful to compare against.
func (e *Engine) CreateBefore(ctx context.Context, userID int64, beforeImageURI, beforeImageDataURI string) (*model.MealComparison, error) {
	parts := []aiclient.ContentPart{
		{Type: "text", Text: beforeFeaturePrompt},
		{Type: "image_url", ImageDataURI: beforeImageDataURI},
	}

	raw, err := e.adapter.GenerateMultimodal(ctx, model.CallTypeMealComparison, &userID, parts, e.cfg)
	if err != nil {
		return nil, stderrors.UpstreamError(fmt.Sprintf("无法识别餐前照片：%v", err))
	}

	jsonStr := extractJSON(raw)
	var payload model.BeforeFeaturePayload
	if jsonStr == "" || json.Unmarshal([]byte(jsonStr), &payload) != nil {
		return nil, stderrors.UpstreamError("餐前照片识别结果无法解析")
	}

	featuresMap, err := toJSONMap(payload)
	if err != nil {
		return nil, stderrors.InternalError("序列化餐前特征失败")
	}

	mc := &model.MealComparison{
		UserID:           userID,
		Status:           model.MealComparisonPendingAfter,
		BeforeImageURI:   beforeImageURI,
		BeforeFeatures:   featuresMap,
		OriginalCalories: payload.Totals.Calories,
		OriginalProtein:  payload.Totals.Protein,
		OriginalFat:      payload.Totals.Fat,
		OriginalCarbs:    payload.Totals.Carbs,
	}

	if err := e.repo.Create(ctx, mc); err != nil {
		return nil, stderrors.InternalError("保存餐前记录失败")
	}
	return mc, nil
}

// CompleteAfter runs the after-phase: compare the after photo against
// the stored before-features and finalize the record. On any LLM
// failure it substitutes DefaultConsumptionRatio and a diagnostic
// narrative instead of refusing — spec.md §4.8's failure policy.
func (e *Engine) CompleteAfter(ctx context.Context, id, userID int64, afterImageURI, afterImageDataURI string) (*model.MealComparison, error) {
	mc, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return nil, stderrors.InternalError("查询记录失败")
	}
	if mc == nil || mc.UserID != userID {
		return nil, stderrors.NotFoundError("记录不存在")
	}
	if mc.Status != model.MealComparisonPendingAfter {
		return nil, stderrors.ConflictError("记录当前状态不支持完成操作")
	}

	ratio, afterPayload, afterFeaturesMap, narrative := e.runAfterComparison(ctx, userID, mc, afterImageDataURI)

	mc.AfterImageURI = &afterImageURI
	mc.AfterFeatures = afterFeaturesMap
	mc.ConsumptionRatio = &ratio
	mc.Narrative = &narrative
	mc.Status = model.MealComparisonCompleted
	applyNetMacros(mc, ratio)
	_ = afterPayload

	if err := e.repo.Update(ctx, mc); err != nil {
		return nil, stderrors.InternalError("保存餐后记录失败")
	}
	return mc, nil
}

// runAfterComparison calls the multimodal comparison and returns the
// clamped consumption ratio, parsed payload (best-effort), persisted
// after-features, and narrative — falling back to the documented
// default on any failure.
func (e *Engine) runAfterComparison(ctx context.Context, userID int64, mc *model.MealComparison, afterImageDataURI string) (float64, *model.AfterFeaturePayload, model.JSONMap, string) {
	parts := []aiclient.ContentPart{
		{Type: "text", Text: afterComparisonPrompt},
		{Type: "image_url", ImageDataURI: afterImageDataURI},
	}

	raw, err := e.adapter.GenerateMultimodal(ctx, model.CallTypeMealComparison, &userID, parts, e.cfg)
	if err != nil {
		return model.DefaultConsumptionRatio, nil, model.JSONMap{}, "餐后对比分析暂不可用，已按默认比例75%估算剩余消耗"
	}

	jsonStr := extractJSON(raw)
	var payload model.AfterFeaturePayload
	if jsonStr == "" || json.Unmarshal([]byte(jsonStr), &payload) != nil {
		return model.DefaultConsumptionRatio, nil, model.JSONMap{}, "餐后对比结果无法解析，已按默认比例75%估算剩余消耗"
	}

	for i := range payload.Dishes {
		payload.Dishes[i].RemainingRatio = clamp01(payload.Dishes[i].RemainingRatio)
	}
	overall := clamp01(payload.OverallRemainingRatio)
	ratio := clamp01(1 - overall)

	featuresMap, err := toJSONMap(payload)
	if err != nil {
		featuresMap = model.JSONMap{}
	}

	return ratio, &payload, featuresMap, payload.ComparisonAnalysis
}

// Adjust is the manual override: it recomputes every net_* field from
// newRatio without re-calling the model.
func (e *Engine) Adjust(ctx context.Context, id, userID int64, newRatio float64) (*model.MealComparison, error) {
	mc, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return nil, stderrors.InternalError("查询记录失败")
	}
	if mc == nil || mc.UserID != userID {
		return nil, stderrors.NotFoundError("记录不存在")
	}
	if mc.Status != model.MealComparisonCompleted {
		return nil, stderrors.ConflictError("记录尚未完成对比，无法手动调整")
	}

	ratio := clamp01(newRatio)
	mc.ConsumptionRatio = &ratio
	applyNetMacros(mc, ratio)

	if err := e.repo.Update(ctx, mc); err != nil {
		return nil, stderrors.InternalError("保存调整结果失败")
	}
	return mc, nil
}

func applyNetMacros(mc *model.MealComparison, ratio float64) {
	cal := mc.OriginalCalories * ratio
	pro := mc.OriginalProtein * ratio
	fat := mc.OriginalFat * ratio
	carbs := mc.OriginalCarbs * ratio
	mc.NetCalories = &cal
	mc.NetProtein = &pro
	mc.NetFat = &fat
	mc.NetCarbs = &carbs
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func toJSONMap(v interface{}) (model.JSONMap, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m model.JSONMap
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

const beforeFeaturePrompt = `请分析这张餐前照片中的每道菜品，估算重量(克)、热量、蛋白质、脂肪、碳水，并给出总计。仅返回如下结构的JSON对象：
{"dishes":[{"name":"...","weight":200,"calories":300,"protein":15,"fat":10,"carbs":30}],"totals":{"calories":300,"protein":15,"fat":10,"carbs":30}}`

const afterComparisonPrompt = `请将这张餐后照片与此前记录的餐前菜品逐一比较，估算每道菜剩余比例(0-1)，以及整体剩余比例。仅返回如下结构的JSON对象：
{"dishes":[{"name":"...","remaining_ratio":0.2,"remaining_weight":40}],"overall_remaining_ratio":0.25,"consumption_ratio":0.75,"comparison_analysis":"..."}`

// extractJSON finds the first balanced {...} span in s.
func extractJSON(s string) string {
	start, end, depth := -1, -1, 0
	for i, c := range s {
		switch c {
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 && start != -1 {
				end = i + 1
				return s[start:end]
			}
		}
	}
	return ""
}
