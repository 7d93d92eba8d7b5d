package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/TheBreeze12/lifehub-backend/internal/aiclient"
	"github.com/TheBreeze12/lifehub-backend/internal/model"
)

// MenuParallelism bounds concurrent per-dish analyses (spec.md §5).
const MenuParallelism = 5

// MenuAnalyzer recognizes dishes from a photo and scores each against a
// health goal (spec.md §4.7).
type MenuAnalyzer struct {
	adapter    *aiclient.Adapter
	visionCfg  *aiclient.Config
	nutrition  *NutritionAnalyzer
}

func NewMenuAnalyzer(adapter *aiclient.Adapter, visionCfg *aiclient.Config, nutrition *NutritionAnalyzer) *MenuAnalyzer {
	return &MenuAnalyzer{adapter: adapter, visionCfg: visionCfg, nutrition: nutrition}
}

// Recognize extracts dish names from imageData, analyzes each with
// bounded parallelism, and scores against healthGoal. Per-dish failures
// never fail the batch; order is preserved.
func (m *MenuAnalyzer) Recognize(ctx context.Context, imageDataURI string, healthGoal string) ([]model.RecognizedDish, error) {
	names, err := m.recognizeDishNames(ctx, imageDataURI)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}

	results := make([]model.RecognizedDish, len(names))

	sem := make(chan struct{}, MenuParallelism)
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(idx int, dishName string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = m.analyzeOneDish(ctx, dishName, healthGoal)
		}(i, name)
	}
	wg.Wait()

	return results, nil
}

func (m *MenuAnalyzer) analyzeOneDish(ctx context.Context, dishName string, healthGoal string) model.RecognizedDish {
	// NutritionAnalyzer.Analyze never errors: LLM/parse failures produce a
	// zero-macro result with a diagnostic recommendation. Such a result
	// becomes a non-recommended placeholder carrying that diagnostic as
	// its reason instead of being scored against the goal.
	nr := m.nutrition.Analyze(ctx, dishName)
	if nr.Calories == 0 && nr.Protein == 0 && nr.Fat == 0 && nr.Carbs == 0 {
		return model.RecognizedDish{Name: dishName, IsRecommended: false, Reason: nr.Recommendation}
	}
	recommend, reason := evaluateRecommendation(healthGoal, nr)

	return model.RecognizedDish{
		Name:          dishName,
		Calories:      nr.Calories,
		Protein:       nr.Protein,
		Fat:           nr.Fat,
		Carbs:         nr.Carbs,
		IsRecommended: recommend,
		Reason:        reason,
	}
}

// evaluateRecommendation applies the per-goal recommend/reject rules of
// spec.md §4.7's table, producing a neutral-tone message for ties.
func evaluateRecommendation(goal string, nr NutritionResult) (bool, string) {
	switch goal {
	case "reduce-fat":
		switch {
		case nr.Calories < 250 && nr.Protein > 15 && nr.Fat < 12:
			return true, "低热量高蛋白，适合减脂期食用"
		case nr.Calories > 400 || nr.Fat > 20:
			return false, "热量或脂肪偏高，减脂期建议谨慎食用"
		default:
			return false, "营养构成中等，建议适量食用"
		}
	case "gain-muscle":
		switch {
		case nr.Protein > 20:
			return true, "蛋白质含量高，有助于增肌"
		case nr.Protein < 10:
			return false, "蛋白质含量偏低，增肌效果有限"
		default:
			return false, "蛋白质含量中等，建议搭配其他高蛋白食物"
		}
	case "control-sugar":
		switch {
		case nr.Carbs < 20:
			return true, "碳水含量低，适合控糖"
		case nr.Carbs > 40:
			return false, "碳水含量较高，控糖期建议减少摄入"
		default:
			return false, "碳水含量中等，建议适量食用"
		}
	default: // balanced / unset
		if nr.Calories < 300 && nr.Fat < 15 {
			return true, "热量与脂肪均衡，适合日常食用"
		}
		return false, "热量或脂肪偏高，建议适量食用"
	}
}

func (m *MenuAnalyzer) recognizeDishNames(ctx context.Context, imageDataURI string) ([]string, error) {
	parts := []aiclient.ContentPart{
		{Type: "text", Text: "请识别这张图片中的所有菜品名称，仅返回一个JSON字符串数组，例如[\"番茄炒蛋\",\"米饭\"]，不要包含任何额外文字。"},
		{Type: "image_url", ImageDataURI: imageDataURI},
	}

	raw, err := m.adapter.GenerateMultimodal(ctx, model.CallTypeMenuRecognition, nil, parts, m.visionCfg)
	if err != nil {
		return nil, fmt.Errorf("menu recognition call failed: %w", err)
	}

	jsonStr := extractJSONArray(raw)
	if jsonStr == "" {
		return nil, fmt.Errorf("menu recognition: no JSON array in response")
	}

	var names []string
	if err := json.Unmarshal([]byte(jsonStr), &names); err != nil {
		return nil, fmt.Errorf("menu recognition: invalid JSON array: %w", err)
	}
	return names, nil
}
