package analyzer

import (
	"context"
	"testing"

	"github.com/TheBreeze12/lifehub-backend/internal/aiclient"
	"github.com/stretchr/testify/assert"
)

// multiStubVendor returns one response for the multimodal dish-list call
// and another for the text per-dish analysis calls.
type multiStubVendor struct {
	listResponse string
	dishResponse string
}

func (v *multiStubVendor) Call(ctx context.Context, prompt string, cfg *aiclient.Config) (string, error) {
	return v.dishResponse, nil
}

func (v *multiStubVendor) CallMultimodal(ctx context.Context, parts []aiclient.ContentPart, cfg *aiclient.Config) (string, error) {
	return v.listResponse, nil
}

func TestRecognizePreservesOrderAndScoresGoal(t *testing.T) {
	dishJSON := `{"calories": 150, "protein": 25, "fat": 5, "carbs": 10, "recommendation": "ok"}`
	vendor := &multiStubVendor{
		listResponse: `["鸡胸肉", "米饭", "青菜"]`,
		dishResponse: dishJSON,
	}
	adapter := aiclient.NewAdapter(vendor, nil)
	nutrition := NewNutritionAnalyzer(adapter, &aiclient.Config{Model: "vision"}, nil)
	menu := NewMenuAnalyzer(adapter, &aiclient.Config{Model: "vision"}, nutrition)

	dishes, err := menu.Recognize(context.Background(), "data:image/png;base64,xxx", "gain-muscle")
	assert.NoError(t, err)
	assert.Len(t, dishes, 3)
	assert.Equal(t, "鸡胸肉", dishes[0].Name)
	assert.Equal(t, "米饭", dishes[1].Name)
	assert.Equal(t, "青菜", dishes[2].Name)
	for _, d := range dishes {
		assert.True(t, d.IsRecommended)
	}
}

func TestRecognizeEmptyListReturnsNoDishes(t *testing.T) {
	vendor := &multiStubVendor{listResponse: `[]`}
	adapter := aiclient.NewAdapter(vendor, nil)
	nutrition := NewNutritionAnalyzer(adapter, &aiclient.Config{Model: "vision"}, nil)
	menu := NewMenuAnalyzer(adapter, &aiclient.Config{Model: "vision"}, nutrition)

	dishes, err := menu.Recognize(context.Background(), "data:image/png;base64,xxx", "balanced")
	assert.NoError(t, err)
	assert.Empty(t, dishes)
}

func TestRecognizeBadListResponseErrors(t *testing.T) {
	vendor := &multiStubVendor{listResponse: "no array here"}
	adapter := aiclient.NewAdapter(vendor, nil)
	nutrition := NewNutritionAnalyzer(adapter, &aiclient.Config{Model: "vision"}, nil)
	menu := NewMenuAnalyzer(adapter, &aiclient.Config{Model: "vision"}, nutrition)

	_, err := menu.Recognize(context.Background(), "data:image/png;base64,xxx", "balanced")
	assert.Error(t, err)
}

func TestEvaluateRecommendationReduceFat(t *testing.T) {
	recommend, _ := evaluateRecommendation("reduce-fat", NutritionResult{Calories: 200, Protein: 20, Fat: 8})
	assert.True(t, recommend)

	reject, _ := evaluateRecommendation("reduce-fat", NutritionResult{Calories: 500, Fat: 25})
	assert.False(t, reject)
}

func TestEvaluateRecommendationControlSugar(t *testing.T) {
	recommend, _ := evaluateRecommendation("control-sugar", NutritionResult{Carbs: 10})
	assert.True(t, recommend)

	reject, _ := evaluateRecommendation("control-sugar", NutritionResult{Carbs: 50})
	assert.False(t, reject)
}

func TestEvaluateRecommendationBalancedDefault(t *testing.T) {
	recommend, _ := evaluateRecommendation("unset", NutritionResult{Calories: 200, Fat: 10})
	assert.True(t, recommend)

	reject, _ := evaluateRecommendation("", NutritionResult{Calories: 400, Fat: 20})
	assert.False(t, reject)
}
