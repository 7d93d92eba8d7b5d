package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/TheBreeze12/lifehub-backend/internal/aiclient"
	"github.com/stretchr/testify/assert"
)

type stubVendor struct {
	response string
	err      error
}

func (v *stubVendor) Call(ctx context.Context, prompt string, cfg *aiclient.Config) (string, error) {
	if v.err != nil {
		return "", v.err
	}
	return v.response, nil
}

func (v *stubVendor) CallMultimodal(ctx context.Context, parts []aiclient.ContentPart, cfg *aiclient.Config) (string, error) {
	if v.err != nil {
		return "", v.err
	}
	return v.response, nil
}

func newTestAdapter(response string, err error) *aiclient.Adapter {
	return aiclient.NewAdapter(&stubVendor{response: response, err: err}, nil)
}

func TestAnalyzeHappyPath(t *testing.T) {
	response := `Sure, here you go:
{
  "calories": 320,
  "protein": 18,
  "fat": 12,
  "carbs": 30,
  "recommendation": "搭配蔬菜食用",
  "allergens": ["egg", "unknown-code"],
  "allergen_reasoning": "含有鸡蛋",
  "cooking_method_comparisons": [{"method": "清蒸", "calories": 220, "fat": 6, "description": "减油"}]
}
Hope that helps!`
	a := NewNutritionAnalyzer(newTestAdapter(response, nil), &aiclient.Config{Model: "gpt"}, nil)
	result := a.Analyze(context.Background(), "番茄炒蛋")

	assert.Equal(t, 320.0, result.Calories)
	assert.Equal(t, []string{"egg"}, result.Allergens)
	assert.Len(t, result.CookingMethodComparisons, 1)
}

func TestAnalyzeLLMFailureReturnsDefault(t *testing.T) {
	a := NewNutritionAnalyzer(newTestAdapter("", errors.New("timeout")), &aiclient.Config{Model: "gpt"}, nil)
	result := a.Analyze(context.Background(), "番茄炒蛋")

	assert.Equal(t, 0.0, result.Calories)
	assert.NotEmpty(t, result.Recommendation)
}

func TestAnalyzeUnparsableResponseReturnsDefault(t *testing.T) {
	a := NewNutritionAnalyzer(newTestAdapter("not json at all", nil), &aiclient.Config{Model: "gpt"}, nil)
	result := a.Analyze(context.Background(), "番茄炒蛋")

	assert.Equal(t, 0.0, result.Calories)
	assert.Equal(t, 0.0, result.Protein)
}

func TestExtractJSONPrefersObjectOverArray(t *testing.T) {
	s := `prefix [1,2,3] then {"a":1} suffix`
	assert.Equal(t, `{"a":1}`, extractJSON(s))
}

func TestExtractJSONArrayFallback(t *testing.T) {
	s := `prefix ["a","b"] suffix`
	assert.Equal(t, `["a","b"]`, extractJSON(s))
}

func TestExtractJSONNoMatch(t *testing.T) {
	assert.Equal(t, "", extractJSON("no json here"))
}
