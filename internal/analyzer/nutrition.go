// Package analyzer implements spec.md §4.6, §4.7, and §4.10: the
// single-dish nutrition analyzer, the multi-dish menu recognizer built on
// top of it, and the two-stage exercise intent + plan generator.
//
// Grounded on the source backend's internal/service/ai_service.go
// (prompt building, extractJSON/extractJSONArray balanced-brace
// scanning) and nutrition_service.go's tolerant JSON-tree walking, with
// the retry loop dropped per aiclient's no-retry contract.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/TheBreeze12/lifehub-backend/internal/aiclient"
	"github.com/TheBreeze12/lifehub-backend/internal/allergen"
	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"github.com/TheBreeze12/lifehub-backend/internal/rag"
)

// NutritionResult is the nutrition analyzer's output (spec.md §4.6).
type NutritionResult struct {
	Calories                 float64                    `json:"calories"`
	Protein                  float64                    `json:"protein"`
	Fat                      float64                    `json:"fat"`
	Carbs                    float64                    `json:"carbs"`
	Recommendation           string                     `json:"recommendation"`
	Allergens                []string                   `json:"allergens"`
	AllergenReasoning        string                     `json:"allergen_reasoning"`
	CookingMethodComparisons []CookingMethodComparison `json:"cooking_method_comparisons"`
}

// CookingMethodComparison is one alternative-preparation entry.
type CookingMethodComparison struct {
	Method      string  `json:"method"`
	Calories    float64 `json:"calories"`
	Fat         float64 `json:"fat"`
	Description string  `json:"description"`
}

// NutritionAnalyzer runs spec.md §4.6's analyze(food_name) pipeline.
type NutritionAnalyzer struct {
	adapter *aiclient.Adapter
	cfg     *aiclient.Config
	rag     *rag.NutritionContextBuilder
}

func NewNutritionAnalyzer(adapter *aiclient.Adapter, cfg *aiclient.Config, ragBuilder *rag.NutritionContextBuilder) *NutritionAnalyzer {
	return &NutritionAnalyzer{adapter: adapter, cfg: cfg, rag: ragBuilder}
}

// Analyze runs the full pipeline for one dish name. It never returns an
// error for parse/LLM failure — those produce a default zero-macro
// result with an explanatory recommendation instead.
func (a *NutritionAnalyzer) Analyze(ctx context.Context, foodName string) NutritionResult {
	var ragContext string
	if a.rag != nil {
		if ctxStr, err := a.rag.Build(foodName, 5); err == nil {
			ragContext = ctxStr
		}
	}

	prompt := buildNutritionAnalysisPrompt(foodName, ragContext)

	raw, err := a.adapter.Generate(ctx, model.CallTypeFoodAnalysis, nil, prompt, a.cfg)
	if err != nil {
		return defaultNutritionResult(fmt.Sprintf("AI分析暂不可用，已返回默认估算值：%v", err))
	}

	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return defaultNutritionResult("AI返回内容无法解析为JSON，已返回默认估算值")
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return defaultNutritionResult("AI返回内容格式异常，已返回默认估算值")
	}

	return coerceNutritionResult(parsed)
}

func defaultNutritionResult(reason string) NutritionResult {
	return NutritionResult{
		Calories:       0,
		Protein:        0,
		Fat:            0,
		Carbs:          0,
		Recommendation: reason,
		Allergens:      nil,
	}
}

// coerceNutritionResult validates and defaults every field of a
// loosely-typed parsed response (spec.md §4.6 step 5).
func coerceNutritionResult(parsed map[string]interface{}) NutritionResult {
	result := NutritionResult{
		Calories:       coerceFloat(parsed["calories"], 0),
		Protein:        coerceFloat(parsed["protein"], 0),
		Fat:            coerceFloat(parsed["fat"], 0),
		Carbs:          coerceFloat(parsed["carbs"], 0),
		Recommendation: coerceString(parsed["recommendation"], "暂无建议"),
	}

	result.Allergens = coerceAllergenCodes(parsed["allergens"])
	result.AllergenReasoning = coerceString(parsed["allergen_reasoning"], "")
	result.CookingMethodComparisons = coerceCookingComparisons(parsed["cooking_method_comparisons"])
	return result
}

func coerceFloat(v interface{}, fallback float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return fallback
		}
		return f
	default:
		return fallback
	}
}

func coerceString(v interface{}, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

func coerceAllergenCodes(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			continue
		}
		code := allergen.NormalizeCode(strings.ToLower(strings.TrimSpace(s)))
		if code == "" {
			continue
		}
		out = append(out, string(code))
	}
	return out
}

func coerceCookingComparisons(v interface{}) []CookingMethodComparison {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var out []CookingMethodComparison
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, CookingMethodComparison{
			Method:      coerceString(m["method"], ""),
			Calories:    coerceFloat(m["calories"], 0),
			Fat:         coerceFloat(m["fat"], 0),
			Description: coerceString(m["description"], ""),
		})
	}
	return out
}

func buildNutritionAnalysisPrompt(foodName string, ragContext string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("请分析菜品「%s」的营养成分。\n\n", foodName))

	if ragContext != "" {
		sb.WriteString(ragContext)
		sb.WriteString("\n\n")
	}

	sb.WriteString("要求：\n")
	sb.WriteString("1. 估算热量（千卡）、蛋白质（克）、脂肪（克）、碳水化合物（克）\n")
	sb.WriteString("2. 给出一句简短的饮食建议\n")
	sb.WriteString("3. 识别可能含有的过敏原，仅从以下八类中选择，找不到则返回空数组：\n")
	for _, cat := range allergen.Catalog {
		sb.WriteString(fmt.Sprintf("   - %s (%s): %s\n", cat.Code, cat.NameCN, cat.Description))
	}
	sb.WriteString("4. 给出过敏原判断的简短理由\n")
	sb.WriteString("5. 如适用，给出1-2种替代烹饪方式及其热量/脂肪对比\n\n")

	sb.WriteString("仅返回如下结构的JSON对象，不要包含任何额外文字：\n")
	sb.WriteString(`{
  "calories": 320,
  "protein": 18,
  "fat": 12,
  "carbs": 30,
  "recommendation": "蛋白质充足，建议搭配蔬菜食用",
  "allergens": ["egg"],
  "allergen_reasoning": "含有鸡蛋",
  "cooking_method_comparisons": [
    {"method": "清蒸", "calories": 220, "fat": 6, "description": "减少用油量"}
  ]
}`)
	sb.WriteString("\n")
	return sb.String()
}

// extractJSON finds the first balanced {...} span in s, falling back to
// a bracket-balanced array span if no object is found.
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
				goto done
			}
		}
	}
done:
	if start == -1 || end == -1 {
		return extractJSONArray(s)
	}
	return s[start:end]
}

// extractJSONArray finds the first balanced [...] span in s.
func extractJSONArray(s string) string {
	start, end, depth := -1, -1, 0
	for i, c := range s {
		switch c {
		case '[':
			if start == -1 {
				start = i
			}
			depth++
		case ']':
			depth--
			if depth == 0 && start != -1 {
				end = i + 1
				return s[start:end]
			}
		}
	}
	return ""
}
