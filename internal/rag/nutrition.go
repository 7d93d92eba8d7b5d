// Package rag builds retrieval-augmented prompt context strings from the
// knowledge bases (spec.md §4.4).
package rag

import (
	"fmt"
	"strings"

	"github.com/TheBreeze12/lifehub-backend/internal/knowledge"
)

// DefaultMaxDistance is the cosine-distance cutoff beyond which a
// retrieved nutrition record is dropped from the context.
const DefaultMaxDistance = 1.5

// NutritionContextBuilder formats nutrition KB search hits into the
// fixed-shape prompt block described in spec.md §4.4.
type NutritionContextBuilder struct {
	kb *knowledge.KnowledgeBase
}

func NewNutritionContextBuilder(kb *knowledge.KnowledgeBase) *NutritionContextBuilder {
	return &NutritionContextBuilder{kb: kb}
}

// Build retrieves top-k nutrition records for dishName and formats the
// survivors (distance <= maxDistance) into a citation-headed, numbered
// block. Returns "" if no survivors; callers MUST tolerate that.
func (b *NutritionContextBuilder) Build(dishName string, topK int) (string, error) {
	if topK <= 0 {
		topK = 5
	}
	results, err := b.kb.Search(dishName, topK, DefaultMaxDistance)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("以下是来自《中国食物成分表》的参考条目：\n")
	for i, r := range results {
		name, _ := r.Metadata["name"].(string)
		calories, _ := r.Metadata["calories"].(float64)
		protein, _ := r.Metadata["protein"].(float64)
		fat, _ := r.Metadata["fat"].(float64)
		carbs, _ := r.Metadata["carbs"].(float64)
		serving, _ := r.Metadata["serving"].(string)
		notes, _ := r.Metadata["cooking_notes"].(string)
		sb.WriteString(fmt.Sprintf(
			"%d. %s：每100克热量%.0f千卡，蛋白质%.1f克，脂肪%.1f克，碳水%.1f克。食用份量：%s。%s\n",
			i+1, name, calories, protein, fat, carbs, serving, notes,
		))
	}
	sb.WriteString("当查询的菜品与以上条目不完全一致时，请优先参考这些数值进行估算。")
	return sb.String(), nil
}
