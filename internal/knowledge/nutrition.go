package knowledge

import (
	"encoding/json"
	"fmt"
)

// NutritionEntry is one row of the Chinese Food Composition Table source.
type NutritionEntry struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	CaloriesPer100 float64 `json:"calories"`
	ProteinPer100  float64 `json:"protein"`
	FatPer100      float64 `json:"fat"`
	CarbsPer100    float64 `json:"carbs"`
	FiberPer100    float64 `json:"fiber"`
	SodiumPer100   float64 `json:"sodium"`
	Serving        string  `json:"serving"`
	CookingNotes   string  `json:"cooking_notes"`
}

// LoadNutritionSource parses the nutrition KB's JSON source into
// loadedRecords (spec.md §3 "Nutrition" metadata shape).
func LoadNutritionSource(raw []byte) ([]loadedRecord, error) {
	var entries []NutritionEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	out := make([]loadedRecord, len(entries))
	for i, e := range entries {
		text := fmt.Sprintf(
			"%s（分类：%s）每100克：热量%.0f千卡，蛋白质%.1f克，脂肪%.1f克，碳水%.1f克，膳食纤维%.1f克，钠%.0f毫克。食用份量：%s。%s",
			e.Name, e.Category, e.CaloriesPer100, e.ProteinPer100, e.FatPer100, e.CarbsPer100,
			e.FiberPer100, e.SodiumPer100, e.Serving, e.CookingNotes,
		)
		out[i] = loadedRecord{
			Text: text,
			Metadata: map[string]interface{}{
				"name":      e.Name,
				"category":  e.Category,
				"calories":  e.CaloriesPer100,
				"protein":   e.ProteinPer100,
				"fat":       e.FatPer100,
				"carbs":     e.CarbsPer100,
				"fiber":     e.FiberPer100,
				"sodium":    e.SodiumPer100,
				"serving":   e.Serving,
				"cooking_notes": e.CookingNotes,
			},
		}
	}
	return out, nil
}
