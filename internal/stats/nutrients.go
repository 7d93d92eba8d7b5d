package stats

import (
	"context"
	"time"
)

// Canonical macro-ratio guidelines (percent of total nutrient kcal).
const (
	proteinMinPct = 10.0
	proteinMaxPct = 15.0
	fatMinPct     = 20.0
	fatMaxPct     = 30.0
	carbsMinPct   = 50.0
	carbsMaxPct   = 65.0
)

// MacroGuideline is one row of the daily-nutrients guidelines comparison.
type MacroGuideline struct {
	ActualRatioPct    float64 `json:"actual_ratio"`
	RecommendedMinPct float64 `json:"recommended_min"`
	RecommendedMaxPct float64 `json:"recommended_max"`
	Status            string  `json:"status"`
	Message           string  `json:"message"`
}

// DailyNutrients is spec.md §4.12's daily-nutrients shape.
type DailyNutrients struct {
	Date            time.Time          `json:"date"`
	ProteinGrams    float64            `json:"protein_grams"`
	FatGrams        float64            `json:"fat_grams"`
	CarbsGrams      float64            `json:"carbs_grams"`
	ProteinKcal     float64            `json:"protein_kcal"`
	FatKcal         float64            `json:"fat_kcal"`
	CarbsKcal       float64            `json:"carbs_kcal"`
	ProteinPct      float64            `json:"protein_pct"`
	FatPct          float64            `json:"fat_pct"`
	CarbsPct        float64            `json:"carbs_pct"`
	Guidelines      map[string]MacroGuideline `json:"guidelines"`
}

// DailyNutrients computes the macro breakdown and guidelines comparison
// for one user on one date.
func (a *Aggregator) DailyNutrients(ctx context.Context, userID int64, date time.Time) (*DailyNutrients, error) {
	date = dateOnly(date)
	diets, err := a.diet.ListByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	n := &DailyNutrients{Date: date}
	for _, d := range diets {
		n.ProteinGrams += d.Protein
		n.FatGrams += d.Fat
		n.CarbsGrams += d.Carbs
	}
	n.ProteinKcal = n.ProteinGrams * 4
	n.FatKcal = n.FatGrams * 9
	n.CarbsKcal = n.CarbsGrams * 4

	total := n.ProteinKcal + n.FatKcal + n.CarbsKcal
	n.ProteinPct = safeDivide(n.ProteinKcal, total) * 100
	n.FatPct = safeDivide(n.FatKcal, total) * 100
	n.CarbsPct = safeDivide(n.CarbsKcal, total) * 100

	if len(diets) == 0 {
		n.Guidelines = map[string]MacroGuideline{
			"protein": noDataGuideline(proteinMinPct, proteinMaxPct),
			"fat":     noDataGuideline(fatMinPct, fatMaxPct),
			"carbs":   noDataGuideline(carbsMinPct, carbsMaxPct),
		}
		return n, nil
	}

	n.Guidelines = map[string]MacroGuideline{
		"protein": guideline(n.ProteinPct, proteinMinPct, proteinMaxPct, "蛋白质"),
		"fat":     guideline(n.FatPct, fatMinPct, fatMaxPct, "脂肪"),
		"carbs":   guideline(n.CarbsPct, carbsMinPct, carbsMaxPct, "碳水化合物"),
	}
	return n, nil
}

func noDataGuideline(min, max float64) MacroGuideline {
	return MacroGuideline{RecommendedMinPct: min, RecommendedMaxPct: max, Status: "low", Message: "暂无饮食记录"}
}

func guideline(actual, min, max float64, label string) MacroGuideline {
	g := MacroGuideline{ActualRatioPct: actual, RecommendedMinPct: min, RecommendedMaxPct: max}
	switch {
	case actual < min:
		g.Status = "low"
		g.Message = label + "摄入比例偏低"
	case actual > max:
		g.Status = "high"
		g.Message = label + "摄入比例偏高"
	default:
		g.Status = "normal"
		g.Message = label + "摄入比例正常"
	}
	return g
}
