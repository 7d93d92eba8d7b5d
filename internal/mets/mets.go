// Package mets implements spec.md §4.11: the METs calorie formula, type
// normalization with alias/substring fallback, its inverse
// (duration-for-target), and an optional RAG-widened variant.
package mets

import (
	"fmt"
	"math"
	"strings"
)

// DefaultWeightKg is substituted when weight is missing or non-positive.
const DefaultWeightKg = 70.0

// FallbackMETs is used when no entry, alias, or substring match is found.
const FallbackMETs = 3.5

// canonicalTable is the built-in ~30-type English table.
var canonicalTable = map[string]float64{
	"walking": 3.5, "running": 9.8, "jogging": 7.0, "cycling": 7.5,
	"hiking": 6.0, "swimming": 8.0, "gym": 5.0, "indoor": 4.0, "outdoor": 4.5,
	"yoga": 2.5, "pilates": 3.0, "dancing": 4.8, "basketball": 6.5,
	"soccer": 7.0, "football": 8.0, "tennis": 7.3, "badminton": 5.5,
	"table_tennis": 4.0, "volleyball": 4.0, "rowing": 7.0, "climbing": 8.0,
	"skipping_rope": 11.8, "elliptical": 5.0, "weight_training": 6.0,
	"aerobics": 6.5, "stretching": 2.3, "golf": 4.8, "skiing": 7.0,
	"skating": 7.0, "badminton_casual": 4.5,
}

// aliasTable maps Chinese/common aliases onto the canonical English key.
var aliasTable = map[string]string{
	"步行": "walking", "散步": "walking", "快走": "walking",
	"跑步": "running", "慢跑": "jogging",
	"骑行": "cycling", "自行车": "cycling", "单车": "cycling",
	"徒步": "hiking", "爬山": "hiking",
	"游泳": "swimming",
	"健身房": "gym", "撸铁": "weight_training", "力量训练": "weight_training",
	"室内运动": "indoor", "室外运动": "outdoor",
	"瑜伽": "yoga", "普拉提": "pilates", "跳舞": "dancing",
	"篮球": "basketball", "足球": "soccer", "网球": "tennis",
	"羽毛球": "badminton", "乒乓球": "table_tennis", "排球": "volleyball",
	"划船": "rowing", "攀岩": "climbing", "跳绳": "skipping_rope",
	"椭圆机": "elliptical", "有氧运动": "aerobics", "拉伸": "stretching",
	"高尔夫": "golf", "滑雪": "skiing", "滑冰": "skating",
}

// Normalize resolves exerciseType to a canonical table key: direct
// lookup, then Chinese alias, then substring match against both tables,
// finally FallbackMETs territory (handled by Lookup).
func Normalize(exerciseType string) string {
	key := strings.ToLower(strings.TrimSpace(exerciseType))
	if _, ok := canonicalTable[key]; ok {
		return key
	}
	if canon, ok := aliasTable[exerciseType]; ok {
		return canon
	}
	for alias, canon := range aliasTable {
		if strings.Contains(exerciseType, alias) {
			return canon
		}
	}
	for canon := range canonicalTable {
		if strings.Contains(key, canon) {
			return canon
		}
	}
	return ""
}

// Lookup returns the METs value for exerciseType, falling back to
// FallbackMETs when no entry, alias, or substring match is found.
func Lookup(exerciseType string) float64 {
	canon := Normalize(exerciseType)
	if canon == "" {
		return FallbackMETs
	}
	if v, ok := canonicalTable[canon]; ok {
		return v
	}
	return FallbackMETs
}

// Calories computes calorie expenditure: METs(type) * weight * duration/60.
// Default weight applies when weightKg is missing/<=0. duration<=0
// returns 0.
func Calories(exerciseType string, weightKg float64, durationMin float64) float64 {
	if durationMin <= 0 {
		return 0
	}
	if weightKg <= 0 {
		weightKg = DefaultWeightKg
	}
	return Lookup(exerciseType) * weightKg * durationMin / 60
}

// DurationForTarget is the inverse of Calories: the duration in minutes
// needed to burn targetKcal, rounded, with a 1-minute floor.
func DurationForTarget(exerciseType string, weightKg float64, targetKcal float64) int {
	if weightKg <= 0 {
		weightKg = DefaultWeightKg
	}
	metsVal := Lookup(exerciseType)
	if metsVal <= 0 {
		metsVal = FallbackMETs
	}
	minutes := targetKcal / (metsVal * weightKg) * 60
	rounded := int(math.Round(minutes))
	if rounded < 1 {
		return 1
	}
	return rounded
}

// Enrichment is the output of recomputing a plan item's cost: the
// recalculated calorie figure plus the METs value and a human-readable
// basis string, for attaching to a TripItem.
type Enrichment struct {
	Calories         float64
	METsValue        float64
	CalculationBasis string
}

// Enrich recomputes an item's calorie cost from its exercise type,
// weight, and duration, and records the basis for display.
func Enrich(exerciseType string, weightKg float64, durationMin float64) Enrichment {
	if weightKg <= 0 {
		weightKg = DefaultWeightKg
	}
	metsVal := Lookup(exerciseType)
	calories := metsVal * weightKg * durationMin / 60
	basis := fmt.Sprintf("%.1f METs × %.0fkg × %.0f分钟 ÷ 60", metsVal, weightKg, durationMin)
	return Enrichment{Calories: calories, METsValue: metsVal, CalculationBasis: basis}
}
