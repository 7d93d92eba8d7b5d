// Package stats implements spec.md §4.12: read-only aggregators over
// diet_record, trip_item/trip_plan, and exercise_record. Grounded on the
// source backend's statistics_service.go (date-range helpers, safe
// division, period comparison idiom), generalized from
// training/nutrition period stats to the spec's energy-balance/
// nutrient/goal-progress/frequency aggregators.
package stats

import (
	"context"
	"time"

	"github.com/TheBreeze12/lifehub-backend/internal/repository"
)

// Aggregator bundles the three read-only repositories every stats
// function draws from.
type Aggregator struct {
	diet     repository.DietRecordRepository
	trips    repository.TripRepository
	exercise repository.ExerciseRecordRepository
}

func NewAggregator(diet repository.DietRecordRepository, trips repository.TripRepository, exercise repository.ExerciseRecordRepository) *Aggregator {
	return &Aggregator{diet: diet, trips: trips, exercise: exercise}
}

// mealSlotChineseNames maps the four canonical English meal-slot keys
// (as persisted on DietRecord) to their Chinese display names, so
// callers may query by either (spec.md §4.12 "Meal-slot keys accept
// both English and the four canonical Chinese names").
var mealSlotChineseNames = map[string]string{
	"breakfast": "早餐",
	"lunch":     "午餐",
	"dinner":    "晚餐",
	"snack":     "加餐",
}

// NormalizeMealSlot maps a Chinese meal-slot name back onto its English
// canonical key; returns the input unchanged if it's already English or
// unrecognized.
func NormalizeMealSlot(slot string) string {
	for en, cn := range mealSlotChineseNames {
		if cn == slot {
			return en
		}
	}
	return slot
}

// safeDivide returns 0 instead of NaN/Inf when denom is zero.
func safeDivide(numerator, denom float64) float64 {
	if denom == 0 {
		return 0
	}
	return numerator / denom
}

// dateOnly truncates t to midnight, matching how record_date/
// exercise_date/trip dates are compared.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// scoreStatus maps a [0,100] score onto spec.md §4.12's four-tier
// status (excellent>=85, good>=65, fair>=40, else poor).
func scoreStatus(score float64) string {
	switch {
	case score >= 85:
		return "excellent"
	case score >= 65:
		return "good"
	case score >= 40:
		return "fair"
	default:
		return "poor"
	}
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// hasActivity reports whether the user logged any diet or exercise
// record on date — the "active day" definition used by weekly averages
// and streak_days.
func (a *Aggregator) hasActivity(ctx context.Context, userID int64, date time.Time) (bool, error) {
	diets, err := a.diet.ListByUserAndDate(ctx, userID, date)
	if err != nil {
		return false, err
	}
	if len(diets) > 0 {
		return true, nil
	}
	exercises, err := a.exercise.ListByUserAndDate(ctx, userID, date)
	if err != nil {
		return false, err
	}
	return len(exercises) > 0, nil
}
