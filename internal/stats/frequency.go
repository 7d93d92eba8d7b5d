package stats

import (
	"context"
	"sort"
	"time"
)

// DailyExerciseData is one zero-filled day inside ExerciseFrequency's window.
type DailyExerciseData struct {
	Date          time.Time `json:"date"`
	ExerciseCount int       `json:"exercise_count"`
	DurationMin   int       `json:"duration_min"`
	Calories      float64   `json:"calories"`
}

// TypeDistributionEntry is one exercise type's share of the window.
type TypeDistributionEntry struct {
	ExerciseType string  `json:"exercise_type"`
	Count        int     `json:"count"`
	DurationMin  int     `json:"duration_min"`
	Calories     float64 `json:"calories"`
	PercentageOf float64 `json:"percentage"`
}

// ExerciseFrequency is spec.md §4.12's exercise-frequency report.
type ExerciseFrequency struct {
	Period               string                  `json:"period"`
	ActiveDays           int                     `json:"active_days"`
	TotalExerciseCount   int                     `json:"total_exercise_count"`
	TotalDurationMin     int                     `json:"total_duration_min"`
	TotalCalories        float64                 `json:"total_calories"`
	AvgFrequencyPerWeek  float64                 `json:"avg_frequency_per_week"`
	AvgDurationPerSession float64                `json:"avg_duration_per_session"`
	AvgCaloriesPerSession float64                `json:"avg_calories_per_session"`
	DailyData            []DailyExerciseData     `json:"daily_data"`
	TypeDistribution     []TypeDistributionEntry  `json:"type_distribution"`
	FrequencyRating      string                   `json:"frequency_rating"`
	FrequencySuggestion  string                   `json:"frequency_suggestion"`
}

// ExerciseFrequency windows the last 7 (week) or 30 (month) days inclusive
// of today and reports activity frequency and type distribution.
func (a *Aggregator) ExerciseFrequency(ctx context.Context, userID int64, period string, today time.Time) (*ExerciseFrequency, error) {
	today = dateOnly(today)
	windowDays := 7
	if period == "month" {
		windowDays = 30
	}
	startDate := today.AddDate(0, 0, -(windowDays - 1))

	exercises, err := a.exercise.ListByUserAndDateRange(ctx, userID, startDate, today)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*DailyExerciseData, windowDays)
	dailyData := make([]DailyExerciseData, windowDays)
	for i := 0; i < windowDays; i++ {
		day := startDate.AddDate(0, 0, i)
		dailyData[i] = DailyExerciseData{Date: day}
		byDate[day.Format(dateLayout)] = &dailyData[i]
	}

	typeOrder := make([]string, 0)
	typeCounts := make(map[string]*TypeDistributionEntry)

	var totalDuration, totalCount int
	var totalCalories float64
	activeDaySet := make(map[string]bool)

	for _, e := range exercises {
		key := e.ExerciseDate.Format(dateLayout)
		if entry, ok := byDate[key]; ok {
			entry.ExerciseCount++
			entry.DurationMin += e.ActualDuration
			entry.Calories += e.ActualCalories
		}
		activeDaySet[key] = true
		totalCount++
		totalDuration += e.ActualDuration
		totalCalories += e.ActualCalories

		t, ok := typeCounts[e.ExerciseType]
		if !ok {
			t = &TypeDistributionEntry{ExerciseType: e.ExerciseType}
			typeCounts[e.ExerciseType] = t
			typeOrder = append(typeOrder, e.ExerciseType)
		}
		t.Count++
		t.DurationMin += e.ActualDuration
		t.Calories += e.ActualCalories
	}

	distribution := make([]TypeDistributionEntry, 0, len(typeOrder))
	for _, name := range typeOrder {
		entry := *typeCounts[name]
		entry.PercentageOf = safeDivide(float64(entry.Count), float64(totalCount)) * 100
		distribution = append(distribution, entry)
	}
	sort.SliceStable(distribution, func(i, j int) bool {
		return distribution[i].Count > distribution[j].Count
	})

	activeDays := len(activeDaySet)
	weeks := float64(windowDays) / 7
	avgFrequencyPerWeek := float64(activeDays) / weeks

	freq := &ExerciseFrequency{
		Period:                period,
		ActiveDays:            activeDays,
		TotalExerciseCount:    totalCount,
		TotalDurationMin:      totalDuration,
		TotalCalories:         totalCalories,
		AvgFrequencyPerWeek:   avgFrequencyPerWeek,
		AvgDurationPerSession: safeDivide(float64(totalDuration), float64(totalCount)),
		AvgCaloriesPerSession: safeDivide(totalCalories, float64(totalCount)),
		DailyData:             dailyData,
		TypeDistribution:      distribution,
	}
	freq.FrequencyRating, freq.FrequencySuggestion = rateFrequency(avgFrequencyPerWeek)
	return freq, nil
}

func rateFrequency(perWeek float64) (string, string) {
	switch {
	case perWeek >= 5:
		return "excellent", "保持良好的运动习惯"
	case perWeek >= 3:
		return "good", "运动频率不错，可以再增加一些"
	case perWeek >= 1:
		return "fair", "建议增加运动频率"
	default:
		return "insufficient", "运动频率过低，建议制定规律的运动计划"
	}
}
