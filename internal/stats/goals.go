package stats

import (
	"context"
	"time"

	"github.com/TheBreeze12/lifehub-backend/internal/model"
)

const defaultGoalProgressDays = 7

// GoalDimension is one scored axis of a goal-progress evaluation.
type GoalDimension struct {
	Name         string  `json:"name"`
	Score        float64 `json:"score"`
	Status       string  `json:"status"`
	CurrentValue float64 `json:"current_value"`
	TargetValue  float64 `json:"target_value"`
	Unit         string  `json:"unit"`
	Description  string  `json:"description"`
}

// GoalProgress is spec.md §4.12's goal-progress report.
type GoalProgress struct {
	Goal        string          `json:"goal"`
	Days        int             `json:"days"`
	Dimensions  []GoalDimension `json:"dimensions"`
	Suggestions []string        `json:"suggestions"`
	OverallScore float64        `json:"overall_score"`
	OverallStatus string        `json:"overall_status"`
	StreakDays  int             `json:"streak_days"`
}

// periodSummary is the period totals and per-active-day averages every
// goal evaluator is built from.
type periodSummary struct {
	activeDays          int
	avgIntakeKcal       float64
	avgProteinG         float64
	avgFatG             float64
	avgCarbsG           float64
	avgBurnKcal         float64
	avgExerciseDuration float64
	proteinPct          float64
	fatPct              float64
	carbsPct            float64
	activeDayRatio      float64
	dietDayRatio        float64
}

func (a *Aggregator) summarizePeriod(ctx context.Context, userID int64, endDate time.Time, days int) (*periodSummary, error) {
	endDate = dateOnly(endDate)
	startDate := endDate.AddDate(0, 0, -(days - 1))

	diets, err := a.diet.ListByUserAndDateRange(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	exercises, err := a.exercise.ListByUserAndDateRange(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	var totalIntake, totalProtein, totalFat, totalCarbs, totalBurn, totalDuration float64
	dietDays := make(map[string]bool)
	activeDays := make(map[string]bool)

	for _, d := range diets {
		totalIntake += d.Calories
		totalProtein += d.Protein
		totalFat += d.Fat
		totalCarbs += d.Carbs
		key := d.RecordDate.Format(dateLayout)
		dietDays[key] = true
		activeDays[key] = true
	}
	for _, e := range exercises {
		totalBurn += e.ActualCalories
		totalDuration += float64(e.ActualDuration)
		activeDays[e.ExerciseDate.Format(dateLayout)] = true
	}

	denom := float64(len(activeDays))
	if denom == 0 {
		denom = 1
	}

	macroKcal := totalProtein*4 + totalFat*9 + totalCarbs*4

	return &periodSummary{
		activeDays:          len(activeDays),
		avgIntakeKcal:       totalIntake / denom,
		avgProteinG:         totalProtein / denom,
		avgFatG:             totalFat / denom,
		avgCarbsG:           totalCarbs / denom,
		avgBurnKcal:         totalBurn / denom,
		avgExerciseDuration: totalDuration / denom,
		proteinPct:          safeDivide(totalProtein*4, macroKcal) * 100,
		fatPct:              safeDivide(totalFat*9, macroKcal) * 100,
		carbsPct:            safeDivide(totalCarbs*4, macroKcal) * 100,
		activeDayRatio:      float64(len(activeDays)) / float64(days) * 100,
		dietDayRatio:        float64(len(dietDays)) / float64(days) * 100,
	}, nil
}

// GoalProgress dispatches on the user's health goal and scores the
// relevant dimensions over the trailing `days` window ending at endDate.
func (a *Aggregator) GoalProgress(ctx context.Context, userID int64, user *model.User, endDate time.Time, days int) (*GoalProgress, error) {
	if days <= 0 {
		days = defaultGoalProgressDays
	}
	endDate = dateOnly(endDate)

	summary, err := a.summarizePeriod(ctx, userID, endDate, days)
	if err != nil {
		return nil, err
	}
	streak, err := a.streakDays(ctx, userID, endDate)
	if err != nil {
		return nil, err
	}

	bmr := user.BodyParamsOrDefault().MifflinStJeorBMR()
	weightKg := user.BodyParamsOrDefault().WeightKg

	goal := user.HealthGoal
	if goal == "" || goal == "unset" {
		goal = "balanced"
	}

	var dims []GoalDimension
	switch goal {
	case "reduce-fat":
		dims = reduceFatDimensions(summary, bmr)
	case "gain-muscle":
		dims = gainMuscleDimensions(summary, bmr, weightKg)
	case "control-sugar":
		dims = controlSugarDimensions(summary, bmr)
	default:
		dims = balancedDimensions(summary)
	}

	var sum float64
	for _, d := range dims {
		sum += d.Score
	}
	overall := sum / float64(len(dims))

	return &GoalProgress{
		Goal:          goal,
		Days:          days,
		Dimensions:    dims,
		Suggestions:   suggestionsFor(dims),
		OverallScore:  overall,
		OverallStatus: scoreStatus(overall),
		StreakDays:    streak,
	}, nil
}

const dateLayout = "2006-01-02"

// streakDays counts consecutive days with activity, walking backward from
// endDate until a day without activity is hit.
func (a *Aggregator) streakDays(ctx context.Context, userID int64, endDate time.Time) (int, error) {
	streak := 0
	for day := endDate; ; day = day.AddDate(0, 0, -1) {
		active, err := a.hasActivity(ctx, userID, day)
		if err != nil {
			return 0, err
		}
		if !active {
			break
		}
		streak++
		if streak > 3650 {
			break // guards against an unbounded loop on corrupted data
		}
	}
	return streak, nil
}

// proximityScore scores `actual` against `target` as 100 minus the
// percent deviation, clamped to [0,100]. Used by dimensions whose "good"
// value is close to a target rather than above/below a threshold.
func proximityScore(actual, target float64) float64 {
	if target == 0 {
		return 100
	}
	deviation := (actual - target) / target * 100
	if deviation < 0 {
		deviation = -deviation
	}
	return clamp(100-deviation, 0, 100)
}

// bandScore scores `actual` at 100 when within [target-band,target+band],
// degrading linearly outside it.
func bandScore(actual, target, bandPct float64) float64 {
	if target == 0 {
		return 100
	}
	deviation := (actual - target) / target * 100
	if deviation < 0 {
		deviation = -deviation
	}
	if deviation <= bandPct {
		return 100
	}
	return clamp(100-(deviation-bandPct), 0, 100)
}

// ceilingScore rewards staying at or under target, penalizing the excess.
func ceilingScore(actual, target float64) float64 {
	if actual <= target {
		return 100
	}
	if target == 0 {
		return 0
	}
	excess := (actual - target) / target * 100
	return clamp(100-excess, 0, 100)
}

// floorScore rewards meeting or exceeding target, penalizing the shortfall.
func floorScore(actual, target float64) float64 {
	if target <= 0 {
		return 100
	}
	if actual >= target {
		return 100
	}
	return clamp(actual/target*100, 0, 100)
}

func reduceFatDimensions(s *periodSummary, bmr float64) []GoalDimension {
	calorieTarget := bmr*1.2 - 500
	return []GoalDimension{
		{
			Name: "Calorie Control", CurrentValue: s.avgIntakeKcal, TargetValue: calorieTarget, Unit: "kcal",
			Score: proximityScore(s.avgIntakeKcal, calorieTarget), Description: "每日热量摄入控制",
			Status: scoreStatus(proximityScore(s.avgIntakeKcal, calorieTarget)),
		},
		{
			Name: "Fat Ratio", CurrentValue: s.fatPct, TargetValue: fatMaxPct, Unit: "%",
			Score: ceilingScore(s.fatPct, fatMaxPct), Description: "脂肪摄入占比",
			Status: scoreStatus(ceilingScore(s.fatPct, fatMaxPct)),
		},
		{
			Name: "Exercise Burn", CurrentValue: s.avgBurnKcal, TargetValue: 300, Unit: "kcal",
			Score: floorScore(s.avgBurnKcal, 300), Description: "运动消耗热量",
			Status: scoreStatus(floorScore(s.avgBurnKcal, 300)),
		},
	}
}

func gainMuscleDimensions(s *periodSummary, bmr, weightKg float64) []GoalDimension {
	proteinTarget := 1.8 * weightKg
	calorieTarget := bmr*1.4 + 300
	return []GoalDimension{
		{
			Name: "Protein Intake", CurrentValue: s.avgProteinG, TargetValue: proteinTarget, Unit: "g",
			Score: floorScore(s.avgProteinG, proteinTarget), Description: "蛋白质摄入量",
			Status: scoreStatus(floorScore(s.avgProteinG, proteinTarget)),
		},
		{
			Name: "Sufficient Calories", CurrentValue: s.avgIntakeKcal, TargetValue: calorieTarget, Unit: "kcal",
			Score: floorScore(s.avgIntakeKcal, calorieTarget), Description: "热量摄入是否充足",
			Status: scoreStatus(floorScore(s.avgIntakeKcal, calorieTarget)),
		},
		{
			Name: "Exercise Burn", CurrentValue: s.avgBurnKcal, TargetValue: 400, Unit: "kcal",
			Score: floorScore(s.avgBurnKcal, 400), Description: "运动消耗热量",
			Status: scoreStatus(floorScore(s.avgBurnKcal, 400)),
		},
	}
}

func controlSugarDimensions(s *periodSummary, bmr float64) []GoalDimension {
	calorieTarget := bmr * 1.3
	return []GoalDimension{
		{
			Name: "Carb Ratio", CurrentValue: s.carbsPct, TargetValue: 50, Unit: "%",
			Score: ceilingScore(s.carbsPct, 50), Description: "碳水摄入占比",
			Status: scoreStatus(ceilingScore(s.carbsPct, 50)),
		},
		{
			Name: "Calorie Control", CurrentValue: s.avgIntakeKcal, TargetValue: calorieTarget, Unit: "kcal",
			Score: bandScore(s.avgIntakeKcal, calorieTarget, 10), Description: "每日热量摄入控制",
			Status: scoreStatus(bandScore(s.avgIntakeKcal, calorieTarget, 10)),
		},
		{
			Name: "Auxiliary Exercise", CurrentValue: s.avgBurnKcal, TargetValue: 250, Unit: "kcal",
			Score: floorScore(s.avgBurnKcal, 250), Description: "辅助运动消耗",
			Status: scoreStatus(floorScore(s.avgBurnKcal, 250)),
		},
	}
}

func balancedDimensions(s *periodSummary) []GoalDimension {
	nutrientScore := (bandScore(s.proteinPct, (proteinMinPct+proteinMaxPct)/2, (proteinMaxPct-proteinMinPct)/2) +
		bandScore(s.fatPct, (fatMinPct+fatMaxPct)/2, (fatMaxPct-fatMinPct)/2) +
		bandScore(s.carbsPct, (carbsMinPct+carbsMaxPct)/2, (carbsMaxPct-carbsMinPct)/2)) / 3
	return []GoalDimension{
		{
			Name: "Nutrient Balance", CurrentValue: nutrientScore, TargetValue: 100, Unit: "score",
			Score: nutrientScore, Description: "三大营养素是否均衡", Status: scoreStatus(nutrientScore),
		},
		{
			Name: "Exercise Regularity", CurrentValue: s.activeDayRatio, TargetValue: 70, Unit: "%",
			Score: floorScore(s.activeDayRatio, 70), Description: "运动规律性", Status: scoreStatus(floorScore(s.activeDayRatio, 70)),
		},
		{
			Name: "Diet Regularity", CurrentValue: s.dietDayRatio, TargetValue: 85, Unit: "%",
			Score: floorScore(s.dietDayRatio, 85), Description: "饮食记录规律性", Status: scoreStatus(floorScore(s.dietDayRatio, 85)),
		},
	}
}

func suggestionsFor(dims []GoalDimension) []string {
	var suggestions []string
	for _, d := range dims {
		if d.Status == "fair" || d.Status == "poor" {
			suggestions = append(suggestions, d.Description+"有待改善")
		}
	}
	return suggestions
}
