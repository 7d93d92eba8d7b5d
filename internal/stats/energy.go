package stats

import (
	"context"
	"time"
)

// DailyEnergyBalance is spec.md §4.12's "daily energy balance" shape.
type DailyEnergyBalance struct {
	Date                      time.Time          `json:"date"`
	IntakeKcal                float64            `json:"intake_kcal"`
	MealCount                 int                `json:"meal_count"`
	MealBreakdown             map[string]float64 `json:"meal_breakdown"`
	PlannedBurnKcal           float64            `json:"planned_burn_kcal"`
	ActualBurnKcal            float64            `json:"actual_burn_kcal"`
	BurnKcal                  float64            `json:"burn_kcal"`
	ExerciseCount             int                `json:"exercise_count"`
	ActualExerciseCount       int                `json:"actual_exercise_count"`
	ExerciseDurationMin       int                `json:"exercise_duration_min"`
	ActualExerciseDurationMin int                `json:"actual_exercise_duration_min"`
	NetKcal                   float64            `json:"net_kcal"`
	CalorieDeficit            float64            `json:"calorie_deficit"`
	GoalAchievementRate       *float64           `json:"goal_achievement_rate,omitempty"`
}

// DailyEnergyBalance computes spec.md §4.12's daily energy balance for
// one user on one date.
func (a *Aggregator) DailyEnergyBalance(ctx context.Context, userID int64, date time.Time) (*DailyEnergyBalance, error) {
	date = dateOnly(date)

	diets, err := a.diet.ListByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	items, err := a.trips.ItemsCoveringDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	exercises, err := a.exercise.ListByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	balance := &DailyEnergyBalance{
		Date:          date,
		MealBreakdown: map[string]float64{"breakfast": 0, "lunch": 0, "dinner": 0, "snack": 0},
	}

	for _, d := range diets {
		balance.IntakeKcal += d.Calories
		balance.MealCount++
		balance.MealBreakdown[NormalizeMealSlot(d.MealSlot)] += d.Calories
	}

	for _, item := range items {
		balance.PlannedBurnKcal += item.EstimatedCalories
		balance.ExerciseCount++
		balance.ExerciseDurationMin += item.DurationMinutes
	}

	for _, ex := range exercises {
		balance.ActualBurnKcal += ex.ActualCalories
		balance.ActualExerciseCount++
		balance.ActualExerciseDurationMin += ex.ActualDuration
	}

	if len(exercises) > 0 {
		balance.BurnKcal = balance.ActualBurnKcal
	} else {
		balance.BurnKcal = balance.PlannedBurnKcal
	}

	balance.NetKcal = balance.IntakeKcal - balance.BurnKcal
	balance.CalorieDeficit = balance.NetKcal

	if balance.PlannedBurnKcal > 0 {
		rate := balance.ActualBurnKcal / balance.PlannedBurnKcal * 100
		balance.GoalAchievementRate = &rate
	}
	// No plan at all -> nil (already the zero value); plan exists but
	// actual is 0 is covered above since 0/planned*100 = 0.

	return balance, nil
}

// WeeklyEnergyBalance is spec.md §4.12's seven-day aggregate.
type WeeklyEnergyBalance struct {
	WeekStart          time.Time             `json:"week_start"`
	TotalIntakeKcal    float64               `json:"total_intake_kcal"`
	TotalBurnKcal      float64               `json:"total_burn_kcal"`
	TotalNetKcal       float64               `json:"total_net_kcal"`
	ActiveDays         int                   `json:"active_days"`
	AvgIntakeKcal      float64               `json:"avg_intake_kcal"`
	AvgBurnKcal        float64               `json:"avg_burn_kcal"`
	AvgNetKcal         float64               `json:"avg_net_kcal"`
	DailyBreakdown     []*DailyEnergyBalance `json:"daily_breakdown"`
}

// WeeklyEnergyBalance aggregates seven DailyEnergyBalance views starting
// at weekStart.
func (a *Aggregator) WeeklyEnergyBalance(ctx context.Context, userID int64, weekStart time.Time) (*WeeklyEnergyBalance, error) {
	weekStart = dateOnly(weekStart)
	weekly := &WeeklyEnergyBalance{WeekStart: weekStart, DailyBreakdown: make([]*DailyEnergyBalance, 0, 7)}

	activeDays := 0
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		daily, err := a.DailyEnergyBalance(ctx, userID, day)
		if err != nil {
			return nil, err
		}
		weekly.DailyBreakdown = append(weekly.DailyBreakdown, daily)
		weekly.TotalIntakeKcal += daily.IntakeKcal
		weekly.TotalBurnKcal += daily.BurnKcal

		active, err := a.hasActivity(ctx, userID, day)
		if err != nil {
			return nil, err
		}
		if active {
			activeDays++
		}
	}

	weekly.ActiveDays = activeDays
	weekly.TotalNetKcal = weekly.TotalIntakeKcal - weekly.TotalBurnKcal

	denom := float64(activeDays)
	if activeDays == 0 {
		denom = 1
	}
	weekly.AvgIntakeKcal = weekly.TotalIntakeKcal / denom
	weekly.AvgBurnKcal = weekly.TotalBurnKcal / denom
	weekly.AvgNetKcal = weekly.TotalNetKcal / denom

	return weekly, nil
}
