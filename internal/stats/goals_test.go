package stats

import (
	"context"
	"testing"
	"time"

	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func strPtr(s string) *string     { return &s }

func TestGoalProgressReduceFatScoresThreeDimensions(t *testing.T) {
	db := setupStatsDB(t)
	ctx := context.Background()
	user := &model.User{
		Username: "h", Email: "h@example.com", PasswordHash: "x", HealthGoal: "reduce-fat",
		WeightKg: floatPtr(70), HeightCm: floatPtr(170), Age: intPtr(30), Gender: strPtr("male"),
	}
	require.NoError(t, db.Create(user).Error)

	end := time.Date(2026, 7, 7, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		day := end.AddDate(0, 0, -i)
		require.NoError(t, db.Create(&model.DietRecord{
			UserID: user.ID, DishName: "餐", Calories: 1600, Protein: 80, Fat: 40, Carbs: 150,
			MealSlot: "lunch", RecordDate: day,
		}).Error)
		require.NoError(t, db.Create(&model.ExerciseRecord{
			UserID: user.ID, ExerciseType: "running", ActualCalories: 300, ActualDuration: 30, ExerciseDate: day,
		}).Error)
	}

	agg := newTestAggregator(db)
	progress, err := agg.GoalProgress(ctx, user.ID, user, end, 7)
	require.NoError(t, err)

	assert.Equal(t, "reduce-fat", progress.Goal)
	require.Len(t, progress.Dimensions, 3)
	assert.Equal(t, "Calorie Control", progress.Dimensions[0].Name)
	assert.Equal(t, "Fat Ratio", progress.Dimensions[1].Name)
	assert.Equal(t, "Exercise Burn", progress.Dimensions[2].Name)
	assert.Equal(t, 100.0, progress.Dimensions[2].Score, "300 kcal/day burn meets the 300 target exactly")
	assert.Equal(t, 7, progress.StreakDays)
}

func TestGoalProgressDefaultsToBalancedWhenUnset(t *testing.T) {
	db := setupStatsDB(t)
	ctx := context.Background()
	user := &model.User{Username: "i", Email: "i@example.com", PasswordHash: "x", HealthGoal: "unset"}
	require.NoError(t, db.Create(user).Error)

	agg := newTestAggregator(db)
	end := time.Date(2026, 7, 7, 0, 0, 0, 0, time.UTC)
	progress, err := agg.GoalProgress(ctx, user.ID, user, end, 7)
	require.NoError(t, err)

	assert.Equal(t, "balanced", progress.Goal)
	assert.Equal(t, 0, progress.StreakDays)
	require.Len(t, progress.Dimensions, 3)
	assert.Equal(t, "Nutrient Balance", progress.Dimensions[0].Name)
}

func TestGoalProgressGainMuscleUsesBodyWeight(t *testing.T) {
	db := setupStatsDB(t)
	ctx := context.Background()
	user := &model.User{
		Username: "j", Email: "j@example.com", PasswordHash: "x", HealthGoal: "gain-muscle",
		WeightKg: floatPtr(80), HeightCm: floatPtr(180), Age: intPtr(25), Gender: strPtr("male"),
	}
	require.NoError(t, db.Create(user).Error)

	end := time.Date(2026, 7, 7, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&model.DietRecord{
		UserID: user.ID, DishName: "餐", Calories: 3000, Protein: 144, Fat: 80, Carbs: 300,
		MealSlot: "lunch", RecordDate: end,
	}).Error)

	agg := newTestAggregator(db)
	progress, err := agg.GoalProgress(ctx, user.ID, user, end, 7)
	require.NoError(t, err)

	assert.Equal(t, "gain-muscle", progress.Goal)
	assert.Equal(t, "Protein Intake", progress.Dimensions[0].Name)
	assert.Equal(t, 144.0, progress.Dimensions[0].TargetValue, "1.8g/kg * 80kg")
}
