package stats

import (
	"context"
	"testing"
	"time"

	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExerciseFrequencyWeekRatingExcellent(t *testing.T) {
	db := setupStatsDB(t)
	ctx := context.Background()
	user := &model.User{Username: "k", Email: "k@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)

	today := time.Date(2026, 7, 7, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		day := today.AddDate(0, 0, -i)
		require.NoError(t, db.Create(&model.ExerciseRecord{
			UserID: user.ID, ExerciseType: "running", ActualCalories: 200, ActualDuration: 30, ExerciseDate: day,
		}).Error)
	}
	require.NoError(t, db.Create(&model.ExerciseRecord{
		UserID: user.ID, ExerciseType: "cycling", ActualCalories: 100, ActualDuration: 20, ExerciseDate: today,
	}).Error)

	agg := newTestAggregator(db)
	freq, err := agg.ExerciseFrequency(ctx, user.ID, "week", today)
	require.NoError(t, err)

	assert.Equal(t, 5, freq.ActiveDays)
	assert.Equal(t, "excellent", freq.FrequencyRating)
	assert.Len(t, freq.DailyData, 7)
	require.Len(t, freq.TypeDistribution, 2)
	assert.Equal(t, "running", freq.TypeDistribution[0].ExerciseType, "running has the higher count and sorts first")
	assert.Equal(t, 5, freq.TypeDistribution[0].Count)
}

func TestExerciseFrequencyInsufficientWithNoActivity(t *testing.T) {
	db := setupStatsDB(t)
	ctx := context.Background()
	user := &model.User{Username: "l", Email: "l@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)

	agg := newTestAggregator(db)
	today := time.Date(2026, 7, 7, 0, 0, 0, 0, time.UTC)
	freq, err := agg.ExerciseFrequency(ctx, user.ID, "week", today)
	require.NoError(t, err)

	assert.Equal(t, 0, freq.ActiveDays)
	assert.Equal(t, "insufficient", freq.FrequencyRating)
	assert.Empty(t, freq.TypeDistribution)
}

func TestExerciseFrequencyMonthUsesWeeklyAverage(t *testing.T) {
	db := setupStatsDB(t)
	ctx := context.Background()
	user := &model.User{Username: "m", Email: "m@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)

	today := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	// 12 active days over 30 days -> avg/week = 12 / (30/7) = 2.8 -> fair
	for i := 0; i < 12; i++ {
		day := today.AddDate(0, 0, -i*2)
		require.NoError(t, db.Create(&model.ExerciseRecord{
			UserID: user.ID, ExerciseType: "walking", ActualCalories: 80, ActualDuration: 20, ExerciseDate: day,
		}).Error)
	}

	agg := newTestAggregator(db)
	freq, err := agg.ExerciseFrequency(ctx, user.ID, "month", today)
	require.NoError(t, err)

	assert.Equal(t, 12, freq.ActiveDays)
	assert.Len(t, freq.DailyData, 30)
	assert.Equal(t, "fair", freq.FrequencyRating)
}
