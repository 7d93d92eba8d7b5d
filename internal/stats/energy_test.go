package stats

import (
	"context"
	"testing"
	"time"

	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"github.com/TheBreeze12/lifehub-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStatsDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.DietRecord{}, &model.TripPlan{}, &model.TripItem{}, &model.ExerciseRecord{},
	))
	return db
}

func newTestAggregator(db *gorm.DB) *Aggregator {
	return NewAggregator(
		repository.NewDietRecordRepository(db),
		repository.NewTripRepository(db),
		repository.NewExerciseRecordRepository(db),
	)
}

func TestDailyEnergyBalanceWithOnlyPlannedBurn(t *testing.T) {
	db := setupStatsDB(t)
	ctx := context.Background()
	user := &model.User{Username: "a", Email: "a@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	day := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&model.DietRecord{UserID: user.ID, DishName: "米饭", Calories: 400, MealSlot: "lunch", RecordDate: day}).Error)
	require.NoError(t, db.Create(&model.DietRecord{UserID: user.ID, DishName: "粥", Calories: 200, MealSlot: "breakfast", RecordDate: day}).Error)

	plan := &model.TripPlan{
		UserID: user.ID, Title: "计划", Destination: "公园", StartDate: day, EndDate: day,
		Items: []model.TripItem{{DayIndex: 1, StartTime: "08:00", PlaceName: "公园", ExerciseType: "walking", DurationMinutes: 30, EstimatedCalories: 150}},
	}
	require.NoError(t, db.Create(plan).Error)

	agg := newTestAggregator(db)
	balance, err := agg.DailyEnergyBalance(ctx, user.ID, day)
	require.NoError(t, err)

	assert.Equal(t, 600.0, balance.IntakeKcal)
	assert.Equal(t, 2, balance.MealCount)
	assert.Equal(t, 400.0, balance.MealBreakdown["lunch"])
	assert.Equal(t, 200.0, balance.MealBreakdown["breakfast"])
	assert.Equal(t, 150.0, balance.PlannedBurnKcal)
	assert.Equal(t, 0.0, balance.ActualBurnKcal)
	assert.Equal(t, 150.0, balance.BurnKcal, "falls back to planned burn when no exercise record exists")
	assert.Equal(t, 450.0, balance.NetKcal)
	require.NotNil(t, balance.GoalAchievementRate)
	assert.Equal(t, 0.0, *balance.GoalAchievementRate)
}

func TestDailyEnergyBalancePrefersActualBurnWhenExercised(t *testing.T) {
	db := setupStatsDB(t)
	ctx := context.Background()
	user := &model.User{Username: "b", Email: "b@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	day := time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC)

	plan := &model.TripPlan{
		UserID: user.ID, Title: "计划", Destination: "公园", StartDate: day, EndDate: day,
		Items: []model.TripItem{{DayIndex: 1, StartTime: "08:00", PlaceName: "公园", ExerciseType: "walking", DurationMinutes: 30, EstimatedCalories: 150}},
	}
	require.NoError(t, db.Create(plan).Error)
	require.NoError(t, db.Create(&model.ExerciseRecord{UserID: user.ID, ExerciseType: "running", ActualCalories: 300, ActualDuration: 40, ExerciseDate: day}).Error)

	agg := newTestAggregator(db)
	balance, err := agg.DailyEnergyBalance(ctx, user.ID, day)
	require.NoError(t, err)

	assert.Equal(t, 300.0, balance.ActualBurnKcal)
	assert.Equal(t, 300.0, balance.BurnKcal)
	assert.Equal(t, 1, balance.ActualExerciseCount)
	assert.Equal(t, 40, balance.ActualExerciseDurationMin)
	require.NotNil(t, balance.GoalAchievementRate)
	assert.InDelta(t, 200.0, *balance.GoalAchievementRate, 0.001)
}

func TestDailyEnergyBalanceNoPlanLeavesAchievementRateNil(t *testing.T) {
	db := setupStatsDB(t)
	ctx := context.Background()
	user := &model.User{Username: "c", Email: "c@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	day := time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC)

	agg := newTestAggregator(db)
	balance, err := agg.DailyEnergyBalance(ctx, user.ID, day)
	require.NoError(t, err)

	assert.Nil(t, balance.GoalAchievementRate)
	assert.Equal(t, 0.0, balance.IntakeKcal)
	assert.Equal(t, 0.0, balance.BurnKcal)
}

func TestWeeklyEnergyBalanceAveragesOverActiveDays(t *testing.T) {
	db := setupStatsDB(t)
	ctx := context.Background()
	user := &model.User{Username: "d", Email: "d@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	weekStart := time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC)

	// Only one active day in the week: a diet record on day 2.
	activeDay := weekStart.AddDate(0, 0, 2)
	require.NoError(t, db.Create(&model.DietRecord{UserID: user.ID, DishName: "面", Calories: 500, MealSlot: "dinner", RecordDate: activeDay}).Error)

	agg := newTestAggregator(db)
	weekly, err := agg.WeeklyEnergyBalance(ctx, user.ID, weekStart)
	require.NoError(t, err)

	assert.Equal(t, 1, weekly.ActiveDays)
	assert.Len(t, weekly.DailyBreakdown, 7)
	assert.Equal(t, 500.0, weekly.TotalIntakeKcal)
	assert.Equal(t, 500.0, weekly.AvgIntakeKcal, "averages over active days, not 7")
}

func TestWeeklyEnergyBalanceNoActivityAvoidsDivideByZero(t *testing.T) {
	db := setupStatsDB(t)
	ctx := context.Background()
	user := &model.User{Username: "e", Email: "e@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	weekStart := time.Date(2026, 7, 13, 0, 0, 0, 0, time.UTC)

	agg := newTestAggregator(db)
	weekly, err := agg.WeeklyEnergyBalance(ctx, user.ID, weekStart)
	require.NoError(t, err)

	assert.Equal(t, 0, weekly.ActiveDays)
	assert.Equal(t, 0.0, weekly.AvgIntakeKcal)
	assert.Equal(t, 0.0, weekly.AvgBurnKcal)
}
