package repository

import (
	"context"
	"testing"
	"time"

	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAccountDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.DietRecord{}, &model.MenuRecognition{},
		&model.TripPlan{}, &model.TripItem{}, &model.ExerciseRecord{}, &model.MealComparison{},
	))
	return db
}

func TestDeleteAccountCascadesEverything(t *testing.T) {
	db := setupAccountDB(t)
	user := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)

	plan := &model.TripPlan{
		UserID: user.ID, Title: "Trip", Destination: "公园",
		StartDate: time.Now(), EndDate: time.Now(),
		Items: []model.TripItem{{DayIndex: 1, StartTime: "08:00", PlaceName: "公园", ExerciseType: "walking", DurationMinutes: 30, EstimatedCalories: 100}},
	}
	require.NoError(t, db.Create(plan).Error)

	require.NoError(t, db.Create(&model.ExerciseRecord{UserID: user.ID, ExerciseType: "running", ActualCalories: 200, ActualDuration: 30, ExerciseDate: time.Now()}).Error)
	require.NoError(t, db.Create(&model.DietRecord{UserID: user.ID, DishName: "米饭", MealSlot: "lunch", RecordDate: time.Now()}).Error)
	require.NoError(t, db.Create(&model.MealComparison{UserID: user.ID, BeforeImageURI: "x"}).Error)
	require.NoError(t, db.Create(&model.MenuRecognition{UserID: &user.ID}).Error)

	deleter := NewAccountDeleter(db)
	counts, err := deleter.DeleteAccount(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["exercise_record"])
	assert.Equal(t, int64(1), counts["trip_item"])
	assert.Equal(t, int64(1), counts["trip_plan"])
	assert.Equal(t, int64(1), counts["diet_record"])
	assert.Equal(t, int64(1), counts["meal_comparison"])
	assert.Equal(t, int64(1), counts["menu_recognition"])
	assert.Equal(t, int64(1), counts["user"])

	var userCount, planCount, itemCount, exerciseCount, dietCount, comparisonCount, menuCount int64
	db.Model(&model.User{}).Where("id = ?", user.ID).Count(&userCount)
	db.Model(&model.TripPlan{}).Where("user_id = ?", user.ID).Count(&planCount)
	db.Model(&model.TripItem{}).Where("trip_plan_id = ?", plan.ID).Count(&itemCount)
	db.Model(&model.ExerciseRecord{}).Where("user_id = ?", user.ID).Count(&exerciseCount)
	db.Model(&model.DietRecord{}).Where("user_id = ?", user.ID).Count(&dietCount)
	db.Model(&model.MealComparison{}).Where("user_id = ?", user.ID).Count(&comparisonCount)
	db.Model(&model.MenuRecognition{}).Where("user_id = ?", user.ID).Count(&menuCount)

	assert.Zero(t, userCount)
	assert.Zero(t, planCount)
	assert.Zero(t, itemCount)
	assert.Zero(t, exerciseCount)
	assert.Zero(t, dietCount)
	assert.Zero(t, comparisonCount)
	assert.Zero(t, menuCount)
}
