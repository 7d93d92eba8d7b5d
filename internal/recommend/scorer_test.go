package recommend

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

func setupRecommendDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.DietRecord{}))
	return db
}

func TestRecommendExcludesAllergenDishes(t *testing.T) {
	db := setupRecommendDB(t)
	ctx := context.Background()
	user := &model.User{
		Username: "a", Email: "a@example.com", PasswordHash: "x",
		HealthGoal: "balanced", Allergens: model.JSONSlice{"shellfish", "egg"},
	}
	require.NoError(t, db.Create(user).Error)

	scorer := NewScorer(repository.NewDietRecordRepository(db))
	today := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	recs, err := scorer.Recommend(ctx, user, "lunch", 20, today)
	require.NoError(t, err)

	for _, r := range recs {
		assert.NotEqual(t, "白灼虾", r.FoodName)
		assert.NotEqual(t, "虾仁炒饭", r.FoodName)
	}
}

func TestRecommendReduceFatPrefersLowCalorieHighProtein(t *testing.T) {
	db := setupRecommendDB(t)
	ctx := context.Background()
	user := &model.User{Username: "b", Email: "b@example.com", PasswordHash: "x", HealthGoal: "reduce-fat"}
	require.NoError(t, db.Create(user).Error)

	scorer := NewScorer(repository.NewDietRecordRepository(db))
	today := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	recs, err := scorer.Recommend(ctx, user, "lunch", 3, today)
	require.NoError(t, err)

	require.NotEmpty(t, recs)
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Score, recs[i].Score, "results sorted descending by score")
	}
	// 红烧肉 is high-fat, high-kcal: should never outrank 鸡胸肉沙拉 for reduce-fat.
	var beefIdx, chickenIdx = -1, -1
	for i, r := range recs {
		if r.FoodName == "红烧肉" {
			beefIdx = i
		}
		if r.FoodName == "鸡胸肉沙拉" {
			chickenIdx = i
		}
	}
	if beefIdx >= 0 && chickenIdx >= 0 {
		assert.Less(t, chickenIdx, beefIdx)
	}
}

func TestRecommendVarietyPenalizesAlreadyEatenDish(t *testing.T) {
	db := setupRecommendDB(t)
	ctx := context.Background()
	user := &model.User{Username: "c", Email: "c@example.com", PasswordHash: "x", HealthGoal: "balanced"}
	require.NoError(t, db.Create(user).Error)
	today := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&model.DietRecord{
		UserID: user.ID, DishName: "糙米饭套餐", Calories: 320, Protein: 10, Fat: 5, Carbs: 60,
		MealSlot: "lunch", RecordDate: today,
	}).Error)

	scorer := NewScorer(repository.NewDietRecordRepository(db))
	recs, err := scorer.Recommend(ctx, user, "lunch", 20, today)
	require.NoError(t, err)

	for _, r := range recs {
		if r.FoodName == "糙米饭套餐" {
			// variety_score contributes 0 instead of 15 for an already-eaten dish;
			// confirm the score stays within the non-variety component ceiling.
			assert.LessOrEqual(t, r.Score, 85.0)
		}
	}
}

func TestRecommendRespectsLimit(t *testing.T) {
	db := setupRecommendDB(t)
	ctx := context.Background()
	user := &model.User{Username: "d", Email: "d@example.com", PasswordHash: "x", HealthGoal: "balanced"}
	require.NoError(t, db.Create(user).Error)

	scorer := NewScorer(repository.NewDietRecordRepository(db))
	today := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	recs, err := scorer.Recommend(ctx, user, "lunch", 2, today)
	require.NoError(t, err)

	assert.Len(t, recs, 2)
}

func TestRecommendTagsDeriveFromThresholds(t *testing.T) {
	db := setupRecommendDB(t)
	ctx := context.Background()
	user := &model.User{Username: "e", Email: "e@example.com", PasswordHash: "x", HealthGoal: "balanced"}
	require.NoError(t, db.Create(user).Error)

	scorer := NewScorer(repository.NewDietRecordRepository(db))
	today := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	recs, err := scorer.Recommend(ctx, user, "breakfast", 20, today)
	require.NoError(t, err)

	found := false
	for _, r := range recs {
		if r.FoodName == "水煮蛋" {
			found = true
			assert.Contains(t, r.Tags, "低卡")
		}
	}
	assert.True(t, found)
}
