package stats

import (
	"context"
	"testing"
	"time"

	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyNutrientsComputesRatiosAndStatus(t *testing.T) {
	db := setupStatsDB(t)
	ctx := context.Background()
	user := &model.User{Username: "f", Email: "f@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	day := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	// protein 50g (200kcal), fat 20g (180kcal), carbs 150g (600kcal) -> total 980
	require.NoError(t, db.Create(&model.DietRecord{
		UserID: user.ID, DishName: "套餐", Calories: 980, Protein: 50, Fat: 20, Carbs: 150,
		MealSlot: "lunch", RecordDate: day,
	}).Error)

	agg := newTestAggregator(db)
	n, err := agg.DailyNutrients(ctx, user.ID, day)
	require.NoError(t, err)

	assert.Equal(t, 200.0, n.ProteinKcal)
	assert.Equal(t, 180.0, n.FatKcal)
	assert.Equal(t, 600.0, n.CarbsKcal)
	assert.InDelta(t, 20.4, n.ProteinPct, 0.1)
	assert.InDelta(t, 18.37, n.FatPct, 0.1)
	assert.InDelta(t, 61.22, n.CarbsPct, 0.1)

	assert.Equal(t, "high", n.Guidelines["protein"].Status, "20.4%% protein exceeds the 15%% max")
	assert.Equal(t, "low", n.Guidelines["fat"].Status, "18.4%% fat is below the 20%% min")
	assert.Equal(t, "normal", n.Guidelines["carbs"].Status)
}

func TestDailyNutrientsNoDataReturnsLowForAll(t *testing.T) {
	db := setupStatsDB(t)
	ctx := context.Background()
	user := &model.User{Username: "g", Email: "g@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	day := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	agg := newTestAggregator(db)
	n, err := agg.DailyNutrients(ctx, user.ID, day)
	require.NoError(t, err)

	assert.Equal(t, "low", n.Guidelines["protein"].Status)
	assert.Equal(t, "low", n.Guidelines["fat"].Status)
	assert.Equal(t, "low", n.Guidelines["carbs"].Status)
	assert.Equal(t, 0.0, n.ProteinPct)
}
