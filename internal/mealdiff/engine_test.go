package mealdiff

import (
	"context"
	"errors"
	"testing"

	"github.com/TheBreeze12/lifehub-backend/internal/aiclient"
	stderrors "github.com/TheBreeze12/lifehub-backend/internal/errors"
	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"github.com/TheBreeze12/lifehub-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubVendor struct {
	response string
	err      error
}

func (v *stubVendor) Call(ctx context.Context, prompt string, cfg *aiclient.Config) (string, error) {
	return v.response, v.err
}

func (v *stubVendor) CallMultimodal(ctx context.Context, parts []aiclient.ContentPart, cfg *aiclient.Config) (string, error) {
	return v.response, v.err
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.MealComparison{}))
	return db
}

func TestCreateBeforePersistsOriginalTotals(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewMealComparisonRepository(db)
	response := `{"dishes":[{"name":"鸡胸肉","weight":150,"calories":250,"protein":40,"fat":5,"carbs":0}],"totals":{"calories":250,"protein":40,"fat":5,"carbs":0}}`
	adapter := aiclient.NewAdapter(&stubVendor{response: response}, nil)
	engine := NewEngine(adapter, &aiclient.Config{Model: "vision"}, repo)

	mc, err := engine.CreateBefore(context.Background(), 1, "uri://before.jpg", "data:image/png;base64,xxx")
	require.NoError(t, err)
	assert.Equal(t, model.MealComparisonPendingAfter, mc.Status)
	assert.Equal(t, 250.0, mc.OriginalCalories)
}

func TestCreateBeforeLLMFailurePropagatesUpstreamError(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewMealComparisonRepository(db)
	adapter := aiclient.NewAdapter(&stubVendor{err: errors.New("timeout")}, nil)
	engine := NewEngine(adapter, &aiclient.Config{Model: "vision"}, repo)

	_, err := engine.CreateBefore(context.Background(), 1, "uri://before.jpg", "data:image/png;base64,xxx")
	require.Error(t, err)
}

func TestCompleteAfterNotFound(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewMealComparisonRepository(db)
	adapter := aiclient.NewAdapter(&stubVendor{response: "{}"}, nil)
	engine := NewEngine(adapter, &aiclient.Config{Model: "vision"}, repo)

	_, err := engine.CompleteAfter(context.Background(), 999, 1, "uri://after.jpg", "data:image/png;base64,xxx")
	require.Error(t, err)
	assert.True(t, stderrors.IsNotFound(err))
}

func TestCompleteAfterConflictWhenAlreadyCompleted(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewMealComparisonRepository(db)
	mc := &model.MealComparison{UserID: 1, Status: model.MealComparisonCompleted, BeforeImageURI: "x", OriginalCalories: 100}
	require.NoError(t, repo.Create(context.Background(), mc))

	adapter := aiclient.NewAdapter(&stubVendor{response: "{}"}, nil)
	engine := NewEngine(adapter, &aiclient.Config{Model: "vision"}, repo)

	_, err := engine.CompleteAfter(context.Background(), mc.ID, 1, "uri://after.jpg", "data:image/png;base64,xxx")
	require.Error(t, err)
	assert.True(t, stderrors.IsConflict(err))
}

func TestCompleteAfterHappyPathComputesNetMacros(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewMealComparisonRepository(db)
	mc := &model.MealComparison{
		UserID: 1, Status: model.MealComparisonPendingAfter, BeforeImageURI: "x",
		OriginalCalories: 400, OriginalProtein: 30, OriginalFat: 10, OriginalCarbs: 50,
	}
	require.NoError(t, repo.Create(context.Background(), mc))

	response := `{"dishes":[{"name":"鸡胸肉","remaining_ratio":0.3}],"overall_remaining_ratio":0.3,"consumption_ratio":0.7,"comparison_analysis":"吃掉了大部分"}`
	adapter := aiclient.NewAdapter(&stubVendor{response: response}, nil)
	engine := NewEngine(adapter, &aiclient.Config{Model: "vision"}, repo)

	updated, err := engine.CompleteAfter(context.Background(), mc.ID, 1, "uri://after.jpg", "data:image/png;base64,xxx")
	require.NoError(t, err)
	assert.Equal(t, model.MealComparisonCompleted, updated.Status)
	require.NotNil(t, updated.ConsumptionRatio)
	assert.InDelta(t, 0.7, *updated.ConsumptionRatio, 1e-9)
	require.NotNil(t, updated.NetCalories)
	assert.InDelta(t, 280, *updated.NetCalories, 1e-9)
}

func TestCompleteAfterLLMFailureUsesDefaultRatio(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewMealComparisonRepository(db)
	mc := &model.MealComparison{
		UserID: 1, Status: model.MealComparisonPendingAfter, BeforeImageURI: "x",
		OriginalCalories: 400, OriginalProtein: 30, OriginalFat: 10, OriginalCarbs: 50,
	}
	require.NoError(t, repo.Create(context.Background(), mc))

	adapter := aiclient.NewAdapter(&stubVendor{err: errors.New("vendor down")}, nil)
	engine := NewEngine(adapter, &aiclient.Config{Model: "vision"}, repo)

	updated, err := engine.CompleteAfter(context.Background(), mc.ID, 1, "uri://after.jpg", "data:image/png;base64,xxx")
	require.NoError(t, err)
	assert.Equal(t, model.MealComparisonCompleted, updated.Status)
	assert.InDelta(t, model.DefaultConsumptionRatio, *updated.ConsumptionRatio, 1e-9)
}

func TestAdjustRecomputesNetMacrosWithoutModelCall(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewMealComparisonRepository(db)
	ratio := 0.7
	netCal := 280.0
	mc := &model.MealComparison{
		UserID: 1, Status: model.MealComparisonCompleted, BeforeImageURI: "x",
		OriginalCalories: 400, ConsumptionRatio: &ratio, NetCalories: &netCal,
	}
	require.NoError(t, repo.Create(context.Background(), mc))

	adapter := aiclient.NewAdapter(&stubVendor{response: "should not be called"}, nil)
	engine := NewEngine(adapter, &aiclient.Config{Model: "vision"}, repo)

	updated, err := engine.Adjust(context.Background(), mc.ID, 1, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, *updated.ConsumptionRatio, 1e-9)
	assert.InDelta(t, 200, *updated.NetCalories, 1e-9)
}

func TestAdjustClampsOutOfRangeRatio(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewMealComparisonRepository(db)
	mc := &model.MealComparison{UserID: 1, Status: model.MealComparisonCompleted, BeforeImageURI: "x", OriginalCalories: 100}
	require.NoError(t, repo.Create(context.Background(), mc))

	adapter := aiclient.NewAdapter(&stubVendor{}, nil)
	engine := NewEngine(adapter, &aiclient.Config{Model: "vision"}, repo)

	updated, err := engine.Adjust(context.Background(), mc.ID, 1, 1.5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, *updated.ConsumptionRatio)
}
