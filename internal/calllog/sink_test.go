package calllog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/TheBreeze12/lifehub-backend/internal/aiclient"
	"github.com/TheBreeze12/lifehub-backend/internal/model"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.AiCallLog{}))
	return db
}

func TestRecordSwallowsNothingOnSuccess(t *testing.T) {
	db := setupDB(t)
	sink := NewSink(db)

	sink.Record(aiclient.CallLogEntry{
		CallType:      model.CallTypeFoodAnalysis,
		ModelID:       "gpt-4",
		InputSummary:  "番茄炒蛋",
		OutputSummary: `{"calories":100}`,
		Success:       true,
		LatencyMs:     120,
	})

	var count int64
	db.Model(&model.AiCallLog{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestStatsEmptyWhenNoCalls(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository(db)
	stats, err := repo.Stats(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalCalls)
}

func TestStatsComputesSuccessRate(t *testing.T) {
	db := setupDB(t)
	sink := NewSink(db)
	uid := int64(7)
	sink.Record(aiclient.CallLogEntry{UserID: &uid, CallType: "food-analysis", ModelID: "m1", Success: true, LatencyMs: 100})
	sink.Record(aiclient.CallLogEntry{UserID: &uid, CallType: "food-analysis", ModelID: "m1", Success: false, ErrorMessage: "boom", LatencyMs: 200})

	repo := NewRepository(db)
	stats, err := repo.Stats(uid)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalCalls)
	assert.Equal(t, int64(1), stats.SuccessCount)
	assert.Equal(t, int64(1), stats.FailureCount)
	assert.InDelta(t, 50.0, stats.SuccessRate, 0.01)
	assert.Equal(t, int64(2), stats.CallTypeDistribution["food-analysis"])
}
