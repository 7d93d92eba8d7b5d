package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TheBreeze12/lifehub-backend/internal/aiclient"
	"github.com/stretchr/testify/assert"
)

func fixedNow(t time.Time) func() {
	original := now
	now = func() time.Time { return t }
	return func() { now = original }
}

func TestExtractIntentSentinelDateSubstitutedWithToday(t *testing.T) {
	defer fixedNow(time.Date(2026, 7, 31, 9, 0, 0, 0, time.UTC))()

	response := `{"destination":"朝阳公园","startDate":"2026-01-27","endDate":"1970-01-01","days":0,"calories_target":400,"exercise_type":"running"}`
	adapter := aiclient.NewAdapter(&stubVendor{response: response}, nil)
	gen := NewExerciseIntentGenerator(adapter, &aiclient.Config{Model: "llm"})

	intent, err := gen.ExtractIntent(context.Background(), "我想去朝阳公园跑步", nil, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, now(), intent.StartDate)
	assert.Equal(t, 1, intent.Days)
}

func TestExtractIntentDaysDerivedFromBothDates(t *testing.T) {
	response := `{"destination":"西湖","startDate":"2026-08-01","endDate":"2026-08-03","calories_target":600,"exercise_type":"walking"}`
	adapter := aiclient.NewAdapter(&stubVendor{response: response}, nil)
	gen := NewExerciseIntentGenerator(adapter, &aiclient.Config{Model: "llm"})

	intent, err := gen.ExtractIntent(context.Background(), "去西湖散步三天", nil, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 3, intent.Days)
}

func TestResolveDestinationPrefersQueryCity(t *testing.T) {
	dest := resolveDestination("附近", "我想去杭州市附近跑步", nil)
	assert.Equal(t, "杭州市", dest)
}

func TestResolveDestinationFallsBackToGeocodeStub(t *testing.T) {
	dest := resolveDestination("nearby", "我想运动", &LatLon{Lat: 30.27, Lon: 120.15})
	assert.Contains(t, dest, "30.27")
}

func TestResolveDestinationFinalFallback(t *testing.T) {
	dest := resolveDestination("", "我想运动", nil)
	assert.Equal(t, "运动场所", dest)
}

func TestResolveDestinationConcreteUnchanged(t *testing.T) {
	dest := resolveDestination("奥林匹克公园", "去那边运动", nil)
	assert.Equal(t, "奥林匹克公园", dest)
}

func TestGeneratePlanFallbackOnLLMFailure(t *testing.T) {
	adapter := aiclient.NewAdapter(&stubVendor{err: errors.New("timeout")}, nil)
	gen := NewExerciseIntentGenerator(adapter, &aiclient.Config{Model: "llm"})

	intent := Intent{Destination: "运动场所", StartDate: now(), EndDate: now(), Days: 1, CaloriesTarget: 500}
	plan := gen.GeneratePlan(context.Background(), intent, "随便动一动")

	assert.NotEmpty(t, plan.Items)
	var total float64
	for _, it := range plan.Items {
		total += it.Cost
	}
	assert.InDelta(t, 500, total, 1)
}

func TestEnforceDiversityDeduplicatesPlaceNames(t *testing.T) {
	items := []PlanItem{
		{PlaceType: "park", PlaceName: "人民公园"},
		{PlaceType: "park", PlaceName: "人民公园"},
		{PlaceType: "park", PlaceName: "人民公园"},
	}
	result := enforceDiversity(items)
	names := map[string]bool{}
	for _, it := range result {
		names[it.PlaceName] = true
	}
	assert.Len(t, names, 3)
}

func TestAdjustStartTimesAppliesMealKeyword(t *testing.T) {
	items := []PlanItem{{DayIndex: 1}, {DayIndex: 2}}
	result := adjustStartTimes(items, "帮我安排早餐后的运动", now())
	for _, it := range result {
		assert.GreaterOrEqual(t, clockMinutes(it.StartTime), clockMinutes("06:30"))
		assert.LessOrEqual(t, clockMinutes(it.StartTime), clockMinutes("21:30"))
	}
}

func TestSanitizeItemsDropsForbiddenTokensAndTruncates(t *testing.T) {
	longName := "示例测试公园滨江步道滨江步道滨江步道滨江步道滨江步道滨江步道滨江步道滨江步道滨江步道"
	items := []PlanItem{{PlaceName: longName}}
	result := sanitizeItems(items)
	assert.LessOrEqual(t, len([]rune(result[0].PlaceName)), 30)
}

func TestSanitizeItemsDefaultsEmptyName(t *testing.T) {
	items := []PlanItem{{PlaceName: "示例"}}
	result := sanitizeItems(items)
	assert.Equal(t, "运动场所", result[0].PlaceName)
}
