package mets

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCanonicalDirect(t *testing.T) {
	assert.Equal(t, "running", Normalize("Running"))
}

func TestNormalizeChineseAlias(t *testing.T) {
	assert.Equal(t, "cycling", Normalize("骑行"))
}

func TestNormalizeSubstringFallback(t *testing.T) {
	assert.Equal(t, "swimming", Normalize("晨泳 swimming pool"))
}

func TestNormalizeUnknownReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", Normalize("quantum tunnelling"))
	assert.Equal(t, FallbackMETs, Lookup("quantum tunnelling"))
}

func TestCaloriesZeroDuration(t *testing.T) {
	assert.Equal(t, 0.0, Calories("running", 70, 0))
	assert.Equal(t, 0.0, Calories("running", 70, -5))
}

func TestCaloriesDefaultWeight(t *testing.T) {
	withDefault := Calories("running", 0, 30)
	explicit := Calories("running", DefaultWeightKg, 30)
	assert.Equal(t, explicit, withDefault)
}

func TestDurationForTargetInversion(t *testing.T) {
	exerciseType := "running"
	weight := 65.0
	target := 400.0

	duration := DurationForTarget(exerciseType, weight, target)
	got := Calories(exerciseType, weight, float64(duration))

	tolerance := 0.05 * target
	assert.LessOrEqual(t, math.Abs(got-target), tolerance)
}

func TestDurationForTargetFloor(t *testing.T) {
	assert.Equal(t, 1, DurationForTarget("running", 70, 0.001))
}

func TestEnrichReportsBasis(t *testing.T) {
	e := Enrich("骑行", 80, 45)
	assert.Equal(t, 7.5, e.METsValue)
	assert.NotEmpty(t, e.CalculationBasis)
	assert.Greater(t, e.Calories, 0.0)
}
