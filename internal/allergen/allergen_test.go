package allergen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckDetectsEggWithHighConfidence(t *testing.T) {
	result := Check("番茄炒蛋", nil, nil)
	assert.True(t, result.HasAllergens)
	var egg *Finding
	for i := range result.DetectedAllergens {
		if result.DetectedAllergens[i].Code == Egg {
			egg = &result.DetectedAllergens[i]
		}
	}
	if assert.NotNil(t, egg) {
		assert.Equal(t, "high", egg.Confidence)
	}
}

func TestCheckUserWarning(t *testing.T) {
	result := Check("番茄炒蛋", nil, []string{"egg"})
	assert.True(t, result.HasWarnings)
}

func TestMergeProvenance(t *testing.T) {
	kw := Check("蛋炒饭", nil, nil)
	merged := Merge("蛋炒饭", kw, []string{"egg", "soy"}, "contains egg and soy", nil, nil)

	byCode := map[Code]MergedFinding{}
	for _, f := range merged.DetectedAllergens {
		byCode[f.Code] = f
	}

	egg, ok := byCode[Egg]
	assert.True(t, ok)
	assert.Equal(t, "keyword+ai", egg.Source)
	assert.Equal(t, "high", egg.Confidence)

	soy, ok := byCode[Soy]
	assert.True(t, ok)
	assert.Equal(t, "ai", soy.Source)
	assert.Equal(t, "medium", soy.Confidence)

	assert.Equal(t, 2, merged.DetectionMethods.MergedCount)
}

func TestMergeCountsUnion(t *testing.T) {
	kw := CheckResult{DetectedAllergens: []Finding{{Code: Milk, Confidence: "medium"}}}
	merged := Merge("x", kw, []string{"milk", "fish"}, "", nil, nil)
	assert.Equal(t, 1, merged.DetectionMethods.KeywordCount)
	assert.Equal(t, 2, merged.DetectionMethods.AICount)
	assert.Equal(t, 2, merged.DetectionMethods.MergedCount)
}

func TestMergeGraphHintSource(t *testing.T) {
	merged := Merge("x", CheckResult{}, nil, "", nil, []GraphHint{{Code: Shellfish}})
	assert.Len(t, merged.DetectedAllergens, 1)
	assert.Equal(t, "graph", merged.DetectedAllergens[0].Source)
	assert.Equal(t, "medium", merged.DetectedAllergens[0].Confidence)
}

func TestNormalizeCodeUnknownDropped(t *testing.T) {
	merged := Merge("x", CheckResult{}, []string{"unknown-thing"}, "", nil, nil)
	assert.Empty(t, merged.DetectedAllergens)
}
