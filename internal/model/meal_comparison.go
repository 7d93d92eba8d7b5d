package model

import "time"

// MealComparison states, in the order the §4.8 state machine moves through
// them. The zero value never exists as a persisted row: a record is only
// created already in PendingAfter.
const (
	MealComparisonPendingAfter = "pending_after"
	MealComparisonCompleted    = "completed"
)

// MealComparison is the before/after diff engine's persisted entity.
type MealComparison struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64  `gorm:"not null;index" json:"user_id" validate:"required"`
	Status string `gorm:"size:20;not null;default:'pending_after'" json:"status"`

	BeforeImageURI  string  `gorm:"size:500;not null" json:"before_image_uri"`
	BeforeFeatures  JSONMap `gorm:"type:json;not null" json:"before_features"`
	AfterImageURI   *string `gorm:"size:500" json:"after_image_uri,omitempty"`
	AfterFeatures   JSONMap `gorm:"type:json" json:"after_features,omitempty"`

	ConsumptionRatio *float64 `json:"consumption_ratio,omitempty"`

	OriginalCalories float64 `json:"original_calories"`
	OriginalProtein  float64 `json:"original_protein"`
	OriginalFat      float64 `json:"original_fat"`
	OriginalCarbs    float64 `json:"original_carbs"`

	NetCalories *float64 `json:"net_calories,omitempty"`
	NetProtein  *float64 `json:"net_protein,omitempty"`
	NetFat      *float64 `json:"net_fat,omitempty"`
	NetCarbs    *float64 `json:"net_carbs,omitempty"`

	Narrative *string `gorm:"type:text" json:"narrative,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MealComparison) TableName() string {
	return "meal_comparisons"
}

// BeforeFeaturePayload is the typed shape of BeforeFeatures once parsed.
type BeforeFeaturePayload struct {
	Dishes []BeforeDishFeature    `json:"dishes"`
	Totals BeforeFeatureTotals    `json:"totals"`
}

type BeforeDishFeature struct {
	Name     string  `json:"name"`
	Weight   float64 `json:"weight"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

type BeforeFeatureTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// AfterFeaturePayload is the typed shape of AfterFeatures once parsed.
type AfterFeaturePayload struct {
	Dishes               []AfterDishFeature `json:"dishes"`
	OverallRemainingRatio float64            `json:"overall_remaining_ratio"`
	ConsumptionRatio      float64            `json:"consumption_ratio"`
	ComparisonAnalysis    string             `json:"comparison_analysis"`
}

type AfterDishFeature struct {
	Name            string   `json:"name"`
	RemainingRatio  float64  `json:"remaining_ratio"`
	RemainingWeight *float64 `json:"remaining_weight,omitempty"`
}

// DefaultConsumptionRatio is substituted when the multimodal comparison
// call fails — the record still completes because both images are in
// hand; see spec.md §4.8 failure policy.
const DefaultConsumptionRatio = 0.75
