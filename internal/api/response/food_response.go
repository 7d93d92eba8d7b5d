package response

// FoodAnalysisResponse mirrors analyzer.NutritionResult (spec.md §4.6).
type FoodAnalysisResponse struct {
	Calories                 float64                    `json:"calories"`
	Protein                  float64                    `json:"protein"`
	Fat                      float64                    `json:"fat"`
	Carbs                    float64                    `json:"carbs"`
	Recommendation           string                     `json:"recommendation"`
	Allergens                []string                   `json:"allergens"`
	AllergenReasoning        string                     `json:"allergen_reasoning"`
	CookingMethodComparisons []CookingMethodComparison  `json:"cooking_method_comparisons,omitempty"`
}

// CookingMethodComparison is one alternative-preparation entry.
type CookingMethodComparison struct {
	Method      string  `json:"method"`
	Calories    float64 `json:"calories"`
	Fat         float64 `json:"fat"`
	Description string  `json:"description"`
}

// MenuRecognitionResponse is the response of POST /api/food/recognize
// (spec.md §4.7).
type MenuRecognitionResponse struct {
	ID     int64              `json:"id,omitempty"`
	Dishes []RecognizedDish   `json:"dishes"`
}

// RecognizedDish is one dish in a recognized menu.
type RecognizedDish struct {
	Name          string  `json:"name"`
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Fat           float64 `json:"fat"`
	Carbs         float64 `json:"carbs"`
	IsRecommended bool    `json:"isRecommended"`
	Reason        string  `json:"reason"`
}

// DietRecordInfo represents one logged meal.
type DietRecordInfo struct {
	ID         int64   `json:"id"`
	DishName   string  `json:"dish_name"`
	Calories   float64 `json:"calories"`
	Protein    float64 `json:"protein"`
	Fat        float64 `json:"fat"`
	Carbs      float64 `json:"carbs"`
	MealSlot   string  `json:"meal_slot"`
	RecordDate string  `json:"record_date"`
	CreatedAt  string  `json:"created_at"`
}

// AllergenCheckResponse carries the keyword-only findings of allergen.Check.
type AllergenCheckResponse struct {
	DetectedAllergens []AllergenFinding `json:"detected_allergens"`
	Warnings          []string          `json:"warnings"`
	HasAllergens      bool              `json:"has_allergens"`
	HasWarnings       bool              `json:"has_warnings"`
}

// AllergenFinding is one entry of AllergenCheckResponse.
type AllergenFinding struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Source     string `json:"source"`
	Confidence string `json:"confidence"`
}

// AllergenCategoryInfo is one entry of GET /api/food/allergen/categories.
type AllergenCategoryInfo struct {
	Code        string `json:"code"`
	NameEN      string `json:"name_en"`
	NameCN      string `json:"name_cn"`
	Description string `json:"description"`
}

// MealComparisonResponse mirrors model.MealComparison (spec.md §4.8).
type MealComparisonResponse struct {
	ID               int64    `json:"id"`
	Status           string   `json:"status"`
	BeforeImageURI   string   `json:"before_image_uri"`
	AfterImageURI    string   `json:"after_image_uri,omitempty"`
	ConsumptionRatio *float64 `json:"consumption_ratio,omitempty"`
	OriginalCalories float64  `json:"original_calories"`
	OriginalProtein  float64  `json:"original_protein"`
	OriginalFat      float64  `json:"original_fat"`
	OriginalCarbs    float64  `json:"original_carbs"`
	NetCalories      *float64 `json:"net_calories,omitempty"`
	NetProtein       *float64 `json:"net_protein,omitempty"`
	NetFat           *float64 `json:"net_fat,omitempty"`
	NetCarbs         *float64 `json:"net_carbs,omitempty"`
	Narrative        string   `json:"narrative,omitempty"`
	CreatedAt        string   `json:"created_at"`
}

// RecommendationInfo mirrors recommend.Recommendation.
type RecommendationInfo struct {
	FoodName string   `json:"food_name"`
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Fat      float64  `json:"fat"`
	Carbs    float64  `json:"carbs"`
	Score    float64  `json:"score"`
	Reason   string   `json:"reason"`
	Tags     []string `json:"tags"`
}
