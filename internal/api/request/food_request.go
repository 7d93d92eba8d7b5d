package request

// AnalyzeFoodRequest is the body of POST /api/food/analyze (spec.md §4.6).
type AnalyzeFoodRequest struct {
	FoodName string `json:"food_name" binding:"required,min=1,max=200"`
}

// AllergenCheckRequest is the body of POST /api/food/allergen/check
// (spec.md §4.9 "check").
type AllergenCheckRequest struct {
	FoodName    string   `json:"food_name" binding:"required,min=1,max=200"`
	Ingredients []string `json:"ingredients" binding:"omitempty,dive,min=1,max=100"`
}

// RecordDietRequest is the body of POST /api/food/record.
type RecordDietRequest struct {
	DishName   string  `json:"dish_name" binding:"required,min=1,max=200"`
	Calories   float64 `json:"calories" binding:"gte=0"`
	Protein    float64 `json:"protein" binding:"gte=0"`
	Fat        float64 `json:"fat" binding:"gte=0"`
	Carbs      float64 `json:"carbs" binding:"gte=0"`
	MealSlot   string  `json:"meal_slot" binding:"required,oneof=breakfast lunch dinner snack"`
	RecordDate string  `json:"record_date" binding:"required,datetime=2006-01-02"`
}

// DietRecordListParams are the query parameters for GET /api/food/records.
type DietRecordListParams struct {
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// RecommendFoodParams are the query parameters for GET /api/food/recommend
// (spec.md §4.13).
type RecommendFoodParams struct {
	MealType string `form:"meal_type" binding:"required,oneof=breakfast lunch dinner snack"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=20"`
}

// AdjustMealComparisonRequest is the body of PUT
// /api/food/meal/{comparison_id}/adjust (spec.md §4.8 manual override).
type AdjustMealComparisonRequest struct {
	ConsumptionRatio float64 `json:"consumption_ratio" binding:"required,min=0,max=1"`
}
