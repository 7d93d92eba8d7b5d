package response

// TripPlanInfo mirrors model.TripPlan (spec.md §4.10).
type TripPlanInfo struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Destination string         `json:"destination"`
	StartDate   string         `json:"start_date"`
	EndDate     string         `json:"end_date"`
	Status      string         `json:"status"`
	Items       []TripItemInfo `json:"items"`
	CreatedAt   string         `json:"created_at"`
}

// TripItemInfo mirrors model.TripItem, enriched with its METs basis.
type TripItemInfo struct {
	ID                int64   `json:"id"`
	DayIndex          int     `json:"day_index"`
	StartTime         string  `json:"start_time"`
	PlaceName         string  `json:"place_name"`
	ExerciseType      string  `json:"exercise_type"`
	DurationMinutes   int     `json:"duration_minutes"`
	EstimatedCalories float64 `json:"estimated_calories"`
	Notes             string  `json:"notes,omitempty"`
	METsValue         float64 `json:"mets_value,omitempty"`
	CalculationBasis  string  `json:"calculation_basis,omitempty"`
}

// ExerciseRecordInfo mirrors model.ExerciseRecord.
type ExerciseRecordInfo struct {
	ID              int64    `json:"id"`
	ExerciseType    string   `json:"exercise_type"`
	ActualCalories  float64  `json:"actual_calories"`
	ActualDuration  int      `json:"actual_duration"`
	DistanceKm      *float64 `json:"distance_km,omitempty"`
	TripPlanID      *int64   `json:"trip_plan_id,omitempty"`
	PlannedCalories *float64 `json:"planned_calories,omitempty"`
	AchievementRate *float64 `json:"achievement_rate,omitempty"`
	ExerciseDate    string   `json:"exercise_date"`
	CreatedAt       string   `json:"created_at"`
}
