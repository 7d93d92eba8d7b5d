package request

// GenerateTripRequest is the body of POST /api/trip/generate (spec.md §4.10).
type GenerateTripRequest struct {
	Query          string   `json:"query" binding:"required,min=1,max=500"`
	CaloriesIntake *float64 `json:"calories_intake" binding:"omitempty,gte=0"`
	Preferences    []string `json:"preferences" binding:"omitempty,dive,min=1,max=50"`
	Lat            *float64 `json:"lat" binding:"omitempty"`
	Lon            *float64 `json:"lon" binding:"omitempty"`
}

// RecordExerciseRequest is the body of POST /api/exercise/record.
type RecordExerciseRequest struct {
	ExerciseType    string   `json:"exercise_type" binding:"required"`
	ActualCalories  float64  `json:"actual_calories" binding:"omitempty,gte=0"`
	ActualDuration  int      `json:"actual_duration" binding:"required,gt=0"`
	DistanceKm      *float64 `json:"distance_km" binding:"omitempty,gte=0"`
	TripPlanID      *int64   `json:"trip_plan_id" binding:"omitempty,min=1"`
	PlannedCalories *float64 `json:"planned_calories" binding:"omitempty,gte=0"`
	PlannedDuration *int     `json:"planned_duration" binding:"omitempty,gt=0"`
	ExerciseDate    string   `json:"exercise_date" binding:"required,datetime=2006-01-02"`
	Notes           *string  `json:"notes" binding:"omitempty,max=500"`
}

// ExerciseRecordListParams are query parameters for GET /api/exercise/records.
type ExerciseRecordListParams struct {
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
}
