package model

import "time"

// TripPlan is a generated exercise plan owned by a user. TripItem rows are
// composed into it; deleting a plan cascades to its items.
type TripPlan struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64     `gorm:"not null;index" json:"user_id" validate:"required"`
	Title       string    `gorm:"size:200;not null" json:"title" validate:"required,min=1,max=200"`
	Destination string    `gorm:"size:200;not null" json:"destination" validate:"required,max=200"`
	Lat         *float64  `json:"lat,omitempty"`
	Lon         *float64  `json:"lon,omitempty"`
	StartDate   time.Time `gorm:"type:date;not null" json:"start_date" validate:"required"`
	EndDate     time.Time `gorm:"type:date;not null" json:"end_date" validate:"required,gtefield=StartDate"`
	Travelers   JSONSlice `gorm:"type:json" json:"travelers"`
	Status      string    `gorm:"size:20;default:'planning'" json:"status" validate:"oneof=planning ongoing done"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Items []TripItem `gorm:"foreignKey:TripPlanID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (TripPlan) TableName() string {
	return "trip_plans"
}

// Days returns the inclusive day-count of the plan, used to bound
// TripItem.DayIndex.
func (p *TripPlan) Days() int {
	d := int(p.EndDate.Sub(p.StartDate).Hours()/24) + 1
	if d < 1 {
		return 1
	}
	return d
}

// TripItem is a single scheduled activity within a TripPlan.
type TripItem struct {
	ID               int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	TripPlanID       int64    `gorm:"not null;index" json:"trip_plan_id" validate:"required"`
	DayIndex         int      `gorm:"not null" json:"day_index" validate:"required,min=1"`
	StartTime        string   `gorm:"size:5;not null" json:"start_time" validate:"required"`
	PlaceName        string   `gorm:"size:200;not null" json:"place_name" validate:"required,max=200"`
	ExerciseType     string   `gorm:"size:30;not null" json:"exercise_type" validate:"required"`
	DurationMinutes  int      `gorm:"not null" json:"duration_minutes" validate:"required,gt=0"`
	EstimatedCalories float64 `gorm:"not null" json:"estimated_calories" validate:"gte=0"`
	Lat              *float64 `json:"lat,omitempty"`
	Lon              *float64 `json:"lon,omitempty"`
	Notes            *string  `gorm:"size:500" json:"notes,omitempty"`
	SortOrder        int      `gorm:"not null;default:0" json:"sort_order"`

	METsValue        *float64 `json:"mets_value,omitempty" gorm:"-"`
	CalculationBasis *string  `json:"calculation_basis,omitempty" gorm:"-"`
}

func (TripItem) TableName() string {
	return "trip_items"
}

// ExerciseRecord logs an actually-performed workout, optionally linked to
// a TripPlan it was scheduled from (weak reference, set-null on delete).
type ExerciseRecord struct {
	ID                int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            int64      `gorm:"not null;index:user_date" json:"user_id" validate:"required"`
	ExerciseType      string     `gorm:"size:30;not null" json:"exercise_type" validate:"required"`
	ActualCalories    float64    `gorm:"not null" json:"actual_calories" validate:"gte=0"`
	ActualDuration    int        `gorm:"not null" json:"actual_duration" validate:"required,gt=0"`
	DistanceKm        *float64   `json:"distance_km,omitempty" validate:"omitempty,gte=0"`
	RouteData         JSONMap    `gorm:"type:json" json:"route_data,omitempty"`
	TripPlanID        *int64     `gorm:"index" json:"trip_plan_id,omitempty"`
	PlannedCalories   *float64   `json:"planned_calories,omitempty"`
	PlannedDuration   *int       `json:"planned_duration,omitempty"`
	ExerciseDate      time.Time  `gorm:"type:date;not null;index:user_date" json:"exercise_date" validate:"required"`
	StartedAt         *time.Time `json:"started_at,omitempty"`
	EndedAt           *time.Time `json:"ended_at,omitempty"`
	Notes             *string    `gorm:"size:500" json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (ExerciseRecord) TableName() string {
	return "exercise_records"
}

// AchievementRate returns the derived actual/planned*100 rate, or nil when
// there is no linked plan to compare against.
func (r *ExerciseRecord) AchievementRate() *float64 {
	if r.PlannedCalories == nil || *r.PlannedCalories <= 0 {
		return nil
	}
	rate := r.ActualCalories / *r.PlannedCalories * 100
	return &rate
}

// CanonicalExerciseTypes is the closed set of nine exercise-type tags.
var CanonicalExerciseTypes = []string{
	"walking", "running", "cycling", "jogging", "hiking",
	"swimming", "gym", "indoor", "outdoor",
}

// IsCanonicalExerciseType reports whether t is one of the nine tags.
func IsCanonicalExerciseType(t string) bool {
	for _, c := range CanonicalExerciseTypes {
		if c == t {
			return true
		}
	}
	return false
}
