package model

import "time"

// DietRecord is a single logged meal, owned by the user that ate it.
// Deleting the owner deletes all of its diet records (strong ownership).
type DietRecord struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"not null;index:user_date" json:"user_id" validate:"required"`
	DishName   string    `gorm:"size:200;not null" json:"dish_name" validate:"required,min=1,max=200"`
	Calories   float64   `gorm:"not null" json:"calories" validate:"gte=0"`
	Protein    float64   `gorm:"not null" json:"protein" validate:"gte=0"`
	Fat        float64   `gorm:"not null" json:"fat" validate:"gte=0"`
	Carbs      float64   `gorm:"not null" json:"carbs" validate:"gte=0"`
	MealSlot   string    `gorm:"size:20;not null" json:"meal_slot" validate:"required,oneof=breakfast lunch dinner snack"`
	RecordDate time.Time `gorm:"type:date;not null;index:user_date" json:"record_date" validate:"required"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (DietRecord) TableName() string {
	return "diet_records"
}

// MaxFutureHorizon bounds how far into the future a record_date may sit.
const MaxFutureHorizon = 24 * time.Hour

// MenuRecognition is the immutable result of a single photo-recognition
// call. UserID is nullable: recognitions made without a logged-in caller
// are returned but not persisted under a user.
type MenuRecognition struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *int64    `gorm:"index" json:"user_id,omitempty"`
	Dishes    JSONSlice `gorm:"type:json;not null" json:"dishes"`
	CreatedAt time.Time `json:"created_at"`
}

func (MenuRecognition) TableName() string {
	return "menu_recognitions"
}

// RecognizedDish is one entry inside MenuRecognition.Dishes / the
// menu-recognition analyzer's output (spec.md §4.7).
type RecognizedDish struct {
	Name          string  `json:"name"`
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Fat           float64 `json:"fat"`
	Carbs         float64 `json:"carbs"`
	IsRecommended bool    `json:"isRecommended"`
	Reason        string  `json:"reason"`
}
