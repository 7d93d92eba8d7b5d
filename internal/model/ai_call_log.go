package model

import "time"

// AiCallLog is an append-only record of one LLM adapter invocation,
// written on an independent transaction (spec.md §4.5, §5) so that a
// logging failure never affects the caller's request.
type AiCallLog struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       *int64    `gorm:"index" json:"user_id,omitempty"`
	CallType     string    `gorm:"size:30;not null;index" json:"call_type"`
	ModelID      string    `gorm:"size:100;not null" json:"model_id"`
	InputSummary string    `gorm:"size:450" json:"input_summary"`
	OutputSummary string   `gorm:"size:450" json:"output_summary"`
	Success      bool      `gorm:"not null" json:"success"`
	ErrorMessage *string   `gorm:"size:1000" json:"error_message,omitempty"`
	LatencyMs    int64     `gorm:"not null" json:"latency_ms"`
	TokenCount   *int      `json:"token_count,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

func (AiCallLog) TableName() string {
	return "ai_call_logs"
}

// Call-type enum values (spec.md §3 AiCallLog).
const (
	CallTypeFoodAnalysis    = "food-analysis"
	CallTypeMenuRecognition = "menu-recognition"
	CallTypeTripGeneration  = "trip-generation"
	CallTypeExerciseIntent  = "exercise-intent"
	CallTypeAllergenCheck   = "allergen-check"
	CallTypeMealComparison  = "meal-comparison"
)

// TruncateSummary caps s to the AiCallLog summary column width.
func TruncateSummary(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
