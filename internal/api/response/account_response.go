package response

// PreferencesInfo is the GET/PUT /api/user/preferences shape (spec.md §3
// User health-management profile).
type PreferencesInfo struct {
	HealthGoal string   `json:"health_goal"`
	Allergens  []string `json:"allergens"`
	WeightKg   *float64 `json:"weight_kg,omitempty"`
	HeightCm   *float64 `json:"height_cm,omitempty"`
	Age        *int     `json:"age,omitempty"`
	Gender     *string  `json:"gender,omitempty"`
}

// AccountDeletionInfo reports the per-table row counts removed by a
// "forget-me" request (spec.md §6).
type AccountDeletionInfo struct {
	DeletedCounts map[string]int64 `json:"deleted_counts"`
}
