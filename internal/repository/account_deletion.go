package repository

import (
	"context"

	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"gorm.io/gorm"
)

// AccountDeleter runs the "forget-me" cascading delete (spec.md §6) as
// one transaction, in dependency order: exercise_record -> trip_item ->
// trip_plan -> diet_record -> meal_comparison -> menu_recognition ->
// user. Each step is scoped to the target user so a partial failure
// leaves no orphaned rows for a different user.
type AccountDeleter struct {
	db *gorm.DB
}

func NewAccountDeleter(db *gorm.DB) *AccountDeleter {
	return &AccountDeleter{db: db}
}

// DeletedCounts reports how many rows the "forget-me" transaction removed
// from each table, keyed by table name (spec.md §6).
type DeletedCounts map[string]int64

// DeleteAccount removes every row owned by userID, then the user row
// itself, inside a single transaction, and reports how many rows were
// removed from each table.
func (d *AccountDeleter) DeleteAccount(ctx context.Context, userID int64) (DeletedCounts, error) {
	counts := DeletedCounts{}
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ?", userID).Delete(&model.ExerciseRecord{})
		if res.Error != nil {
			return res.Error
		}
		counts["exercise_record"] = res.RowsAffected

		var planIDs []int64
		if err := tx.Model(&model.TripPlan{}).Where("user_id = ?", userID).Pluck("id", &planIDs).Error; err != nil {
			return err
		}
		if len(planIDs) > 0 {
			res = tx.Where("trip_plan_id IN ?", planIDs).Delete(&model.TripItem{})
			if res.Error != nil {
				return res.Error
			}
			counts["trip_item"] = res.RowsAffected
		}
		res = tx.Where("user_id = ?", userID).Delete(&model.TripPlan{})
		if res.Error != nil {
			return res.Error
		}
		counts["trip_plan"] = res.RowsAffected

		res = tx.Where("user_id = ?", userID).Delete(&model.DietRecord{})
		if res.Error != nil {
			return res.Error
		}
		counts["diet_record"] = res.RowsAffected

		res = tx.Where("user_id = ?", userID).Delete(&model.MealComparison{})
		if res.Error != nil {
			return res.Error
		}
		counts["meal_comparison"] = res.RowsAffected

		res = tx.Where("user_id = ?", userID).Delete(&model.MenuRecognition{})
		if res.Error != nil {
			return res.Error
		}
		counts["menu_recognition"] = res.RowsAffected

		res = tx.Where("id = ?", userID).Delete(&model.User{})
		if res.Error != nil {
			return res.Error
		}
		counts["user"] = res.RowsAffected
		return nil
	})
	return counts, err
}
