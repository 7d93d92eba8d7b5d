package repository

import (
	"context"
	"errors"

	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"gorm.io/gorm"
)

// MealComparisonRepository defines persistence for the before/after diff
// engine's entity (spec.md §4.8).
type MealComparisonRepository interface {
	Create(ctx context.Context, mc *model.MealComparison) error
	GetByID(ctx context.Context, id int64) (*model.MealComparison, error)
	Update(ctx context.Context, mc *model.MealComparison) error
	ListByUser(ctx context.Context, userID int64) ([]*model.MealComparison, error)
	DeleteByUserID(ctx context.Context, userID int64) error
}

type mealComparisonRepository struct {
	db *gorm.DB
}

func NewMealComparisonRepository(db *gorm.DB) MealComparisonRepository {
	return &mealComparisonRepository{db: db}
}

func (r *mealComparisonRepository) Create(ctx context.Context, mc *model.MealComparison) error {
	return r.db.WithContext(ctx).Create(mc).Error
}

func (r *mealComparisonRepository) GetByID(ctx context.Context, id int64) (*model.MealComparison, error) {
	var mc model.MealComparison
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&mc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &mc, nil
}

func (r *mealComparisonRepository) Update(ctx context.Context, mc *model.MealComparison) error {
	return r.db.WithContext(ctx).Save(mc).Error
}

func (r *mealComparisonRepository) ListByUser(ctx context.Context, userID int64) ([]*model.MealComparison, error) {
	var records []*model.MealComparison
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *mealComparisonRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.MealComparison{}).Error
}
