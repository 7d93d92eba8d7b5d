package repository

import (
	"context"
	"errors"
	"time"

	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"gorm.io/gorm"
)

// TripRepository persists trip plans together with their items (spec.md
// §3 TripPlan/TripItem).
type TripRepository interface {
	CreatePlan(ctx context.Context, plan *model.TripPlan) error
	GetPlanByID(ctx context.Context, id int64) (*model.TripPlan, error)
	ListPlansByUser(ctx context.Context, userID int64) ([]*model.TripPlan, error)
	// ItemsCoveringDate returns every TripItem belonging to a plan owned
	// by userID whose [start,end] window covers date (for daily energy
	// balance's planned_burn_kcal, spec.md §4.12).
	ItemsCoveringDate(ctx context.Context, userID int64, date time.Time) ([]*model.TripItem, error)
	UpdatePlan(ctx context.Context, plan *model.TripPlan) error
	DeleteByUserID(ctx context.Context, userID int64) error
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) CreatePlan(ctx context.Context, plan *model.TripPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *tripRepository) GetPlanByID(ctx context.Context, id int64) (*model.TripPlan, error) {
	var plan model.TripPlan
	err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *tripRepository) ListPlansByUser(ctx context.Context, userID int64) ([]*model.TripPlan, error) {
	var plans []*model.TripPlan
	err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).Order("start_date DESC").Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *tripRepository) ItemsCoveringDate(ctx context.Context, userID int64, date time.Time) ([]*model.TripItem, error) {
	var items []*model.TripItem
	err := r.db.WithContext(ctx).
		Joins("JOIN trip_plans ON trip_plans.id = trip_items.trip_plan_id").
		Where("trip_plans.user_id = ? AND ? BETWEEN trip_plans.start_date AND trip_plans.end_date", userID, date).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *tripRepository) UpdatePlan(ctx context.Context, plan *model.TripPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *tripRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	var planIDs []int64
	if err := r.db.WithContext(ctx).Model(&model.TripPlan{}).
		Where("user_id = ?", userID).Pluck("id", &planIDs).Error; err != nil {
		return err
	}
	if len(planIDs) > 0 {
		if err := r.db.WithContext(ctx).Where("trip_plan_id IN ?", planIDs).Delete(&model.TripItem{}).Error; err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.TripPlan{}).Error
}
