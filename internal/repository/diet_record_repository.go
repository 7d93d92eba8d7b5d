package repository

import (
	"context"
	"errors"
	"time"

	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"gorm.io/gorm"
)

// DietRecordRepository defines persistence for logged meals (spec.md §3).
type DietRecordRepository interface {
	Create(ctx context.Context, r *model.DietRecord) error
	GetByID(ctx context.Context, id int64) (*model.DietRecord, error)
	ListByUserAndDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*model.DietRecord, error)
	ListByUserAndDate(ctx context.Context, userID int64, date time.Time) ([]*model.DietRecord, error)
	DishNamesEatenOn(ctx context.Context, userID int64, date time.Time) ([]string, error)
	DishHistoryCounts(ctx context.Context, userID int64, since time.Time) (map[string]int, error)
	DeleteByUserID(ctx context.Context, userID int64) error
}

type dietRecordRepository struct {
	db *gorm.DB
}

func NewDietRecordRepository(db *gorm.DB) DietRecordRepository {
	return &dietRecordRepository{db: db}
}

func (r *dietRecordRepository) Create(ctx context.Context, rec *model.DietRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *dietRecordRepository) GetByID(ctx context.Context, id int64) (*model.DietRecord, error) {
	var rec model.DietRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *dietRecordRepository) ListByUserAndDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*model.DietRecord, error) {
	var records []*model.DietRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND record_date BETWEEN ? AND ?", userID, start, end).
		Order("record_date ASC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *dietRecordRepository) ListByUserAndDate(ctx context.Context, userID int64, date time.Time) ([]*model.DietRecord, error) {
	return r.ListByUserAndDateRange(ctx, userID, date, date)
}

func (r *dietRecordRepository) DishNamesEatenOn(ctx context.Context, userID int64, date time.Time) ([]string, error) {
	records, err := r.ListByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.DishName)
	}
	return names, nil
}

// DishHistoryCounts returns how many times each dish name appears since
// the given date, for the recommendation scorer's preference_score.
func (r *dietRecordRepository) DishHistoryCounts(ctx context.Context, userID int64, since time.Time) (map[string]int, error) {
	var rows []struct {
		DishName string
		Count    int
	}
	err := r.db.WithContext(ctx).Model(&model.DietRecord{}).
		Select("dish_name, count(*) as count").
		Where("user_id = ? AND record_date >= ?", userID, since).
		Group("dish_name").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.DishName] = row.Count
	}
	return counts, nil
}

func (r *dietRecordRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.DietRecord{}).Error
}
