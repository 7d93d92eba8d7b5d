package repository

import (
	"context"
	"errors"
	"time"

	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"gorm.io/gorm"
)

// ExerciseRecordRepository persists actually-performed workouts (spec.md
// §3 ExerciseRecord).
type ExerciseRecordRepository interface {
	Create(ctx context.Context, r *model.ExerciseRecord) error
	GetByID(ctx context.Context, id int64) (*model.ExerciseRecord, error)
	ListByUserAndDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*model.ExerciseRecord, error)
	ListByUserAndDate(ctx context.Context, userID int64, date time.Time) ([]*model.ExerciseRecord, error)
	DeleteByUserID(ctx context.Context, userID int64) error
}

type exerciseRecordRepository struct {
	db *gorm.DB
}

func NewExerciseRecordRepository(db *gorm.DB) ExerciseRecordRepository {
	return &exerciseRecordRepository{db: db}
}

func (r *exerciseRecordRepository) Create(ctx context.Context, rec *model.ExerciseRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *exerciseRecordRepository) GetByID(ctx context.Context, id int64) (*model.ExerciseRecord, error) {
	var rec model.ExerciseRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *exerciseRecordRepository) ListByUserAndDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*model.ExerciseRecord, error) {
	var records []*model.ExerciseRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND exercise_date BETWEEN ? AND ?", userID, start, end).
		Order("exercise_date ASC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *exerciseRecordRepository) ListByUserAndDate(ctx context.Context, userID int64, date time.Time) ([]*model.ExerciseRecord, error) {
	return r.ListByUserAndDateRange(ctx, userID, date, date)
}

func (r *exerciseRecordRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.ExerciseRecord{}).Error
}
