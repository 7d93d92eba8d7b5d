package repository

import (
	"context"
	"errors"

	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"gorm.io/gorm"
)

// MenuRecognitionRepository persists the immutable result of a single
// photo-recognition call (spec.md §3).
type MenuRecognitionRepository interface {
	Create(ctx context.Context, mr *model.MenuRecognition) error
	LatestByUserID(ctx context.Context, userID int64) (*model.MenuRecognition, error)
	DeleteByUserID(ctx context.Context, userID int64) error
}

type menuRecognitionRepository struct {
	db *gorm.DB
}

func NewMenuRecognitionRepository(db *gorm.DB) MenuRecognitionRepository {
	return &menuRecognitionRepository{db: db}
}

func (r *menuRecognitionRepository) Create(ctx context.Context, mr *model.MenuRecognition) error {
	return r.db.WithContext(ctx).Create(mr).Error
}

func (r *menuRecognitionRepository) LatestByUserID(ctx context.Context, userID int64) (*model.MenuRecognition, error) {
	var mr model.MenuRecognition
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").First(&mr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &mr, nil
}

func (r *menuRecognitionRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.MenuRecognition{}).Error
}
