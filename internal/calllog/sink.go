// Package calllog implements the AiCallLog writer of spec.md §4.5 and §5:
// an append-only record written on a dedicated, independent database
// session that must never interact with the caller's transaction, and
// whose own failures are always swallowed.
package calllog

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/TheBreeze12/lifehub-backend/internal/aiclient"
	"github.com/TheBreeze12/lifehub-backend/internal/model"
	"github.com/TheBreeze12/lifehub-backend/internal/pkg/logger"
)

var timeNow = time.Now

// Sink writes AiCallLog rows on a connection independent of any caller
// transaction. It implements aiclient.CallLogSink.
type Sink struct {
	db *gorm.DB
}

func NewSink(db *gorm.DB) *Sink {
	return &Sink{db: db}
}

// Record persists one call outcome. Any error is logged and swallowed —
// a logging failure must never surface to the caller (spec.md §7).
func (s *Sink) Record(entry aiclient.CallLogEntry) {
	row := model.AiCallLog{
		UserID:        entry.UserID,
		CallType:      entry.CallType,
		ModelID:       entry.ModelID,
		InputSummary:  model.TruncateSummary(entry.InputSummary, 450),
		OutputSummary: model.TruncateSummary(entry.OutputSummary, 450),
		Success:       entry.Success,
		LatencyMs:     entry.LatencyMs,
	}
	if entry.ErrorMessage != "" {
		msg := model.TruncateSummary(entry.ErrorMessage, 1000)
		row.ErrorMessage = &msg
	}

	// Session(NewDB) opens an independent connection/transaction scope so
	// this write can never be rolled back by, or block, the caller's own
	// transaction.
	if err := s.db.Session(&gorm.Session{NewDB: true}).Create(&row).Error; err != nil {
		logger.Warn("failed to write ai call log", zap.Error(err))
	}
}

// Repository provides read access to AiCallLog for the views in spec.md §6.
type Repository interface {
	List(userID int64, callType string, limit, offset int) ([]model.AiCallLog, int64, error)
	Stats(userID int64) (*Statistics, error)
	DeleteByUserID(db *gorm.DB, userID int64) (int64, error)
}

// Statistics is the GET /api/user/ai-logs/stats shape.
type Statistics struct {
	TotalCalls           int64            `json:"total_calls"`
	SuccessCount         int64            `json:"success_count"`
	FailureCount         int64            `json:"failure_count"`
	SuccessRate          float64          `json:"success_rate"`
	AvgLatencyMs         float64          `json:"avg_latency_ms"`
	CallTypeDistribution map[string]int64 `json:"call_type_distribution"`
	ModelDistribution    map[string]int64 `json:"model_distribution"`
	Recent7DaysCount     int64            `json:"recent_7days_count"`
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(userID int64, callType string, limit, offset int) ([]model.AiCallLog, int64, error) {
	q := r.db.Model(&model.AiCallLog{}).Where("user_id = ?", userID)
	if callType != "" {
		q = q.Where("call_type = ?", callType)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.AiCallLog
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) Stats(userID int64) (*Statistics, error) {
	stats := &Statistics{
		CallTypeDistribution: map[string]int64{},
		ModelDistribution:    map[string]int64{},
	}

	base := r.db.Model(&model.AiCallLog{}).Where("user_id = ?", userID)
	if err := base.Count(&stats.TotalCalls).Error; err != nil {
		return nil, err
	}
	if stats.TotalCalls == 0 {
		return stats, nil
	}

	if err := r.db.Model(&model.AiCallLog{}).Where("user_id = ? AND success = ?", userID, true).Count(&stats.SuccessCount).Error; err != nil {
		return nil, err
	}
	stats.FailureCount = stats.TotalCalls - stats.SuccessCount
	stats.SuccessRate = float64(stats.SuccessCount) / float64(stats.TotalCalls) * 100

	var avg float64
	if err := r.db.Model(&model.AiCallLog{}).Where("user_id = ?", userID).
		Select("COALESCE(AVG(latency_ms), 0)").Row().Scan(&avg); err != nil {
		return nil, err
	}
	stats.AvgLatencyMs = avg

	var byType []struct {
		CallType string
		Count    int64
	}
	if err := r.db.Model(&model.AiCallLog{}).Where("user_id = ?", userID).
		Select("call_type, count(*) as count").Group("call_type").Scan(&byType).Error; err != nil {
		return nil, err
	}
	for _, row := range byType {
		stats.CallTypeDistribution[row.CallType] = row.Count
	}

	var byModel []struct {
		ModelID string
		Count   int64
	}
	if err := r.db.Model(&model.AiCallLog{}).Where("user_id = ?", userID).
		Select("model_id, count(*) as count").Group("model_id").Scan(&byModel).Error; err != nil {
		return nil, err
	}
	for _, row := range byModel {
		stats.ModelDistribution[row.ModelID] = row.Count
	}

	sevenDaysAgo := timeNow().AddDate(0, 0, -7)
	if err := r.db.Model(&model.AiCallLog{}).
		Where("user_id = ? AND created_at >= ?", userID, sevenDaysAgo).
		Count(&stats.Recent7DaysCount).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *repository) DeleteByUserID(db *gorm.DB, userID int64) (int64, error) {
	result := db.Where("user_id = ?", userID).Delete(&model.AiCallLog{})
	return result.RowsAffected, result.Error
}
